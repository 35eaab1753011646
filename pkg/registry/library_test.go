package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// libraryEvents records listener callbacks in delivery order.
type libraryEvents struct {
	calls []string
}

func (e *libraryEvents) LibraryAdded(lib *Library) {
	e.calls = append(e.calls, "added "+lib.Name())
}

func (e *libraryEvents) LibraryRemoved(lib *Library) {
	e.calls = append(e.calls, "removed "+lib.Name())
}

func (e *libraryEvents) LibraryRenamed(lib *Library, oldName string) {
	e.calls = append(e.calls, "renamed "+oldName+" to "+lib.Name())
}

func TestLibraryTableAddAndGet(t *testing.T) {
	table := NewLibraryTable(LevelProject)
	lib, err := table.Add("guava")
	require.NoError(t, err)
	assert.Equal(t, "guava", lib.Name())
	assert.Equal(t, LevelProject, lib.Level())
	assert.Same(t, lib, table.Get("guava"))
	assert.Nil(t, table.Get("missing"))

	_, err = table.Add("guava")
	assert.Error(t, err, "duplicate names are rejected")
	_, err = table.Add("")
	assert.Error(t, err)
}

func TestLibraryTableRemove(t *testing.T) {
	table := NewLibraryTable(LevelProject)
	_, err := table.Add("guava")
	require.NoError(t, err)

	require.NoError(t, table.Remove("guava"))
	assert.Nil(t, table.Get("guava"))
	assert.Error(t, table.Remove("guava"))
}

func TestLibraryTableRenameKeepsIdentity(t *testing.T) {
	table := NewLibraryTable(LevelProject)
	lib, err := table.Add("guava")
	require.NoError(t, err)

	require.NoError(t, table.Rename("guava", "guava-core"))
	assert.Same(t, lib, table.Get("guava-core"), "rename must not replace the object")
	assert.Equal(t, "guava-core", lib.Name())
	assert.Nil(t, table.Get("guava"))

	assert.Error(t, table.Rename("missing", "x"))
	assert.Error(t, table.Rename("guava-core", ""))

	_, err = table.Add("taken")
	require.NoError(t, err)
	assert.Error(t, table.Rename("guava-core", "taken"))
}

func TestLibraryTableListeners(t *testing.T) {
	table := NewLibraryTable(LevelProject)
	events := &libraryEvents{}
	table.AddListener(events)

	_, err := table.Add("guava")
	require.NoError(t, err)
	require.NoError(t, table.Rename("guava", "guava-core"))
	require.NoError(t, table.Remove("guava-core"))

	assert.Equal(t, []string{
		"added guava",
		"renamed guava to guava-core",
		"removed guava-core",
	}, events.calls)

	table.RemoveListener(events)
	_, err = table.Add("log4j")
	require.NoError(t, err)
	assert.Len(t, events.calls, 3, "removed listener must not be called")
}

// detachOnDispatch removes itself while being notified, exercising the
// snapshot taken before dispatch.
type detachOnDispatch struct {
	table *LibraryTable
	calls int
}

func (d *detachOnDispatch) LibraryAdded(*Library) {
	d.calls++
	d.table.RemoveListener(d)
}

func (d *detachOnDispatch) LibraryRemoved(*Library) {}

func (d *detachOnDispatch) LibraryRenamed(*Library, string) {}

func TestLibraryTableListenerDetachDuringDispatch(t *testing.T) {
	table := NewLibraryTable(LevelProject)
	first := &detachOnDispatch{table: table}
	second := &libraryEvents{}
	table.AddListener(first)
	table.AddListener(second)

	_, err := table.Add("guava")
	require.NoError(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, []string{"added guava"}, second.calls, "remaining listener still sees the event")

	_, err = table.Add("log4j")
	require.NoError(t, err)
	assert.Equal(t, 1, first.calls, "detached listener stays detached")
}

func TestLibraryTablesRegistrar(t *testing.T) {
	tables := NewLibraryTables()
	assert.Nil(t, tables.Table(LevelProject), "unregistered level resolves to nil")

	project := tables.Register(LevelProject)
	assert.Same(t, project, tables.Register(LevelProject), "register is idempotent")
	assert.Same(t, project, tables.Table(LevelProject))

	tables.Register(LevelApplication)
	assert.Len(t, tables.Tables(), 2)
}

func TestLibraryTablesOnRegister(t *testing.T) {
	tables := NewLibraryTables()
	tables.Register(LevelProject)

	var levels []string
	tables.OnRegister(func(table *LibraryTable) {
		levels = append(levels, table.Level())
	})

	tables.Register(LevelProject)
	assert.Empty(t, levels, "re-registering an existing level must not fire")

	tables.Register(LevelApplication)
	assert.Equal(t, []string{LevelApplication}, levels)
}
