package refindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

func TestAuditCleanOnConsistentIndex(t *testing.T) {
	f := newFixture(t)
	table := f.libs.Register(registry.LevelProject)
	_, err := table.Add("guava")
	require.NoError(t, err)
	f.index.Setup()

	f.addModule("core",
		sharedLib(registry.LevelProject, "guava"),
		project.NamedSdk{Name: "corretto-17", Type: "jdk"},
		project.ModuleLocalLibrary{Name: "generated"},
	)
	f.addModule("web", sharedLib(registry.LevelProject, "guava"))

	report := f.index.Audit()
	assert.True(t, report.Clean())
	assert.Equal(t, 2, report.ModuleCount)
	assert.Equal(t, 2, report.KeyCount, "module-local items never reach the table")
}

func TestAuditCountsDuplicateDeclarationsOnce(t *testing.T) {
	f := newFixture(t)
	f.index.Setup()

	f.addModule("core",
		sharedLib(registry.LevelProject, "guava"),
		sharedLib(registry.LevelProject, "guava"),
	)

	report := f.index.Audit()
	assert.True(t, report.Clean())
}

func TestAuditDetectsMissingReference(t *testing.T) {
	f := newFixture(t)
	f.index.Setup()

	mod := f.addModule("core", sharedLib(registry.LevelProject, "guava"))

	// Corrupt the table behind the index's back.
	f.index.refs.Remove(mod.ID, LibraryKey(registry.LevelProject, "guava"))

	report := f.index.Audit()
	require.Len(t, report.Drift, 1)
	assert.Equal(t, LibraryKey(registry.LevelProject, "guava"), report.Drift[0].Key)
	assert.Equal(t, 1, report.Drift[0].Expected)
	assert.Equal(t, 0, report.Drift[0].Actual)
}

func TestAuditDetectsStaleReference(t *testing.T) {
	f := newFixture(t)
	f.index.Setup()

	f.addModule("core", sharedLib(registry.LevelProject, "guava"))
	f.index.refs.Add("ghost-module", SdkKey("corretto-17", "jdk"))

	report := f.index.Audit()
	require.Len(t, report.Drift, 1)
	assert.Equal(t, SdkKey("corretto-17", "jdk"), report.Drift[0].Key)
	assert.Equal(t, 0, report.Drift[0].Expected)
	assert.Equal(t, 1, report.Drift[0].Actual)
}

func TestAuditOnEmptyIndex(t *testing.T) {
	f := newFixture(t)
	f.index.Setup()

	report := f.index.Audit()
	assert.True(t, report.Clean())
	assert.Equal(t, 0, report.ModuleCount)
	assert.Equal(t, 0, report.KeyCount)
	assert.False(t, report.CheckedAt.IsZero())
}
