package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sdkEvents struct {
	calls []string
}

func (e *sdkEvents) SdkAdded(sdk *Sdk) {
	e.calls = append(e.calls, "added "+sdk.Name())
}

func (e *sdkEvents) SdkRemoved(sdk *Sdk) {
	e.calls = append(e.calls, "removed "+sdk.Name())
}

func (e *sdkEvents) SdkRenamed(sdk *Sdk, oldName string) {
	e.calls = append(e.calls, "renamed "+oldName+" to "+sdk.Name())
}

func TestSdkTableAddAndLookup(t *testing.T) {
	table := NewSdkTable()
	sdk, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	assert.Equal(t, "corretto-17", sdk.Name())
	assert.Equal(t, "jdk", sdk.Type())
	assert.Same(t, sdk, table.Lookup("corretto-17", "jdk"))
	assert.Nil(t, table.Lookup("corretto-17", "go"), "name and type together form the key")

	_, err = table.Add("corretto-17", "jdk")
	assert.Error(t, err)
	_, err = table.Add("", "jdk")
	assert.Error(t, err)
}

func TestSdkTableSameNameDifferentTypes(t *testing.T) {
	table := NewSdkTable()
	jdk, err := table.Add("latest", "jdk")
	require.NoError(t, err)
	golang, err := table.Add("latest", "go")
	require.NoError(t, err)
	assert.NotSame(t, jdk, golang)
	assert.Len(t, table.Sdks(), 2)
}

func TestSdkTableDefault(t *testing.T) {
	table := NewSdkTable()
	assert.Nil(t, table.Default())

	sdk, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	require.NoError(t, table.SetDefault(sdk))
	assert.Same(t, sdk, table.Default())

	require.NoError(t, table.SetDefault(nil))
	assert.Nil(t, table.Default())

	foreign := &Sdk{name: "ghost", sdkType: "jdk"}
	assert.Error(t, table.SetDefault(foreign), "only registered SDKs can be the default")
}

func TestSdkTableRemoveClearsDefault(t *testing.T) {
	table := NewSdkTable()
	sdk, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	require.NoError(t, table.SetDefault(sdk))

	require.NoError(t, table.Remove("corretto-17", "jdk"))
	assert.Nil(t, table.Default(), "removing the default SDK clears the setting")
	assert.Error(t, table.Remove("corretto-17", "jdk"))
}

func TestSdkTableRenameKeepsIdentityAndType(t *testing.T) {
	table := NewSdkTable()
	sdk, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	require.NoError(t, table.SetDefault(sdk))

	require.NoError(t, table.Rename("corretto-17", "jdk", "corretto-21"))
	assert.Same(t, sdk, table.Lookup("corretto-21", "jdk"))
	assert.Equal(t, "corretto-21", sdk.Name())
	assert.Equal(t, "jdk", sdk.Type())
	assert.Nil(t, table.Lookup("corretto-17", "jdk"))
	assert.Same(t, sdk, table.Default(), "the default follows the object, not the name")

	assert.Error(t, table.Rename("missing", "jdk", "x"))
	assert.Error(t, table.Rename("corretto-21", "jdk", ""))
}

// defaultCapture records what Default() resolved to while SdkRemoved ran.
type defaultCapture struct {
	table         *SdkTable
	defaultDuring *Sdk
}

func (c *defaultCapture) SdkAdded(*Sdk) {}

func (c *defaultCapture) SdkRenamed(*Sdk, string) {}

func (c *defaultCapture) SdkRemoved(*Sdk) {
	c.defaultDuring = c.table.Default()
}

func TestSdkTableRemoveKeepsDefaultVisibleToListeners(t *testing.T) {
	table := NewSdkTable()
	sdk, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	require.NoError(t, table.SetDefault(sdk))

	listener := &defaultCapture{table: table}
	table.AddListener(listener)

	require.NoError(t, table.Remove("corretto-17", "jdk"))
	assert.Same(t, sdk, listener.defaultDuring,
		"listeners must still see which SDK was the default")
	assert.Nil(t, table.Default(), "the setting is cleared once dispatch is done")
}

func TestSdkTableListeners(t *testing.T) {
	table := NewSdkTable()
	events := &sdkEvents{}
	table.AddListener(events)

	_, err := table.Add("corretto-17", "jdk")
	require.NoError(t, err)
	require.NoError(t, table.Rename("corretto-17", "jdk", "corretto-21"))
	require.NoError(t, table.Remove("corretto-21", "jdk"))

	assert.Equal(t, []string{
		"added corretto-17",
		"renamed corretto-17 to corretto-21",
		"removed corretto-21",
	}, events.calls)

	table.RemoveListener(events)
	_, err = table.Add("go-1.25", "go")
	require.NoError(t, err)
	assert.Len(t, events.calls, 3)
}
