package registry

import "fmt"

// Sdk is one SDK/toolchain object. Identity is the object itself; the name can
// change via Rename, the type never does.
type Sdk struct {
	name    string
	sdkType string
}

// Name returns the SDK's current name.
func (s *Sdk) Name() string { return s.name }

// Type returns the SDK's type ("jdk", "go", ...).
func (s *Sdk) Type() string { return s.sdkType }

// ResourceName implements the refindex resource contract.
func (s *Sdk) ResourceName() string { return s.name }

// ResourceKindName implements the refindex resource contract.
func (s *Sdk) ResourceKindName() string { return "sdk" }

// SdkListener observes mutations of the SDK table.
type SdkListener interface {
	SdkAdded(sdk *Sdk)
	SdkRemoved(sdk *Sdk)
	SdkRenamed(sdk *Sdk, oldName string)
}

type sdkKey struct {
	name    string
	sdkType string
}

// SdkTable is the global set of registered SDKs, plus the project's current
// default SDK setting.
type SdkTable struct {
	byKey      map[sdkKey]*Sdk
	defaultSdk *Sdk
	listeners  []SdkListener
}

// NewSdkTable creates an empty SDK table.
func NewSdkTable() *SdkTable {
	return &SdkTable{byKey: make(map[sdkKey]*Sdk)}
}

// Lookup returns the SDK with the given name and type, or nil.
func (t *SdkTable) Lookup(name, sdkType string) *Sdk {
	return t.byKey[sdkKey{name: name, sdkType: sdkType}]
}

// Sdks returns every registered SDK.
func (t *SdkTable) Sdks() []*Sdk {
	out := make([]*Sdk, 0, len(t.byKey))
	for _, sdk := range t.byKey {
		out = append(out, sdk)
	}
	return out
}

// Default returns the project's current default SDK, or nil when unset.
// Callers must read this at resolution time, never cache it: the setting
// changes independently of any module edit.
func (t *SdkTable) Default() *Sdk {
	return t.defaultSdk
}

// SetDefault changes the project default SDK. A nil value clears it.
func (t *SdkTable) SetDefault(sdk *Sdk) error {
	if sdk != nil {
		if t.byKey[sdkKey{name: sdk.name, sdkType: sdk.sdkType}] != sdk {
			return fmt.Errorf("sdk %q (%s) is not registered", sdk.name, sdk.sdkType)
		}
	}
	t.defaultSdk = sdk
	return nil
}

// Add registers a new SDK.
func (t *SdkTable) Add(name, sdkType string) (*Sdk, error) {
	if name == "" || sdkType == "" {
		return nil, fmt.Errorf("sdk name and type are required")
	}
	key := sdkKey{name: name, sdkType: sdkType}
	if _, exists := t.byKey[key]; exists {
		return nil, fmt.Errorf("sdk %q (%s) already exists", name, sdkType)
	}

	sdk := &Sdk{name: name, sdkType: sdkType}
	t.byKey[key] = sdk
	for _, l := range t.snapshotListeners() {
		l.SdkAdded(sdk)
	}
	return sdk, nil
}

// Remove deletes an SDK. If it was the project default, the default is cleared
// after listeners run: callbacks can still see which identity an inherited
// dependency resolved to, while resolution after Remove returns never yields
// an SDK that is no longer registered.
func (t *SdkTable) Remove(name, sdkType string) error {
	key := sdkKey{name: name, sdkType: sdkType}
	sdk, exists := t.byKey[key]
	if !exists {
		return fmt.Errorf("sdk %q (%s) not found", name, sdkType)
	}

	delete(t.byKey, key)
	for _, l := range t.snapshotListeners() {
		l.SdkRemoved(sdk)
	}
	if t.defaultSdk == sdk {
		t.defaultSdk = nil
	}
	return nil
}

// Rename changes an SDK's name in place, keeping its identity and type.
func (t *SdkTable) Rename(oldName, sdkType, newName string) error {
	oldKey := sdkKey{name: oldName, sdkType: sdkType}
	sdk, exists := t.byKey[oldKey]
	if !exists {
		return fmt.Errorf("sdk %q (%s) not found", oldName, sdkType)
	}
	if newName == "" {
		return fmt.Errorf("sdk name is required")
	}
	newKey := sdkKey{name: newName, sdkType: sdkType}
	if _, taken := t.byKey[newKey]; taken {
		return fmt.Errorf("sdk %q (%s) already exists", newName, sdkType)
	}

	delete(t.byKey, oldKey)
	sdk.name = newName
	t.byKey[newKey] = sdk
	for _, l := range t.snapshotListeners() {
		l.SdkRenamed(sdk, oldName)
	}
	return nil
}

// AddListener subscribes a listener to table mutations.
func (t *SdkTable) AddListener(l SdkListener) {
	t.listeners = append(t.listeners, l)
}

// RemoveListener unsubscribes a previously added listener.
func (t *SdkTable) RemoveListener(l SdkListener) {
	for i, existing := range t.listeners {
		if existing == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

func (t *SdkTable) snapshotListeners() []SdkListener {
	out := make([]SdkListener, len(t.listeners))
	copy(out, t.listeners)
	return out
}
