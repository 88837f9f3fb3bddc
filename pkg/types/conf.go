package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Aggregate section names.
const (
	SectionInternal  = "internal"
	SectionResources = "resources"
	SectionAppConf   = "appConf"
)

// ConfTree is a configuration document: global options, per-component option
// maps, credential bindings and free-form metadata.
type ConfTree struct {
	Schema      string                       `json:"schema,omitempty"`
	Metadata    map[string]any               `json:"metadata"`
	Global      map[string]string            `json:"global"`
	Credentials map[string][]string          `json:"credentials"`
	Components  map[string]map[string]string `json:"components"`
}

// Normalize replaces nil maps with empty ones so decoded trees compare equal
// regardless of which keys the source document spelled out.
func (t *ConfTree) Normalize() {
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	if t.Global == nil {
		t.Global = map[string]string{}
	}
	if t.Credentials == nil {
		t.Credentials = map[string][]string{}
	}
	if t.Components == nil {
		t.Components = map[string]map[string]string{}
	}
	for name, opts := range t.Components {
		if opts == nil {
			t.Components[name] = map[string]string{}
		}
	}
}

// AggregateConf bundles the three trees that make up an application model.
type AggregateConf struct {
	Name      string    `json:"name,omitempty"`
	Internal  *ConfTree `json:"internal"`
	Resources *ConfTree `json:"resources"`
	AppConf   *ConfTree `json:"appConf"`
}

// Normalize fills in missing sections with empty trees.
func (a *AggregateConf) Normalize() {
	for _, t := range []**ConfTree{&a.Internal, &a.Resources, &a.AppConf} {
		if *t == nil {
			*t = &ConfTree{}
		}
		(*t).Normalize()
	}
}

// Section returns the named tree. Names match case-insensitively.
func (a *AggregateConf) Section(name string) (*ConfTree, bool) {
	switch strings.ToLower(name) {
	case strings.ToLower(SectionInternal):
		return a.Internal, a.Internal != nil
	case strings.ToLower(SectionResources):
		return a.Resources, a.Resources != nil
	case strings.ToLower(SectionAppConf):
		return a.AppConf, a.AppConf != nil
	}
	return nil, false
}

// ConfTreeOperations wraps a ConfTree with typed option lookups.
type ConfTreeOperations struct {
	tree *ConfTree
}

// NewConfTreeOperations wraps t. A nil tree is treated as empty.
func NewConfTreeOperations(t *ConfTree) *ConfTreeOperations {
	if t == nil {
		t = &ConfTree{}
	}
	t.Normalize()
	return &ConfTreeOperations{tree: t}
}

// Tree returns the wrapped tree.
func (o *ConfTreeOperations) Tree() *ConfTree { return o.tree }

// GlobalOption returns the global option key, or def when it is unset.
func (o *ConfTreeOperations) GlobalOption(key, def string) string {
	if v, ok := o.tree.Global[key]; ok {
		return v
	}
	return def
}

// MandatoryOption returns the global option key or an error if it is unset.
func (o *ConfTreeOperations) MandatoryOption(key string) (string, error) {
	v, ok := o.tree.Global[key]
	if !ok {
		return "", fmt.Errorf("missing global option %q", key)
	}
	return v, nil
}

// ComponentNames returns the component names in sorted order.
func (o *ConfTreeOperations) ComponentNames() []string {
	names := make([]string, 0, len(o.tree.Components))
	for name := range o.tree.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Component returns the option map of the named component.
func (o *ConfTreeOperations) Component(name string) (map[string]string, bool) {
	c, ok := o.tree.Components[name]
	return c, ok
}

// ComponentOption returns a component option, or def when either the
// component or the key is missing.
func (o *ConfTreeOperations) ComponentOption(name, key, def string) string {
	if c, ok := o.tree.Components[name]; ok {
		if v, ok := c[key]; ok {
			return v
		}
	}
	return def
}

// ComponentOptionInt is ComponentOption parsed as a decimal integer.
func (o *ConfTreeOperations) ComponentOptionInt(name, key string, def int) (int, error) {
	v := o.ComponentOption(name, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("component %q option %q: %w", name, key, err)
	}
	return n, nil
}
