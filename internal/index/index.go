package index

import (
	"fmt"
	"sort"
)

// Resource is one registered download target.
type Resource struct {
	URL          string `json:"url"`
	Subdirectory string `json:"subdirectory"`
	Unzip        bool   `json:"unzip"`
}

// Index holds every registered resource and group.
//
// Resource and group names share one namespace without enforcement; when a
// name exists in both tables, group semantics win during expansion.
type Index struct {
	Models map[string]Resource `json:"models"`
	Groups map[string][]string `json:"groups"`
}

// New returns an empty initialized index.
func New() *Index {
	return &Index{
		Models: make(map[string]Resource),
		Groups: make(map[string][]string),
	}
}

// Known reports whether name is a registered resource or group.
func (ix *Index) Known(name string) bool {
	if _, ok := ix.Models[name]; ok {
		return true
	}
	_, ok := ix.Groups[name]
	return ok
}

// SetModel registers a resource, overwriting any previous entry.
func (ix *Index) SetModel(name string, r Resource) {
	ix.Models[name] = r
}

// SaveGroup stores a group definition. Every member must already be a known
// resource or group; membership is otherwise resolved lazily at expansion.
func (ix *Index) SaveGroup(name string, members []string) error {
	for _, m := range members {
		if !ix.Known(m) {
			return fmt.Errorf("index: unknown model or group %q", m)
		}
	}
	ix.Groups[name] = members
	return nil
}

// DeleteGroup removes a group definition.
func (ix *Index) DeleteGroup(name string) error {
	if _, ok := ix.Groups[name]; !ok {
		return fmt.Errorf("index: group %q does not exist", name)
	}
	delete(ix.Groups, name)
	return nil
}

// ModelNames returns registered resource names in sorted order.
func (ix *Index) ModelNames() []string {
	names := make([]string, 0, len(ix.Models))
	for name := range ix.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupNames returns registered group names in sorted order.
func (ix *Index) GroupNames() []string {
	names := make([]string, 0, len(ix.Groups))
	for name := range ix.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
