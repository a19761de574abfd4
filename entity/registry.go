package entity

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry holds the capability descriptors the host application declares
// at startup. The engine looks descriptors up by entity-type name; nothing
// is discovered by reflection at call time.
type Registry struct {
	descriptors *xsync.MapOf[string, Descriptor]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: xsync.NewMapOf[string, Descriptor]()}
}

// Register validates and stores a descriptor, replacing any previous
// registration under the same name.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("register entity %q: %w", d.Name, err)
	}
	r.descriptors.Store(d.Name, d)
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	return r.descriptors.Load(name)
}

// Names returns the registered entity-type names.
func (r *Registry) Names() []string {
	var names []string
	r.descriptors.Range(func(name string, _ Descriptor) bool {
		names = append(names, name)
		return true
	})
	return names
}
