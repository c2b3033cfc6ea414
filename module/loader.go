package module

import (
	"fmt"
	"sync"

	"github.com/skillsenselab/wirekit/logger"
	"github.com/skillsenselab/wirekit/registry"
)

// Loader applies modules to one registry in caller-specified order. It
// performs no dependency-graph ordering: registration is cheap and
// order-independent, only resolution is order-sensitive, and resolution
// typically happens after all loading completes.
type Loader struct {
	reg    *registry.Registry
	log    *logger.Logger
	mu     sync.Mutex
	loaded []string
	byName map[string]bool
}

// NewLoader creates a loader bound to reg.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{
		reg:    reg,
		log:    logger.WithComponent("module-loader"),
		byName: make(map[string]bool),
	}
}

// Load applies one module's registrations exactly once. Loading a second
// module with an already-loaded name is an error.
func (l *Loader) Load(m Module) error {
	name := m.Name()

	l.mu.Lock()
	if l.byName[name] {
		l.mu.Unlock()
		return fmt.Errorf("module %q already loaded", name)
	}
	l.byName[name] = true
	l.loaded = append(l.loaded, name)
	l.mu.Unlock()

	deps := m.DependsOn()
	fields := map[string]interface{}{"module": name}
	if len(deps) > 0 {
		names := make([]string, len(deps))
		for i, d := range deps {
			names[i] = string(d)
		}
		fields["depends_on"] = names
	}
	l.log.Debug("loading module", fields)

	if err := m.Register(l.reg); err != nil {
		return fmt.Errorf("loading module %q: %w", name, err)
	}
	return nil
}

// LoadAll applies each module in list order, stopping at the first failure.
// Callers are responsible for listing modules such that later modules may
// assume earlier modules' registrations exist.
func (l *Loader) LoadAll(modules ...Module) error {
	for _, m := range modules {
		if err := l.Load(m); err != nil {
			return err
		}
	}
	l.log.Info("modules loaded", map[string]interface{}{
		"count": len(modules),
	})
	return nil
}

// Loaded returns the names of applied modules in load order.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.loaded))
	copy(out, l.loaded)
	return out
}

// Registry returns the registry this loader applies modules to.
func (l *Loader) Registry() *registry.Registry { return l.reg }
