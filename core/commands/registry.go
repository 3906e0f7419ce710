package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered commands keyed by name.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds a command under its own name. Returns an error if the name
// is already taken.
func (r *Registry) Register(cmd Command) error {
	return r.register(cmd.Name(), cmd)
}

// RegisterAlias adds a command under an additional name.
func (r *Registry) RegisterAlias(alias string, cmd Command) error {
	return r.register(alias, cmd)
}

func (r *Registry) register(name string, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cmds[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	r.cmds[name] = cmd
	return nil
}

// Get returns the command registered under name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cmds[name]
}

// Names returns all registered names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
