package registry

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/rtdyn/dynclamp/entity"
)

// ErrUnknownKind is returned by Build (or Registry.Build) when no
// constructor has been registered under the given kind name.
var ErrUnknownKind = fmt.Errorf("registry: unknown entity kind")

// ErrAlreadyRegistered is returned by Register when kind is already bound
// to a constructor.
var ErrAlreadyRegistered = fmt.Errorf("registry: kind already registered")

// Args is the string-keyed argument dictionary a Constructor receives, the
// Go analogue of the original's string_dict: typically populated from an
// INI config section (§6) before being handed to Build.
type Args map[string]string

// Constructor builds one entity.Entity from its id and Args. Constructors
// validate and parse their own arguments; a malformed Args value is a
// configuration error (§7), reported by returning a non-nil error.
type Constructor func(id uint32, args Args) (entity.Entity, error)

// Registry maps entity kind names to constructors. The zero value is not
// usable; construct with New.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register binds kind to ctor. Registering an already-bound kind returns
// ErrAlreadyRegistered; callers that want to replace a constructor should
// build a fresh Registry instead (matching database/sql's refusal to
// silently overwrite a driver registration).
func (r *Registry) Register(kind string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[kind]; exists {
		return fmt.Errorf("registry: %q: %w", kind, ErrAlreadyRegistered)
	}
	r.ctors[kind] = ctor
	return nil
}

// Build looks up kind's constructor and invokes it with id and args.
func (r *Registry) Build(kind string, id uint32, args Args) (entity.Entity, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: %q: %w", kind, ErrUnknownKind)
	}
	e, err := ctor(id, args)
	if err != nil {
		return nil, fmt.Errorf("registry: build %q: %w", kind, err)
	}
	return e, nil
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Default is the process-wide registry that package-level Register/Build
// calls operate on, mirroring the original's single process-wide
// EntityFactory.
var Default = New()

// Register binds kind to ctor on Default.
func Register(kind string, ctor Constructor) error {
	return Default.Register(kind, ctor)
}

// Build builds kind from Default.
func Build(kind string, id uint32, args Args) (entity.Entity, error) {
	return Default.Build(kind, id, args)
}
