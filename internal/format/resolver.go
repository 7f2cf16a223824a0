package format

import "sync"

// Resolver holds the two outer format scopes: process-wide defaults and
// per-command-type overrides. Instance and call-site scopes are supplied at
// resolve time.
//
// The package-level Resolver returned by Global is shared by the whole
// process. Configure it once at startup; changing it while other goroutines
// render yields output that depends on timing.
type Resolver struct {
	mu       sync.RWMutex
	defaults Spec
	types    map[string]Spec
}

// NewResolver returns an independent resolver seeded with Defaults.
func NewResolver() *Resolver {
	return &Resolver{
		defaults: Defaults(),
		types:    make(map[string]Spec),
	}
}

var global = NewResolver()

// Global returns the process-wide resolver.
func Global() *Resolver {
	return global
}

// Defaults returns a copy of the process-wide scope.
func (r *Resolver) Defaults() Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults.Clone()
}

// SetDefaults updates the process-wide scope with spec and returns the
// previous scope so callers can restore it with ResetDefaults.
func (r *Resolver) SetDefaults(spec Spec) Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.defaults.Clone()
	r.defaults.Update(spec)
	return old
}

// ResetDefaults replaces the process-wide scope wholesale.
func (r *Resolver) ResetDefaults(spec Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = spec.Clone()
}

// SetTypeSpec updates the scope of one command type and returns the
// previous scope for that type.
func (r *Resolver) SetTypeSpec(typeKey string, spec Spec) Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.types[typeKey].Clone()
	merged := old.Clone()
	merged.Update(spec)
	r.types[typeKey] = merged
	return old
}

// ClearTypeSpec drops every override registered for a command type.
func (r *Resolver) ClearTypeSpec(typeKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, typeKey)
}

// Resolve merges the scopes for one render call. Precedence, highest
// first: call, instance, type, process-wide.
func (r *Resolver) Resolve(typeKey string, instance, call Spec) Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Merge(r.defaults, r.types[typeKey], instance, call)
}
