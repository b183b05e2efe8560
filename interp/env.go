package interp

// ---------------------------------------------------------------------------
// Environments
// ---------------------------------------------------------------------------

// Env is a lexical scope: a binding table with a pointer to the enclosing
// scope. The chain is never copied; closures share their defining scopes.
type Env struct {
	vars  map[string]Value
	outer *Env
}

// NewEnv creates a scope enclosed by outer. Pass nil for the global scope.
func NewEnv(outer *Env) *Env {
	return &Env{vars: make(map[string]Value), outer: outer}
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Get resolves a name, walking outward through enclosing scopes.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.outer {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rebinds an existing name in the nearest scope that defines it.
func (e *Env) Assign(name string, v Value) bool {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return true
		}
	}
	return false
}

// Remove deletes the nearest binding of name. It reports whether a binding
// was found.
func (e *Env) Remove(name string) bool {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.vars[name]; ok {
			delete(s.vars, name)
			return true
		}
	}
	return false
}
