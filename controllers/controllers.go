// Package controllers implements the controller/strategy plugin interface
// (§6): dynamic dispatch by scenario-supplied string keys, backed by a
// registry rather than runtime reflection, mirroring ATCFactory/IATCStrategy
// in the original source at the interface level.
package controllers

import "time"

// Strategy is one named piece of agent behavior. Execute returns false (not
// an error) when it declines or fails to act. The agents in this module
// ignore the result: no PluginError is raised or logged for a false return.
type Strategy interface {
	Execute(name string, params map[string]string, t time.Duration) bool
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(name string, params map[string]string, t time.Duration) bool

func (f StrategyFunc) Execute(name string, params map[string]string, t time.Duration) bool {
	return f(name, params, t)
}

// Registry maps controller name to the Strategy that implements it.
// Unknown names go to the fallback strategy, or return false from Execute
// when there is none, rather than panicking.
type Registry struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewRegistry returns an empty registry with the given fallback strategy,
// used when a requested controller name is not registered. Pass nil for no
// fallback (Execute then simply returns false on unknown names).
func NewRegistry(fallback Strategy) *Registry {
	return &Registry{strategies: make(map[string]Strategy), fallback: fallback}
}

// Register associates name with strategy, overwriting any prior binding.
func (r *Registry) Register(name string, strategy Strategy) {
	r.strategies[name] = strategy
}

// Execute runs the named controller. Unknown names fall back to the
// registry's default strategy (if any) before finally returning false.
func (r *Registry) Execute(name string, params map[string]string, t time.Duration) bool {
	if s, ok := r.strategies[name]; ok {
		return s.Execute(name, params, t)
	}
	if r.fallback != nil {
		return r.fallback.Execute(name, params, t)
	}
	return false
}

// Standard is the built-in fallback strategy: it always "succeeds" in the
// minimal sense of acknowledging the request, without taking any domain
// action, matching ATC_001's "standard base" default behavior.
var Standard Strategy = StrategyFunc(func(name string, params map[string]string, t time.Duration) bool {
	return true
})
