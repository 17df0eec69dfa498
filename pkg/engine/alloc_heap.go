//go:build !fixedslot

// pkg/engine/alloc_heap.go
package engine

// NewContext creates an independent heap-allocated context. Any number of
// concurrent contexts may exist; each may be advanced by its own
// goroutine as long as calls within one context stay serialized.
func NewContext(cfg Config) *Context {
	return &Context{cfg: cfg}
}

// FreeContext releases a context. In heap mode it only severs the
// caller's contract with the context (memory is reclaimed by the
// garbage collector); it is a no-op on nil and safe to call twice.
func FreeContext(ctx *Context) {
	if ctx != nil {
		ctx.nAgents = 0
	}
}
