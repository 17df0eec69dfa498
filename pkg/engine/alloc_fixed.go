//go:build fixedslot

// pkg/engine/alloc_fixed.go
//
// Fixed-slot allocation for targets without a general allocator: a single
// static context guarded by an in-use flag. The create/destroy contract
// is identical to heap mode so callers cannot observe which strategy is
// active, except that a second concurrent NewContext fails.
package engine

var staticCtx Context

// NewContext claims the single static context slot, or returns nil if it
// is already in use. Callers must serialize NewContext/FreeContext pairs;
// the slot is not reentrant.
func NewContext(cfg Config) *Context {
	if staticCtx.inUse {
		return nil
	}
	staticCtx.inUse = true
	staticCtx.cfg = cfg
	staticCtx.nAgents = 0
	return &staticCtx
}

// FreeContext releases the static slot, making it reusable. No-op on nil
// and safe to call twice; no memory is actually freed.
func FreeContext(ctx *Context) {
	if ctx != nil {
		ctx.inUse = false
		ctx.nAgents = 0
	}
}
