package sim

// PrepareDayHook is called at the beginning of each day, before the agent
// moves. It can reset per-day values or change the day window.
type PrepareDayHook interface {
	PrepareDay(c *Context)
}

// DefineStateHook is called each time the agent starts moving on a leg:
// when it enters a new leg and at the beginning of each day. It can spend
// time, end the day or force an overnight stay.
type DefineStateHook interface {
	DefineState(c *Context)
}

// PrepareDayFunc adapts a function to PrepareDayHook.
type PrepareDayFunc func(c *Context)

// PrepareDay implements PrepareDayHook.
func (f PrepareDayFunc) PrepareDay(c *Context) { f(c) }

// DefineStateFunc adapts a function to DefineStateHook.
type DefineStateFunc func(c *Context)

// DefineState implements DefineStateHook.
func (f DefineStateFunc) DefineState(c *Context) { f(c) }
