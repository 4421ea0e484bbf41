package rhtml

// scheduleRender coalesces every data change made during one turn into a
// single render. The pending flag is cleared before rendering so changes
// made by hooks during that render schedule a fresh pass instead of being
// absorbed by the one already running.
func (c *Instance) scheduleRender() {
	if c.renderScheduled || c.state == StateDisconnected {
		return
	}
	c.renderScheduled = true
	c.loop.QueueMicrotask(func() {
		c.renderScheduled = false
		c.Render()
	})
}

// RenderScheduled reports whether a batched render is pending.
func (c *Instance) RenderScheduled() bool { return c.renderScheduled }
