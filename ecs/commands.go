package ecs

// Commands buffers structural changes made while systems run. They are
// applied in one batch when the frame ends so queries never see a storage
// that changes under them.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Defer queues fn to run after all spawns and deletes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies deletes, then spawns, then deferred functions, and resets
// the buffer.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}
	for _, components := range c.spawns {
		storage.Spawn(components...)
	}
	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
}
