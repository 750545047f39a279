package registry

// DisplayObjectID is the client-local id every client pre-binds its
// wl_display to, before any request is received.
const DisplayObjectID uint32 = 1

// ClientObjects is one client's ordered ObjectId → Handle table. Slot 0
// is permanently empty (id 0 is the null object id); slot 1 is always
// the display. It is a dense vector rather than a map because client ids
// are assigned densely and rarely sparse (§9 design notes).
type ClientObjects struct {
	slots []*Handle
}

// NewClientObjects builds a table with the display pre-bound at id 1.
func NewClientObjects(display Handle) *ClientObjects {
	c := &ClientObjects{slots: make([]*Handle, 2)}
	c.slots[DisplayObjectID] = &display
	return c
}

// Get returns the handle bound to id, or (zero, false) if id is unbound.
func (c *ClientObjects) Get(id uint32) (Handle, bool) {
	if int(id) >= len(c.slots) || c.slots[id] == nil {
		return Handle{}, false
	}
	return *c.slots[id], true
}

// Register binds id to h. Per §3, this only succeeds into the first
// empty slot at-or-past id (i.e. either appending past the current
// length, or reusing an existing empty slot exactly matching id);
// attempting to reuse a slot that is still live fails with false so the
// caller can report InvalidObject.
func (c *ClientObjects) Register(id uint32, h Handle) bool {
	if int(id) < len(c.slots) {
		if c.slots[id] != nil {
			return false
		}
		c.slots[id] = &h
		return true
	}
	if int(id) > len(c.slots) {
		// Growing straight to id leaves the skipped ids as empty slots;
		// they read as unbound and a later Register may fill them.
		grown := make([]*Handle, id+1)
		copy(grown, c.slots)
		c.slots = grown
	} else {
		c.slots = append(c.slots, nil)
	}
	c.slots[id] = &h
	return true
}

// Unregister clears id's slot, if any.
func (c *ClientObjects) Unregister(id uint32) {
	if int(id) < len(c.slots) {
		c.slots[id] = nil
	}
}

// All iterates every live (id, handle) pair in ascending id order.
func (c *ClientObjects) All(yield func(id uint32, h Handle) bool) {
	for id, h := range c.slots {
		if h != nil {
			if !yield(uint32(id), *h) {
				return
			}
		}
	}
}

// FindID returns the client-local id currently bound to h, if any. Used
// to find which local id, if any, a client has bound its wl_registry
// to when broadcasting global/global_remove.
func (c *ClientObjects) FindID(h Handle) (uint32, bool) {
	for id, bound := range c.slots {
		if bound != nil && *bound == h {
			return uint32(id), true
		}
	}
	return 0, false
}
