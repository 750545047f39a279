// Package registry implements the global object store (§4.2) and the
// per-client object-id table (§3) of the gateway. It is the sole owner of
// every live protocol object; the dispatcher borrows one at a time via
// Take/Restore to let a handler mutate the registry without aliasing the
// object it is currently handling.
package registry

import "fmt"

// Handle is an opaque, generational reference into the registry's object
// store. It is never sent on the wire (the wire only ever carries
// client-local ObjectIds); a Handle is how the gateway itself names an
// object regardless of which, if any, client currently has a local id
// bound to it. The generation field prevents a Handle surviving the
// removal and reuse of its slot from silently addressing an unrelated,
// later object (ABA).
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle, which never names a live
// object.
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.index, h.generation)
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTaken
)

type slot struct {
	generation uint32
	state      slotState
	object     Object
}
