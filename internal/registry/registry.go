package registry

// ObjectRegistry is the gateway's single, process-wide store of live
// protocol objects. It is never shared across goroutines (the gateway is
// single-threaded per §5) and owns: the display and registry singleton
// handles, the ordered list of currently-advertised globals, and the
// generational slot table mapping a Handle to its Object.
type ObjectRegistry struct {
	slots         []slot
	freeList      []uint32
	displayHandle Handle
	wlRegistry    Handle
	globals       []Handle
}

// New constructs the registry and inserts the two objects every gateway
// needs before any client connects: the singleton wl_display (id 1 on
// every client) and the singleton wl_registry (bound by every client
// that calls wl_display.get_registry; the object itself carries no
// per-client state, so one shared instance serves all clients — the
// per-client distinction is only which local ObjectId a client has
// pointed at it, tracked in that client's ClientObjects).
func New(display, wlRegistry Object) *ObjectRegistry {
	r := &ObjectRegistry{}
	r.displayHandle = r.Insert(display)
	r.wlRegistry = r.Insert(wlRegistry)
	return r
}

// DisplayHandle returns the registry's wl_display handle, fixed since
// construction.
func (r *ObjectRegistry) DisplayHandle() Handle { return r.displayHandle }

// RegistryHandle returns the shared wl_registry handle, fixed since
// construction.
func (r *ObjectRegistry) RegistryHandle() Handle { return r.wlRegistry }

// Insert assigns a fresh generational Handle to obj and stores it.
func (r *ObjectRegistry) Insert(obj Object) Handle {
	if n := len(r.freeList); n > 0 {
		idx := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		s := &r.slots[idx]
		s.state = slotOccupied
		s.object = obj
		return Handle{index: idx, generation: s.generation}
	}

	// Fresh slots start at generation 1, so the zero Handle never names a
	// live object.
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{generation: 1, state: slotOccupied, object: obj})
	return Handle{index: idx, generation: 1}
}

// Take removes the object from its slot, leaving the slot live but
// empty, and returns it. A subsequent Take of the same handle returns
// (nil, false) until Restore is called. This is the re-entrancy
// primitive described in §4.3: while a handler holds the object taken
// out, it may freely mutate the rest of the registry (insert new
// objects, walk globals) without ever observing two live references to
// the object it is currently handling. A lookup of the in-flight handle
// during this window is treated as "missing", the same outcome as a
// request against an already-destroyed object — both are benign races,
// never aliasing.
func (r *ObjectRegistry) Take(h Handle) (Object, bool) {
	s := r.slotFor(h)
	if s == nil || s.state != slotOccupied {
		return nil, false
	}
	obj := s.object
	s.object = nil
	s.state = slotTaken
	return obj, true
}

// Restore returns obj to the slot named by h. It panics if the slot does
// not exist (wrong generation or never inserted) — per §4.2, restoring a
// handle without a matching live slot indicates a dispatcher bug, not an
// external-input error.
func (r *ObjectRegistry) Restore(h Handle, obj Object) {
	s := r.slotFor(h)
	if s == nil {
		panic("registry: restore of non-existent handle " + h.String())
	}
	s.object = obj
	s.state = slotOccupied
}

// Remove deletes the slot named by h, returning the object that was
// there. It panics if the object is currently taken (a dispatcher
// invariant violation) and returns (nil, false) if the handle does not
// name a live object (idempotent on an already-removed handle).
func (r *ObjectRegistry) Remove(h Handle) (Object, bool) {
	s := r.slotFor(h)
	if s == nil || s.state == slotEmpty {
		return nil, false
	}
	if s.state == slotTaken {
		panic("registry: remove of handle " + h.String() + " while taken")
	}
	obj := s.object
	s.object = nil
	s.state = slotEmpty
	s.generation++
	r.freeList = append(r.freeList, h.index)
	return obj, true
}

// Drop deletes the slot named by h regardless of its current state
// (occupied or taken), bumping its generation. Only the dispatcher calls
// this, to finish a request whose handler reported the object destroyed
// while that same handler's object was mid-dispatch (and so could not
// legally call Remove itself, since Remove rejects a taken slot).
func (r *ObjectRegistry) Drop(h Handle) {
	s := r.slotFor(h)
	if s == nil {
		panic("registry: drop of non-existent handle " + h.String())
	}
	s.object = nil
	s.state = slotEmpty
	s.generation++
	r.freeList = append(r.freeList, h.index)
}

// Get returns the object named by h without removing it, or (nil, false)
// if absent or currently taken.
func (r *ObjectRegistry) Get(h Handle) (Object, bool) {
	s := r.slotFor(h)
	if s == nil || s.state != slotOccupied {
		return nil, false
	}
	return s.object, true
}

// Name returns the stable wire "name" to use for a global's handle: the
// handle's slot index. Per spec.md §9 Open Question (b), this must be
// used instead of the interface's tag/discriminant so that multiple
// globals of the same interface (e.g. several wl_output) can coexist
// without colliding names.
func (h Handle) Name() uint32 { return h.index }

// Globals iterates the currently-advertised globals in the order they
// were added.
func (r *ObjectRegistry) Globals() []Handle {
	return r.globals
}

// addGlobal appends h to the advertised-globals list if it is not
// already present, returning whether it was newly added. Idempotent:
// adding the same handle twice has the same externally-visible effect as
// adding it once.
func (r *ObjectRegistry) addGlobal(h Handle) bool {
	for _, g := range r.globals {
		if g == h {
			return false
		}
	}
	r.globals = append(r.globals, h)
	return true
}

// removeGlobal removes h from the advertised-globals list via
// swap-remove, returning whether it had been present. A no-op
// (idempotent) if h is not currently advertised.
func (r *ObjectRegistry) removeGlobal(h Handle) bool {
	for i, g := range r.globals {
		if g == h {
			last := len(r.globals) - 1
			r.globals[i] = r.globals[last]
			r.globals = r.globals[:last]
			return true
		}
	}
	return false
}

func (r *ObjectRegistry) slotFor(h Handle) *slot {
	if int(h.index) >= len(r.slots) {
		return nil
	}
	s := &r.slots[h.index]
	if s.generation != h.generation {
		return nil
	}
	return s
}
