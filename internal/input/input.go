// Package input integrates input backends (evdev, libinput, or a test
// double) with the object registry by creating and destroying wl_seat
// globals as capabilities appear and disappear. Grounded on
// carbon/src/input.rs's InputState/Seat/InputSink, adapted to drop the
// Rust slotmap::SlotMap<SeatId, Seat> in favor of reusing the
// registry's own generational Handle as the seat identity — a wl_seat
// global is already slot-protected by internal/registry, so a second
// generational table over the same data would just be bookkeeping for
// bookkeeping's sake.
package input

import (
	"github.com/wlgateway/gateway/internal/protocol"
	"github.com/wlgateway/gateway/internal/registry"
)

// Backend is implemented by whatever drives real input events into the
// gateway: an evdev/libinput reader, or a test fake. InputFD is
// registered with the gateway's epoll instance under the NewInput token
// kind (§4.5); when it becomes readable the gateway calls DrainInput.
type Backend interface {
	InputFD() int
	DrainInput(sink *Sink) error
}

// Sink is the capability a Backend is given to turn raw input readiness
// into registry changes: creating or destroying wl_seat globals. It does
// not stage pointer/keyboard/touch events. It is the Go analogue of
// carbon's InputSink.
type Sink struct {
	Reg     *registry.ObjectRegistry
	Clients registry.Clients
}

// CreateSeat inserts a new wl_seat with the given capability bitmask
// (wl_seat.capability from wayland.xml) and advertises it as a global to
// every connected client, returning its handle for a later DestroySeat.
func (s *Sink) CreateSeat(capabilities uint32) (registry.Handle, error) {
	h := s.Reg.Insert(&protocol.WlSeat{Capabilities: capabilities})
	if err := s.Reg.MakeGlobal(h, "wl_seat", protocol.VersionFor(registry.KindWlSeat), s.Clients, protocol.EmitRegistryGlobal); err != nil {
		s.Reg.Remove(h)
		return registry.Handle{}, err
	}
	return h, nil
}

// DestroySeat withdraws the wl_seat global and removes it from the
// registry. A no-op if h does not name a live seat.
func (s *Sink) DestroySeat(h registry.Handle) error {
	if err := s.Reg.RemoveGlobal(h, s.Clients, protocol.EmitRegistryGlobalRemove); err != nil {
		return err
	}
	s.Reg.Remove(h)
	return nil
}
