package registry

import "github.com/wlgateway/gateway/internal/wire"

// Clients lets the registry broadcast to every connected client without
// importing the gateway package that owns the client list (which in turn
// imports registry) — the inverse of carbon's gateway::client::Clients,
// which could see registry directly because both were submodules of one
// crate. ForEach must visit every live client exactly once.
type Clients interface {
	ForEach(func(objects *ClientObjects, send *wire.WriteBuf))
}

// EmitGlobal encodes and stages one wl_registry.global event into send,
// addressed to the given client-local registry object id.
type EmitGlobal func(send *wire.WriteBuf, registryID, name uint32, interfaceName string, version uint32) error

// EmitGlobalRemove encodes and stages one wl_registry.global_remove
// event into send.
type EmitGlobalRemove func(send *wire.WriteBuf, registryID, name uint32) error

// MakeGlobal advertises h as a global, broadcasting wl_registry.global to
// every client currently bound to the shared wl_registry object.
// Idempotent: calling it twice for the same handle broadcasts only once.
// If any client's emit fails, h is withdrawn from the advertised list
// again before returning, so a failed advertisement never lingers as a
// global no client actually heard about.
func (r *ObjectRegistry) MakeGlobal(h Handle, interfaceName string, version uint32, clients Clients, emit EmitGlobal) error {
	if !r.addGlobal(h) {
		return nil
	}
	var firstErr error
	clients.ForEach(func(objects *ClientObjects, send *wire.WriteBuf) {
		id, bound := objects.FindID(r.wlRegistry)
		if !bound {
			return
		}
		if err := emit(send, id, h.Name(), interfaceName, version); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	if firstErr != nil {
		r.removeGlobal(h)
	}
	return firstErr
}

// RemoveGlobal withdraws h, broadcasting wl_registry.global_remove before
// removing it from the advertised list. A no-op if h is not currently
// advertised.
func (r *ObjectRegistry) RemoveGlobal(h Handle, clients Clients, emit EmitGlobalRemove) error {
	found := false
	for _, g := range r.globals {
		if g == h {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var firstErr error
	clients.ForEach(func(objects *ClientObjects, send *wire.WriteBuf) {
		id, bound := objects.FindID(r.wlRegistry)
		if !bound {
			return
		}
		if err := emit(send, id, h.Name()); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	r.removeGlobal(h)
	return firstErr
}
