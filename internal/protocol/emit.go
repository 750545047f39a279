package protocol

import "github.com/wlgateway/gateway/internal/wire"

// header packs a frame's total byte size and opcode into the second wire
// word, per §4.1's `(msg_size << 16) | opcode`.
func header(size int, opcode uint16) uint32 {
	return uint32(size)<<16 | uint32(opcode)
}

// EmitCallbackDone stages wl_callback.done(serial) addressed to
// callbackID. Opcode 0, no further arguments after the serial.
func EmitCallbackDone(send *wire.WriteBuf, callbackID uint32, serial uint32) error {
	buf, err := send.Allocate(3)
	if err != nil {
		return err
	}
	buf[0] = callbackID
	buf[1] = header(12, 0)
	buf[2] = serial
	return nil
}

// EmitDisplayDeleteID stages wl_display.delete_id(id), opcode 1 on the
// display object (always id 1).
func EmitDisplayDeleteID(send *wire.WriteBuf, deletedID uint32) error {
	buf, err := send.Allocate(3)
	if err != nil {
		return err
	}
	buf[0] = registryDisplayWireID
	buf[1] = header(12, 1)
	buf[2] = deletedID
	return nil
}

// registryDisplayWireID is the wire-visible client-local id of the
// display object; it is always 1 by protocol convention (§3).
const registryDisplayWireID = 1

// EmitDisplayError stages wl_display.error(object, code, message),
// opcode 0 on the display object. Optional per §7's "user-visible
// failure behavior" — a caller may send this immediately before
// dropping a misbehaving client.
func EmitDisplayError(send *wire.WriteBuf, objectID, code uint32, message string) error {
	words := 4 + wire.WordsForString(message)
	buf, err := send.Allocate(words)
	if err != nil {
		return err
	}
	buf[0] = registryDisplayWireID
	buf[1] = header(words*4, 0)
	buf[2] = objectID
	buf[3] = code
	wire.EncodeString(buf, 4, message)
	return nil
}

// EmitRegistryGlobal stages wl_registry.global(name, interface, version),
// opcode 0, addressed to registryID.
func EmitRegistryGlobal(send *wire.WriteBuf, registryID, name uint32, interfaceName string, version uint32) error {
	words := 4 + wire.WordsForString(interfaceName)
	buf, err := send.Allocate(words)
	if err != nil {
		return err
	}
	buf[0] = registryID
	buf[1] = header(words*4, 0)
	buf[2] = name
	next := wire.EncodeString(buf, 3, interfaceName)
	buf[next] = version
	return nil
}

// EmitRegistryGlobalRemove stages wl_registry.global_remove(name),
// opcode 1, addressed to registryID.
func EmitRegistryGlobalRemove(send *wire.WriteBuf, registryID, name uint32) error {
	buf, err := send.Allocate(3)
	if err != nil {
		return err
	}
	buf[0] = registryID
	buf[1] = header(12, 1)
	buf[2] = name
	return nil
}

// EmitXdgSurfaceConfigure stages xdg_surface.configure(serial), opcode 0.
func EmitXdgSurfaceConfigure(send *wire.WriteBuf, xdgSurfaceID, serial uint32) error {
	buf, err := send.Allocate(3)
	if err != nil {
		return err
	}
	buf[0] = xdgSurfaceID
	buf[1] = header(12, 0)
	buf[2] = serial
	return nil
}

// EmitXdgToplevelConfigure stages xdg_toplevel.configure(width, height,
// states), opcode 0. states is an opaque array of int32 state enum
// values; an empty configure (the minimal legal reply) passes nil.
func EmitXdgToplevelConfigure(send *wire.WriteBuf, toplevelID uint32, width, height int32, states []byte) error {
	words := 4 + wire.WordsForArray(states)
	buf, err := send.Allocate(words)
	if err != nil {
		return err
	}
	buf[0] = toplevelID
	buf[1] = header(words*4, 0)
	buf[2] = uint32(width)
	buf[3] = uint32(height)
	wire.EncodeArray(buf, 4, states)
	return nil
}

