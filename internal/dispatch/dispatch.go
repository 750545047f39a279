// Package dispatch implements the per-message dispatch loop: resolving a
// client-local object id to its registry handle, taking the object out
// for the duration of one request, invoking its handler, and restoring
// (or dropping) it afterward. This is the Go shape of carbon's
// gateway::mod::handle_epoll ClientData branch and
// gateway::interface::DispatchState, built against the table
// internal/protocolxml compiles at startup.
package dispatch

import (
	"log/slog"

	"github.com/wlgateway/gateway/internal/protocol"
	"github.com/wlgateway/gateway/internal/protocolxml"
	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// opcode values for wl_display's two hardwired requests (§4.3).
const (
	displaySyncOpcode        = 0
	displayGetRegistryOpcode = 1
)

// Client bundles the per-connection state a Dispatch call needs: the
// client's own object-id table and the fields a registry.Context carries
// through to request handlers.
type Client struct {
	Objects *registry.ClientObjects
	Reg     *registry.ObjectRegistry
	Table   *protocolxml.DispatchTable
	Log     *slog.Logger
}

// Dispatch resolves and invokes one request. Its signature matches
// wire.Dispatcher so a bound method value can be passed directly to
// MessageStream.Receive.
//
// Per §4.3: a request against an unknown or currently-taken object id is
// absorbed (returns nil) rather than treated as a protocol error — both
// are indistinguishable benign races under the take/restore discipline.
// Everything past that point (bad opcode, a handler's own decode/logic
// error) is fatal and propagated to the caller, which drops the client.
func (c *Client) Dispatch(objectID uint32, opcode uint16, args []uint32, fds *wire.FdQueue, send *wire.WriteBuf) error {
	h, ok := c.Objects.Get(objectID)
	if !ok {
		return nil
	}

	obj, ok := c.Reg.Take(h)
	if !ok {
		return nil
	}

	if obj.Kind() == registry.KindWlDisplay {
		err := c.dispatchDisplay(objectID, opcode, args, send)
		c.Reg.Restore(h, obj)
		return err
	}

	demarshal, spec, ok := c.Table.RequestFor(obj.Kind(), opcode)
	if !ok {
		c.Reg.Restore(h, obj)
		return wire.New(wire.KindInvalidOpcode, "opcode "+itoa(opcode)+" on "+obj.Kind().String())
	}
	if err := c.Table.ValidateRequestArgs(obj.Kind(), spec, args); err != nil {
		c.Reg.Restore(h, obj)
		return err
	}

	ctx := &registry.Context{Fds: fds, Send: send, Objects: c.Objects, Reg: c.Reg, Self: h}
	result, destroyed, err := demarshal(obj, args, ctx)
	if destroyed {
		c.Reg.Drop(h)
		c.Objects.Unregister(objectID)
		if objectID != registry.DisplayObjectID {
			if emitErr := protocol.EmitDisplayDeleteID(send, objectID); emitErr != nil && err == nil {
				err = emitErr
			}
		}
		return err
	}
	c.Reg.Restore(h, result)
	return err
}

func (c *Client) dispatchDisplay(objectID uint32, opcode uint16, args []uint32, send *wire.WriteBuf) error {
	if spec, ok := c.Table.ArgsFor(registry.KindWlDisplay, opcode); ok {
		if err := c.Table.ValidateRequestArgs(registry.KindWlDisplay, spec, args); err != nil {
			return err
		}
	}

	ctx := &registry.Context{Send: send, Objects: c.Objects, Reg: c.Reg, Self: c.Reg.DisplayHandle()}
	switch opcode {
	case displaySyncOpcode:
		_, _, err := protocol.HandleDisplaySync(protocol.WlDisplay{}, args, ctx)
		return err
	case displayGetRegistryOpcode:
		_, _, err := protocol.HandleDisplayGetRegistry(protocol.WlDisplay{}, args, ctx)
		return err
	default:
		return wire.New(wire.KindInvalidOpcode, "unknown wl_display opcode")
	}
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
