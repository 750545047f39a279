package registry

import "github.com/wlgateway/gateway/internal/wire"

// Context is passed to every request demarshaller and handed down to the
// user-written handler stub. It bundles exactly what a handler needs to
// both reply on the wire and mutate the registry: the current request's
// fd queue, the client's outbound buffer, the whole object registry, and
// this client's own id table. It is the Go analogue of carbon's
// gateway::interface::DispatchState.
type Context struct {
	Fds     *wire.FdQueue
	Send    *wire.WriteBuf
	Objects *ClientObjects
	Reg     *ObjectRegistry
	// Self is the handle of the object currently being dispatched, set by
	// the dispatcher before invoking the request's Demarshaller. Handlers
	// that create a child object needing a back-reference to its parent
	// (e.g. xdg_surface.get_toplevel) use this instead of re-deriving
	// their own handle.
	Self Handle
}

// Demarshaller is the type of every generated (or, here, hand-written)
// per-request handler: it decodes a request's raw argument words,
// performs the handler body, and returns the object's new state to be
// restored into its slot. destroyed signals that the object was
// destroyed by this request (e.g. a "destroy" request) — the dispatcher
// drops the slot instead of restoring obj, and obj's returned value is
// ignored.
type Demarshaller func(obj Object, args []uint32, ctx *Context) (result Object, destroyed bool, err error)

