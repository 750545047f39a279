package gateway

import (
	"github.com/wlgateway/gateway/internal/dispatch"
	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// Client owns one connected peer's socket stream and client-local object
// table. Grounded on carbon/src/gateway/client.rs's Client{stream,
// objects}, extended with the dispatcher bound to this client's table.
type Client struct {
	Stream  *wire.MessageStream
	Objects *registry.ClientObjects
	Dispatch *dispatch.Client
}

// clients is the gateway's sparse client list — a nil entry marks a
// freed slot whose index may be reused by a later connection, the Go
// shape of carbon's Vec<Option<Client>>.
type clients struct {
	slots []*Client
}

// ForEach implements registry.Clients, visiting every live client's
// object table and outbound buffer so the registry can broadcast
// wl_registry.global/global_remove.
func (c *clients) ForEach(fn func(objects *registry.ClientObjects, send *wire.WriteBuf)) {
	for _, cl := range c.slots {
		if cl != nil {
			fn(cl.Objects, cl.Stream.SendBuf())
		}
	}
}

func (c *clients) nextID() uint32 {
	for i, cl := range c.slots {
		if cl == nil {
			return uint32(i)
		}
	}
	return uint32(len(c.slots))
}

func (c *clients) insert(id uint32, cl *Client) {
	if int(id) < len(c.slots) {
		c.slots[id] = cl
		return
	}
	grown := make([]*Client, id+1)
	copy(grown, c.slots)
	grown[id] = cl
	c.slots = grown
}

func (c *clients) get(id uint32) (*Client, bool) {
	if int(id) >= len(c.slots) || c.slots[id] == nil {
		return nil, false
	}
	return c.slots[id], true
}

func (c *clients) delete(id uint32) {
	if int(id) < len(c.slots) {
		c.slots[id] = nil
	}
}
