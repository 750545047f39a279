// Package gateway owns the listening socket, the epoll readiness loop
// multiplexing it against every connected client and every input
// backend, and the client lifecycle (accept, read, write, drop).
// Grounded on carbon/src/gateway/mod.rs's Gateway (socket-lock probing,
// epoll_create1/epoll_ctl/epoll_wait, the packed EpollToken) translated
// from nix to golang.org/x/sys/unix.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/wlgateway/gateway/internal/dispatch"
	"github.com/wlgateway/gateway/internal/input"
	"github.com/wlgateway/gateway/internal/protocol"
	"github.com/wlgateway/gateway/internal/protocolxml"
	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// tokenKind tags what kind of fd an epoll event was raised for, packed
// into the low 32 bits of the event's u64 data field alongside an id in
// the high 32 bits — the Go shape of carbon's EpollTokenKind/EpollToken.
type tokenKind uint32

const (
	tokenNewConnection tokenKind = iota
	tokenClientData
	tokenNewInput
)

// maxEpollEvents bounds one epoll_wait call's event batch, matching the
// Rust original's fixed [EpollEvent; 256] stack array.
const maxEpollEvents = 256

// Gateway is one running compositor-facing Wayland server: a bound,
// listening Unix socket, its epoll instance, the shared object registry,
// the compiled request dispatch table, and every connected client.
type Gateway struct {
	lockFile   *os.File
	socketPath string
	listenerFD int
	epollFD    int

	reg     *registry.ObjectRegistry
	table   *protocolxml.DispatchTable
	clients clients
	inputs  map[int]input.Backend

	log *slog.Logger
}

// Options configures New.
type Options struct {
	// RuntimeDir overrides $XDG_RUNTIME_DIR for socket placement; empty
	// uses the environment variable.
	RuntimeDir string
	Table      *protocolxml.DispatchTable
	Log        *slog.Logger
}

// New probes for a free wayland-N socket name under RuntimeDir (or
// $XDG_RUNTIME_DIR), binds and listens on it, and constructs the object
// registry with its two fixed singleton objects. Mirrors
// carbon::gateway::Gateway::new's lock-file probing loop over wayland-0
// through wayland-31.
func New(opts Options) (*Gateway, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	dir := opts.RuntimeDir
	if dir == "" {
		dir = os.Getenv("XDG_RUNTIME_DIR")
	}
	if dir == "" || !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("gateway: XDG_RUNTIME_DIR not set or not absolute")
	}

	for n := 0; n < 32; n++ {
		lockPath := filepath.Join(dir, fmt.Sprintf("wayland-%d.lock", n))
		sockPath := filepath.Join(dir, fmt.Sprintf("wayland-%d", n))

		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o660)
		if err != nil {
			log.Warn("failed to open socket lock file", "path", lockPath, "err", err)
			continue
		}
		if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			log.Warn("failed to acquire socket lock", "path", lockPath, "err", err)
			lockFile.Close()
			continue
		}
		if err := os.Remove(sockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove stale socket", "path", sockPath, "err", err)
			lockFile.Close()
			continue
		}

		listenerFD, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
		if err != nil {
			lockFile.Close()
			return nil, fmt.Errorf("gateway: create socket: %w", err)
		}
		addr := &unix.SockaddrUnix{Name: sockPath}
		if err := unix.Bind(listenerFD, addr); err != nil {
			unix.Close(listenerFD)
			lockFile.Close()
			return nil, fmt.Errorf("gateway: bind %s: %w", sockPath, err)
		}
		if err := unix.Listen(listenerFD, 256); err != nil {
			unix.Close(listenerFD)
			lockFile.Close()
			return nil, fmt.Errorf("gateway: listen on %s: %w", sockPath, err)
		}
		log.Info("listening", "path", sockPath)

		epollFD, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
		if err != nil {
			unix.Close(listenerFD)
			lockFile.Close()
			return nil, fmt.Errorf("gateway: epoll_create1: %w", err)
		}
		if err := epollAdd(epollFD, listenerFD, unix.EPOLLIN|unix.EPOLLET, packToken(tokenNewConnection, 0)); err != nil {
			unix.Close(epollFD)
			unix.Close(listenerFD)
			lockFile.Close()
			return nil, fmt.Errorf("gateway: add listener to epoll: %w", err)
		}

		reg := registry.New(protocol.WlDisplay{}, protocol.WlRegistry{})
		return &Gateway{
			lockFile:   lockFile,
			socketPath: sockPath,
			listenerFD: listenerFD,
			epollFD:    epollFD,
			reg:        reg,
			table:      opts.Table,
			inputs:     make(map[int]input.Backend),
			log:        log,
		}, nil
	}

	return nil, fmt.Errorf("gateway: no free wayland-N socket name found under %s", dir)
}

// Registry exposes the object registry so cmd/gateway can insert and
// advertise startup globals (wl_compositor, wl_shm, xdg_wm_base, ...)
// before calling Run.
func (g *Gateway) Registry() *registry.ObjectRegistry { return g.reg }

// InputSink builds a Sink bound to this gateway's registry and client
// list, for an input.Backend to use from AddInputBackend or its own
// setup.
func (g *Gateway) InputSink() *input.Sink {
	return &input.Sink{Reg: g.reg, Clients: &g.clients}
}

// AddInputBackend registers a backend's fd with epoll under the
// NewInput token kind (§4.5); when it becomes readable Run calls
// DrainInput.
func (g *Gateway) AddInputBackend(b input.Backend) error {
	fd := b.InputFD()
	if err := epollAdd(g.epollFD, fd, unix.EPOLLIN|unix.EPOLLET, packToken(tokenNewInput, uint32(fd))); err != nil {
		return fmt.Errorf("gateway: add input backend to epoll: %w", err)
	}
	g.inputs[fd] = b
	return nil
}

// Close closes the epoll instance, the listening socket and the lock
// file, returning the error from closing the listening socket.
func (g *Gateway) Close() error {
	unix.Close(g.epollFD)
	err := unix.Close(g.listenerFD)
	g.lockFile.Close()
	return err
}

// Run drives the epoll readiness loop until ctx is cancelled or an
// unrecoverable epoll_wait error occurs. Mirrors
// carbon::gateway::Gateway::run/handle_epoll, generalized with a third
// token kind for input-backend readiness.
func (g *Gateway) Run(ctx context.Context) error {
	var events [maxEpollEvents]unix.EpollEvent
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := unix.EpollWait(g.epollFD, events[:], -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("gateway: epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			kind, id := unpackToken(events[i])
			g.handleEvent(kind, id, events[i].Events)
		}
	}
}

func (g *Gateway) handleEvent(kind tokenKind, id uint32, mask uint32) {
	switch kind {
	case tokenNewConnection:
		g.acceptConnection()
	case tokenClientData:
		g.serviceClient(id, mask)
	case tokenNewInput:
		g.serviceInput(int(id))
	}
}

func (g *Gateway) acceptConnection() {
	fd, err := unix.Accept4(g.listenerFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if !errors.Is(err, unix.EAGAIN) {
			g.log.Error("accept4 failed", "err", err)
		}
		return
	}
	id := g.clients.nextID()
	if err := epollAdd(g.epollFD, fd, unix.EPOLLIN|unix.EPOLLOUT|unix.EPOLLET, packToken(tokenClientData, id)); err != nil {
		g.log.Error("failed to register client with epoll", "err", err)
		unix.Close(fd)
		return
	}

	objects := registry.NewClientObjects(g.reg.DisplayHandle())
	cl := &Client{
		Stream:  wire.NewMessageStream(fd),
		Objects: objects,
		Dispatch: &dispatch.Client{
			Objects: objects,
			Reg:     g.reg,
			Table:   g.table,
			Log:     g.log,
		},
	}
	g.clients.insert(id, cl)
	g.log.Debug("accepted client", "id", id)
}

func (g *Gateway) serviceClient(id uint32, mask uint32) {
	cl, ok := g.clients.get(id)
	if !ok {
		g.log.Warn("ready event for unknown client", "id", id)
		return
	}

	if mask&unix.EPOLLIN != 0 {
		count, err := cl.Stream.Receive(cl.Dispatch.Dispatch)
		switch {
		case err == nil && count == 0:
			g.log.Debug("client disconnected", "id", id)
			g.dropClient(id)
			return
		case err == nil:
			g.log.Debug("processed requests", "id", id, "count", count)
		case errors.Is(err, wire.ErrWouldBlock):
		default:
			g.log.Error("error receiving from client", "id", id, "err", err)
			g.dropClient(id)
			return
		}
	}
	if mask&unix.EPOLLOUT != 0 {
		_, err := cl.Stream.Flush()
		if err != nil && !errors.Is(err, wire.ErrWouldBlock) {
			g.log.Error("error flushing to client", "id", id, "err", err)
			g.dropClient(id)
		}
	}
}

func (g *Gateway) serviceInput(fd int) {
	backend, ok := g.inputs[fd]
	if !ok {
		return
	}
	sink := g.InputSink()
	if err := backend.DrainInput(sink); err != nil {
		g.log.Error("error draining input backend", "fd", fd, "err", err)
	}
}

// dropClient tears down everything a disconnecting client owns: its
// transport, and every handle it registered in the shared ObjectRegistry.
// Shared singletons (wl_display, wl_registry, and the bound globals every
// client shares) are skipped — they outlive any one connection. Per §3 and
// §4.4, every other client-owned object is removed so it cannot leak, and a
// wl_shm_pool's backing fd is closed the same way HandleShmPoolDestroy
// closes one on an explicit destroy request.
func (g *Gateway) dropClient(id uint32) {
	cl, ok := g.clients.get(id)
	if !ok {
		return
	}

	display := g.reg.DisplayHandle()
	wlRegistry := g.reg.RegistryHandle()
	globals := g.reg.Globals()
	cl.Objects.All(func(_ uint32, h registry.Handle) bool {
		if h == display || h == wlRegistry || isGlobalHandle(h, globals) {
			return true
		}
		obj, ok := g.reg.Remove(h)
		if !ok {
			return true
		}
		if pool, ok := obj.(*protocol.WlShmPool); ok {
			unix.Close(pool.Fd)
		}
		return true
	})

	cl.Stream.Close()
	g.clients.delete(id)
}

func isGlobalHandle(h registry.Handle, globals []registry.Handle) bool {
	for _, g := range globals {
		if g == h {
			return true
		}
	}
	return false
}

func epollAdd(epollFD, fd int, events uint32, token uint64) error {
	ev := unix.EpollEvent{Events: events}
	ev.Fd = int32(uint32(token))
	ev.Pad = int32(uint32(token >> 32))
	return unix.EpollCtl(epollFD, unix.EPOLL_CTL_ADD, fd, &ev)
}

func packToken(kind tokenKind, id uint32) uint64 {
	return uint64(kind) | uint64(id)<<32
}

func unpackToken(ev unix.EpollEvent) (tokenKind, uint32) {
	raw := uint64(uint32(ev.Fd)) | uint64(uint32(ev.Pad))<<32
	return tokenKind(uint32(raw)), uint32(raw >> 32)
}
