package protocol

import (
	"errors"
	"testing"

	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

func newTestContext() (*registry.ObjectRegistry, *registry.ClientObjects, *registry.Context, *wire.WriteBuf) {
	reg := registry.New(WlDisplay{}, WlRegistry{})
	objects := registry.NewClientObjects(reg.DisplayHandle())
	send := &wire.WriteBuf{}
	ctx := &registry.Context{
		Fds:     &wire.FdQueue{},
		Send:    send,
		Objects: objects,
		Reg:     reg,
	}
	return reg, objects, ctx, send
}

func TestHandleCompositorCreateSurfaceBindsNewID(t *testing.T) {
	reg, objects, ctx, _ := newTestContext()

	compositor := WlCompositor{}
	_, destroyed, err := HandleCompositorCreateSurface(compositor, []uint32{10}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if destroyed {
		t.Fatal("create_surface must not destroy the compositor")
	}

	h, ok := objects.Get(10)
	if !ok {
		t.Fatal("new surface id 10 was not registered")
	}
	surfObj, ok := reg.Get(h)
	if !ok {
		t.Fatal("surface handle does not resolve in the registry")
	}
	if _, ok := surfObj.(*WlSurface); !ok {
		t.Fatalf("bound object is %T, want *WlSurface", surfObj)
	}
}

func TestHandleCompositorCreateSurfaceRejectsAlreadyBoundID(t *testing.T) {
	_, objects, ctx, _ := newTestContext()
	objects.Register(10, registry.Handle{})

	_, _, err := HandleCompositorCreateSurface(WlCompositor{}, []uint32{10}, ctx)
	if !errors.Is(err, wire.ErrInvalidObject) {
		t.Fatalf("expected ErrInvalidObject, got %v", err)
	}
}

func TestHandleShmCreatePoolTakesFdFromQueue(t *testing.T) {
	reg, objects, ctx, _ := newTestContext()
	ctx.Fds.Push(42)

	_, _, err := HandleShmCreatePool(WlShm{}, []uint32{20, 4096}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Fds.Len() != 0 {
		t.Fatal("create_pool must consume the staged fd")
	}
	h, _ := objects.Get(20)
	obj, _ := reg.Get(h)
	pool, ok := obj.(*WlShmPool)
	if !ok {
		t.Fatalf("bound object is %T, want *WlShmPool", obj)
	}
	if pool.Fd != 42 || pool.Size != 4096 {
		t.Errorf("pool = %+v, want Fd=42 Size=4096", pool)
	}
}

func TestHandleShmCreatePoolRequiresFd(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	_, _, err := HandleShmCreatePool(WlShm{}, []uint32{20, 4096}, ctx)
	if err == nil {
		t.Fatal("expected error when no fd is staged")
	}
}

func TestHandleShmCreatePoolRejectsNonPositiveSize(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	ctx.Fds.Push(1)
	_, _, err := HandleShmCreatePool(WlShm{}, []uint32{20, 0}, ctx)
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestHandleShmPoolCreateBufferValidatesGeometry(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	pool := &WlShmPool{Fd: -1, Size: 4 * 100}

	tests := []struct {
		name    string
		args    []uint32
		wantErr bool
	}{
		{"valid geometry", []uint32{30, 0, 10, 10, 10, 0}, false},
		{"negative offset", []uint32{1, uint32(int32(-1)), 10, 10, 10, 0}, true},
		{"zero width", []uint32{1, 0, 0, 10, 10, 0}, true},
		{"stride shorter than width", []uint32{1, 0, 10, 10, 2, 0}, true},
		{"extends past pool size", []uint32{1, 0, 10, 200, 10, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := HandleShmPoolCreateBuffer(pool, tt.args, ctx)
			if tt.wantErr && err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHandleShmPoolCreateBufferRejectsWrongObjectType(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	_, _, err := HandleShmPoolCreateBuffer(WlCompositor{}, []uint32{1, 0, 1, 1, 4, 0}, ctx)
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestHandleSurfaceAttachDetachWithNullBuffer(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	surf := &WlSurface{HasBuffer: true, AttachedBuffer: registry.Handle{}}

	result, destroyed, err := HandleSurfaceAttach(surf, []uint32{0, 0, 0}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if destroyed {
		t.Fatal("attach must not destroy the surface")
	}
	got := result.(*WlSurface)
	if got.HasBuffer {
		t.Error("attach(0) must detach the surface's buffer")
	}
}

func TestHandleSurfaceAttachRejectsUnknownBuffer(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	surf := &WlSurface{}
	_, _, err := HandleSurfaceAttach(surf, []uint32{99, 0, 0}, ctx)
	if !errors.Is(err, wire.ErrInvalidObject) {
		t.Fatalf("expected ErrInvalidObject, got %v", err)
	}
}

func TestHandleSurfaceCommitTriggersInitialConfigure(t *testing.T) {
	reg, objects, ctx, send := newTestContext()

	surfaceH := reg.Insert(&WlSurface{})
	objects.Register(2, surfaceH)
	xdgSurf := &XdgSurface{SurfaceHandle: surfaceH}
	xdgSurfH := reg.Insert(xdgSurf)
	objects.Register(3, xdgSurfH)

	surf := &WlSurface{HasRole: true, RoleHandle: xdgSurfH}
	_, destroyed, err := HandleSurfaceCommit(surf, nil, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if destroyed {
		t.Fatal("commit must not destroy the surface")
	}
	if send.Len() == 0 {
		t.Fatal("commit on an unconfigured xdg_surface must stage a configure event")
	}
	if xdgSurf.nextSerial != 1 {
		t.Errorf("nextSerial = %d, want 1", xdgSurf.nextSerial)
	}
}

func TestHandleSurfaceCommitNoopWhenNoRole(t *testing.T) {
	_, _, ctx, send := newTestContext()
	surf := &WlSurface{}
	if _, _, err := HandleSurfaceCommit(surf, nil, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if send.Len() != 0 {
		t.Error("commit without an xdg_surface role must not stage any event")
	}
}

func TestHandleSurfaceCommitNoopOnceConfigured(t *testing.T) {
	reg, objects, ctx, send := newTestContext()
	xdgSurf := &XdgSurface{Configured: true}
	xdgSurfH := reg.Insert(xdgSurf)
	objects.Register(3, xdgSurfH)

	surf := &WlSurface{HasRole: true, RoleHandle: xdgSurfH}
	if _, _, err := HandleSurfaceCommit(surf, nil, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if send.Len() != 0 {
		t.Error("commit on an already-configured xdg_surface must not re-send configure")
	}
}

func TestHandleXdgSurfaceAckConfigureValidatesSerial(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	xdgSurf := &XdgSurface{nextSerial: 5}

	if _, _, err := HandleXdgSurfaceAckConfigure(xdgSurf, []uint32{4}, ctx); !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for mismatched serial, got %v", err)
	}
	if xdgSurf.Configured {
		t.Fatal("a mismatched ack_configure must not mark the surface configured")
	}

	result, _, err := HandleXdgSurfaceAckConfigure(xdgSurf, []uint32{5}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.(*XdgSurface).Configured {
		t.Fatal("ack_configure with the matching serial must mark the surface configured")
	}
}

func TestHandleXdgWmBaseGetXdgSurfaceRejectsExistingRole(t *testing.T) {
	reg, objects, ctx, _ := newTestContext()
	surfaceH := reg.Insert(&WlSurface{HasRole: true})
	objects.Register(5, surfaceH)

	_, _, err := HandleXdgWmBaseGetXdgSurface(XdgWmBase{}, []uint32{6, 5}, ctx)
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestHandleXdgSurfaceGetToplevelStampsBackReference(t *testing.T) {
	reg, objects, ctx, send := newTestContext()
	xdgSurf := &XdgSurface{}
	xdgSurfH := reg.Insert(xdgSurf)
	objects.Register(4, xdgSurfH)
	ctx.Self = xdgSurfH

	_, _, err := HandleXdgSurfaceGetToplevel(xdgSurf, []uint32{7}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, _ := objects.Get(7)
	obj, _ := reg.Get(h)
	top, ok := obj.(*XdgToplevel)
	if !ok {
		t.Fatalf("bound object is %T, want *XdgToplevel", obj)
	}
	if top.XdgSurfaceHandle != xdgSurfH {
		t.Errorf("XdgSurfaceHandle = %v, want %v", top.XdgSurfaceHandle, xdgSurfH)
	}

	words := wordsAt(send.Bytes(0), 0)
	if words[0] != 7 {
		t.Errorf("initial configure addressed object %d, want 7", words[0])
	}
	if words[1]&0xffff != 0 {
		t.Errorf("initial configure opcode = %d, want 0", words[1]&0xffff)
	}
}

func TestHandleRegistryBindValidatesInterfaceAndVersion(t *testing.T) {
	reg, objects, ctx, _ := newTestContext()
	RegisterInterfaceVersion(registry.KindWlOutput, 3)
	outputH := reg.Insert(WlOutput{})
	reg.MakeGlobal(outputH, "wl_output", 3, noopClients{}, func(*wire.WriteBuf, uint32, uint32, string, uint32) error { return nil })

	bindArgs := func(name uint32, iface string, version, newID uint32) []uint32 {
		words := []uint32{name}
		strWords := make([]uint32, wire.WordsForString(iface))
		wire.EncodeString(strWords, 0, iface)
		words = append(words, strWords...)
		words = append(words, version, newID)
		return words
	}

	name := outputH.Name()

	_, _, err := HandleRegistryBind(WlRegistry{}, bindArgs(name, "wl_output", 2, 42), ctx)
	if err != nil {
		t.Fatalf("unexpected error binding a valid global: %v", err)
	}
	h, ok := objects.Get(42)
	if !ok {
		t.Fatal("bind must register the client's new_id")
	}
	if h != outputH {
		t.Errorf("bound handle = %v, want %v", h, outputH)
	}
}

func TestHandleRegistryBindRejectsVersionTooHigh(t *testing.T) {
	reg, _, ctx, _ := newTestContext()
	RegisterInterfaceVersion(registry.KindWlOutput, 2)
	outputH := reg.Insert(WlOutput{})
	reg.MakeGlobal(outputH, "wl_output", 2, noopClients{}, func(*wire.WriteBuf, uint32, uint32, string, uint32) error { return nil })

	strWords := make([]uint32, wire.WordsForString("wl_output"))
	wire.EncodeString(strWords, 0, "wl_output")
	args := append([]uint32{outputH.Name()}, strWords...)
	args = append(args, 99, 42)

	_, _, err := HandleRegistryBind(WlRegistry{}, args, ctx)
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for out-of-range version, got %v", err)
	}
}

func TestHandleRegistryBindRejectsUnknownName(t *testing.T) {
	_, _, ctx, _ := newTestContext()
	strWords := make([]uint32, wire.WordsForString("wl_output"))
	wire.EncodeString(strWords, 0, "wl_output")
	args := append([]uint32{12345}, strWords...)
	args = append(args, 1, 42)

	_, _, err := HandleRegistryBind(WlRegistry{}, args, ctx)
	if !errors.Is(err, wire.ErrInvalidObject) {
		t.Fatalf("expected ErrInvalidObject, got %v", err)
	}
}

type noopClients struct{}

func (noopClients) ForEach(func(objects *registry.ClientObjects, send *wire.WriteBuf)) {}
