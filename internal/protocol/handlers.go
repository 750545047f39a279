package protocol

import (
	"golang.org/x/sys/unix"

	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// bindNew inserts obj into the registry and binds the client's requested
// new_id to it. It fails with InvalidObject if the client's id is already
// bound to something live, mirroring ClientObjects.Register's contract.
func bindNew(ctx *registry.Context, newID uint32, obj registry.Object) (registry.Handle, error) {
	h := ctx.Reg.Insert(obj)
	if !ctx.Objects.Register(newID, h) {
		ctx.Reg.Remove(h)
		return registry.Handle{}, wire.New(wire.KindInvalidObject, "new_id already bound")
	}
	return h, nil
}

// objectArg resolves a wire object-id argument to its registry Handle,
// optionally allowing the null object id (0).
func objectArg(ctx *registry.Context, id uint32, allowNull bool) (registry.Handle, bool, error) {
	if id == 0 {
		if allowNull {
			return registry.Handle{}, false, nil
		}
		return registry.Handle{}, false, wire.New(wire.KindBadRequest, "object argument must not be null")
	}
	h, ok := ctx.Objects.Get(id)
	if !ok {
		return registry.Handle{}, false, wire.New(wire.KindInvalidObject, "unknown object argument")
	}
	return h, true, nil
}

// HandleDisplaySync implements wl_display.sync: allocate a wl_callback at
// the client-chosen new_id and immediately reply done(0). Hardwired per
// §4.3 rather than routed through the generated table, but exposed here
// too so a protocol XML description of wl_display can still name it.
func HandleDisplaySync(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "sync requires callback new_id")
	}
	callbackID := args[0]
	if _, err := bindNew(ctx, callbackID, WlCallback{}); err != nil {
		return obj, false, err
	}
	if err := EmitCallbackDone(ctx.Send, callbackID, 0); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleDisplayGetRegistry implements wl_display.get_registry: bind the
// client's new_id to the shared wl_registry handle and immediately
// replay every currently-advertised global, per §4.4.
func HandleDisplayGetRegistry(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "get_registry requires registry new_id")
	}
	registryID := args[0]
	h := ctx.Reg.RegistryHandle()
	if !ctx.Objects.Register(registryID, h) {
		return obj, false, wire.New(wire.KindInvalidObject, "new_id already bound")
	}
	for _, g := range ctx.Reg.Globals() {
		iface, version := InterfaceInfo(g, ctx.Reg)
		if iface == "" {
			continue
		}
		if err := EmitRegistryGlobal(ctx.Send, registryID, g.Name(), iface, version); err != nil {
			return obj, false, err
		}
	}
	return obj, false, nil
}

// InterfaceInfo looks up the interface name and version to advertise for
// a global handle. Concrete globals (wl_compositor, wl_shm, wl_seat,
// wl_subcompositor, xdg_wm_base, wl_output...) resolve via their Kind;
// the protocol-XML compiler supplies each interface's advertised
// version, so this indirection is filled in by RegisterInterfaceVersion
// at startup rather than hardcoded here.
func InterfaceInfo(h registry.Handle, reg *registry.ObjectRegistry) (string, uint32) {
	obj, ok := reg.Get(h)
	if !ok {
		return "", 0
	}
	return obj.Kind().String(), interfaceVersions[obj.Kind()]
}

// interfaceVersions is populated by RegisterInterfaceVersion during
// protocolxml's startup compile of the loaded protocol descriptions.
var interfaceVersions = make(map[registry.Kind]uint32)

// RegisterInterfaceVersion records the advertised version for an
// interface kind, called once per parsed <interface> at startup.
func RegisterInterfaceVersion(k registry.Kind, version uint32) {
	interfaceVersions[k] = version
}

// VersionFor returns the advertised version for an interface kind, as
// recorded by RegisterInterfaceVersion. Used by internal/input when
// advertising a wl_seat global created outside the normal bind path.
func VersionFor(k registry.Kind) uint32 {
	return interfaceVersions[k]
}

// HandleRegistryBind implements wl_registry.bind: resolve name to its
// global handle and bind the client's new_id to it. Unlike the other
// handlers this one is invoked on the shared WlRegistry object, so it
// never mutates per-object state.
func HandleRegistryBind(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "bind requires name")
	}
	name := args[0]
	idx := 1
	// bind's new_id argument is "unresolved": the wire additionally
	// carries the bound interface name and version so the server can
	// validate the client asked for what the global actually is.
	wantInterface, next, err := wire.DecodeString(args, idx, false)
	if err != nil {
		return obj, false, wire.ArgError("interface", err)
	}
	idx = next
	if idx+1 >= len(args) {
		return obj, false, wire.New(wire.KindBadFormat, "bind requires version and new_id")
	}
	version := args[idx]
	newID := args[idx+1]

	var target registry.Handle
	found := false
	for _, g := range ctx.Reg.Globals() {
		if g.Name() == name {
			target = g
			found = true
			break
		}
	}
	if !found {
		return obj, false, wire.New(wire.KindInvalidObject, "bind of unknown global name")
	}
	gobj, ok := ctx.Reg.Get(target)
	if !ok {
		return obj, false, wire.New(wire.KindInvalidObject, "global no longer live")
	}
	if gobj.Kind().String() != wantInterface {
		return obj, false, wire.New(wire.KindBadRequest, "bind interface mismatch")
	}
	if version == 0 || version > interfaceVersions[gobj.Kind()] {
		return obj, false, wire.New(wire.KindBadRequest, "bind version out of range")
	}
	if !ctx.Objects.Register(newID, target) {
		return obj, false, wire.New(wire.KindInvalidObject, "new_id already bound")
	}
	return obj, false, nil
}

// HandleCompositorCreateSurface implements wl_compositor.create_surface.
func HandleCompositorCreateSurface(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "create_surface requires id")
	}
	if _, err := bindNew(ctx, args[0], &WlSurface{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleCompositorCreateRegion implements wl_compositor.create_region.
func HandleCompositorCreateRegion(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "create_region requires id")
	}
	if _, err := bindNew(ctx, args[0], WlRegion{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleSubcompositorGetSubsurface implements
// wl_subcompositor.get_subsurface(id, surface, parent).
func HandleSubcompositorGetSubsurface(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 3 {
		return obj, false, wire.New(wire.KindBadFormat, "get_subsurface requires id, surface, parent")
	}
	surfaceH, _, err := objectArg(ctx, args[1], false)
	if err != nil {
		return obj, false, err
	}
	parentH, _, err := objectArg(ctx, args[2], false)
	if err != nil {
		return obj, false, err
	}
	if _, err := bindNew(ctx, args[0], &WlSubsurface{SurfaceHandle: surfaceH, ParentHandle: parentH}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleShmCreatePool implements wl_shm.create_pool(id, fd, size). The fd
// is taken from the request's ancillary fd queue, per §4.1's rule that
// fds ride alongside the args word stream rather than inside it.
func HandleShmCreatePool(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 2 {
		return obj, false, wire.New(wire.KindBadFormat, "create_pool requires id and size")
	}
	size := int32(args[1])
	if size <= 0 {
		return obj, false, wire.New(wire.KindBadRequest, "create_pool size must be positive")
	}
	fd, ok := ctx.Fds.Pop()
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "create_pool requires a pool fd")
	}
	if _, err := bindNew(ctx, args[0], &WlShmPool{Fd: fd, Size: size}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleShmPoolCreateBuffer implements
// wl_shm_pool.create_buffer(id, offset, width, height, stride, format).
func HandleShmPoolCreateBuffer(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	pool, ok := obj.(*WlShmPool)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "create_buffer on non-pool object")
	}
	if len(args) < 6 {
		return obj, false, wire.New(wire.KindBadFormat, "create_buffer requires 6 arguments")
	}
	offset, width, height, stride, format := int32(args[1]), int32(args[2]), int32(args[3]), int32(args[4]), args[5]
	if offset < 0 || width <= 0 || height <= 0 || stride < width {
		return obj, false, wire.New(wire.KindBadRequest, "create_buffer geometry out of range")
	}
	if int64(offset)+int64(stride)*int64(height) > int64(pool.Size) {
		return obj, false, wire.New(wire.KindBadRequest, "create_buffer extends past pool size")
	}
	buf := &WlBuffer{Offset: offset, Width: width, Height: height, Stride: stride, Format: format}
	if _, err := bindNew(ctx, args[0], buf); err != nil {
		return obj, false, err
	}
	return pool, false, nil
}

// HandleShmPoolDestroy implements wl_shm_pool.destroy, closing the pool's
// owned fd.
func HandleShmPoolDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	pool, ok := obj.(*WlShmPool)
	if ok {
		unix.Close(pool.Fd)
	}
	return obj, true, nil
}

// HandleBufferDestroy implements wl_buffer.destroy.
func HandleBufferDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleSurfaceAttach implements wl_surface.attach(buffer, x, y). A null
// buffer detaches the surface's current content.
func HandleSurfaceAttach(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	surf, ok := obj.(*WlSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "attach on non-surface object")
	}
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "attach requires buffer argument")
	}
	h, bound, err := objectArg(ctx, args[0], true)
	if err != nil {
		return obj, false, err
	}
	surf.AttachedBuffer = h
	surf.HasBuffer = bound
	return surf, false, nil
}

// HandleSurfaceDamage and HandleSurfaceDamageBuffer implement
// wl_surface.damage and .damage_buffer. Neither is given compositing
// effect here — there is no frame buffer to mark dirty — but both are
// still accepted and argument-validated so a real client's commit cycle
// never stalls on an error it wouldn't get from a real compositor.
func HandleSurfaceDamage(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 4 {
		return obj, false, wire.New(wire.KindBadFormat, "damage requires x, y, width, height")
	}
	return obj, false, nil
}

func HandleSurfaceDamageBuffer(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 4 {
		return obj, false, wire.New(wire.KindBadFormat, "damage_buffer requires x, y, width, height")
	}
	return obj, false, nil
}

// HandleSurfaceFrame implements wl_surface.frame(callback). Real
// compositors defer done() to the next presented frame; without a
// render loop this gateway has nothing to defer to, so it replies
// immediately, the same simplification wl_display.sync makes.
func HandleSurfaceFrame(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "frame requires callback new_id")
	}
	callbackID := args[0]
	if _, err := bindNew(ctx, callbackID, WlCallback{}); err != nil {
		return obj, false, err
	}
	if err := EmitCallbackDone(ctx.Send, callbackID, 0); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleSurfaceCommit implements wl_surface.commit. If the surface has
// taken the xdg_surface role and has not yet been configured, commit
// triggers the initial configure per the xdg-shell handshake.
func HandleSurfaceCommit(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	surf, ok := obj.(*WlSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "commit on non-surface object")
	}
	if !surf.HasRole {
		return surf, false, nil
	}
	role, ok := ctx.Reg.Get(surf.RoleHandle)
	if !ok {
		return surf, false, nil
	}
	xdgSurf, ok := role.(*XdgSurface)
	if !ok || xdgSurf.Configured {
		return surf, false, nil
	}
	xdgSurf.nextSerial++
	serial := xdgSurf.nextSerial
	id, bound := ctx.Objects.FindID(surf.RoleHandle)
	if bound {
		if err := EmitXdgSurfaceConfigure(ctx.Send, id, serial); err != nil {
			return surf, false, err
		}
	}
	return surf, false, nil
}

// HandleSurfaceNoop implements the requests this gateway accepts but
// assigns no behavior to: wl_surface's set_opaque_region,
// set_input_region, set_buffer_transform, set_buffer_scale and offset,
// plus wl_shm_pool.resize and wl_pointer.set_cursor.
func HandleSurfaceNoop(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, false, nil
}

// HandleSurfaceDestroy implements wl_surface.destroy.
func HandleSurfaceDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleRegionDestroy implements wl_region.destroy.
func HandleRegionDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleRegionNoop implements wl_region.add and wl_region.subtract,
// which this gateway accepts without tracking actual region geometry.
func HandleRegionNoop(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, false, nil
}

// HandleXdgWmBaseCreatePositioner implements
// xdg_wm_base.create_positioner(id). This gateway accepts positioners
// but never consults their geometry (get_popup does no placement), so
// the object carries no state.
func HandleXdgWmBaseCreatePositioner(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "create_positioner requires id")
	}
	if _, err := bindNew(ctx, args[0], XdgPositioner{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleXdgWmBaseGetXdgSurface implements
// xdg_wm_base.get_xdg_surface(id, surface). Fails if the target surface
// already has a role, per xdg-shell's "already has a buffer/role"
// invariant.
func HandleXdgWmBaseGetXdgSurface(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 2 {
		return obj, false, wire.New(wire.KindBadFormat, "get_xdg_surface requires id and surface")
	}
	surfaceH, _, err := objectArg(ctx, args[1], false)
	if err != nil {
		return obj, false, err
	}
	surfObj, ok := ctx.Reg.Get(surfaceH)
	if !ok {
		return obj, false, wire.New(wire.KindInvalidObject, "surface no longer live")
	}
	surf, ok := surfObj.(*WlSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "get_xdg_surface target is not a surface")
	}
	if surf.HasRole {
		return obj, false, wire.New(wire.KindBadRequest, "surface already has a role")
	}
	xdgSurf := &XdgSurface{SurfaceHandle: surfaceH}
	h, err := bindNew(ctx, args[0], xdgSurf)
	if err != nil {
		return obj, false, err
	}
	surf.HasRole = true
	surf.RoleHandle = h
	return obj, false, nil
}

// HandleXdgWmBasePong implements xdg_wm_base.pong(serial); accepted
// without tracking outstanding pings since this gateway has no liveness
// timeout policy of its own.
func HandleXdgWmBasePong(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "pong requires serial")
	}
	return obj, false, nil
}

// HandleXdgWmBaseDestroy implements xdg_wm_base.destroy.
func HandleXdgWmBaseDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleXdgSurfaceGetToplevel implements xdg_surface.get_toplevel(id). Per
// the xdg-shell handshake, the toplevel gets its own initial (empty)
// configure immediately; the xdg_surface.configure that unblocks the
// client's first commit follows later, from HandleSurfaceCommit.
func HandleXdgSurfaceGetToplevel(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	xdgSurf, ok := obj.(*XdgSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "get_toplevel on non-xdg_surface object")
	}
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "get_toplevel requires id")
	}
	top := &XdgToplevel{XdgSurfaceHandle: ctx.Self}
	toplevelID, err := bindNew(ctx, args[0], top)
	if err != nil {
		return obj, false, err
	}
	if id, ok := ctx.Objects.FindID(toplevelID); ok {
		if err := EmitXdgToplevelConfigure(ctx.Send, id, 0, 0, nil); err != nil {
			return obj, false, err
		}
	}
	return xdgSurf, false, nil
}

// HandleXdgSurfaceGetPopup implements
// xdg_surface.get_popup(id, parent, positioner). The positioner
// argument is validated but otherwise unused, per
// HandleXdgWmBaseCreatePositioner's note on positioner geometry.
func HandleXdgSurfaceGetPopup(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	xdgSurf, ok := obj.(*XdgSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "get_popup on non-xdg_surface object")
	}
	if len(args) < 3 {
		return obj, false, wire.New(wire.KindBadFormat, "get_popup requires id, parent, positioner")
	}
	if _, _, err := objectArg(ctx, args[1], true); err != nil {
		return obj, false, err
	}
	if _, _, err := objectArg(ctx, args[2], false); err != nil {
		return obj, false, err
	}
	popup := &XdgPopup{XdgSurfaceHandle: ctx.Self}
	if _, err := bindNew(ctx, args[0], popup); err != nil {
		return obj, false, err
	}
	return xdgSurf, false, nil
}

// HandleXdgSurfaceAckConfigure implements
// xdg_surface.ack_configure(serial).
func HandleXdgSurfaceAckConfigure(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	xdgSurf, ok := obj.(*XdgSurface)
	if !ok {
		return obj, false, wire.New(wire.KindBadRequest, "ack_configure on non-xdg_surface object")
	}
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "ack_configure requires serial")
	}
	if args[0] != xdgSurf.nextSerial {
		return obj, false, wire.New(wire.KindBadRequest, "ack_configure serial mismatch")
	}
	xdgSurf.Configured = true
	return xdgSurf, false, nil
}

// HandleXdgSurfaceSetWindowGeometry implements
// xdg_surface.set_window_geometry, accepted without effect.
func HandleXdgSurfaceSetWindowGeometry(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 4 {
		return obj, false, wire.New(wire.KindBadFormat, "set_window_geometry requires x, y, width, height")
	}
	return obj, false, nil
}

// HandleXdgSurfaceDestroy implements xdg_surface.destroy.
func HandleXdgSurfaceDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleXdgToplevelDestroy implements xdg_toplevel.destroy.
func HandleXdgToplevelDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleXdgToplevelSetString implements xdg_toplevel.set_title and
// .set_app_id, which share the same single-string shape and no
// server-visible effect.
func HandleXdgToplevelSetString(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if _, _, err := wire.DecodeString(args, 0, false); err != nil {
		return obj, false, wire.ArgError("value", err)
	}
	return obj, false, nil
}

// HandleXdgToplevelNoop implements the remaining xdg_toplevel requests
// this gateway accepts without effect: set_parent, show_window_menu,
// move, resize, set_max_size, set_min_size, set_maximized,
// unset_maximized, set_fullscreen, unset_fullscreen, set_minimized.
func HandleXdgToplevelNoop(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, false, nil
}

// HandleSeatGetPointer, HandleSeatGetKeyboard and HandleSeatGetTouch
// implement wl_seat's three device-getter requests. Each binds a new
// device object; no input events are ever sent on it.
func HandleSeatGetPointer(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "get_pointer requires id")
	}
	if _, err := bindNew(ctx, args[0], WlPointer{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

func HandleSeatGetKeyboard(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "get_keyboard requires id")
	}
	if _, err := bindNew(ctx, args[0], WlKeyboard{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

func HandleSeatGetTouch(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "get_touch requires id")
	}
	if _, err := bindNew(ctx, args[0], WlTouch{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleSeatRelease implements wl_seat.release.
func HandleSeatRelease(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandlePointerRelease, HandleKeyboardRelease and HandleTouchRelease
// implement the .release request on each input device interface.
func HandlePointerRelease(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

func HandleKeyboardRelease(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

func HandleTouchRelease(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleDataDeviceManagerCreateDataSource implements
// wl_data_device_manager.create_data_source(id).
func HandleDataDeviceManagerCreateDataSource(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 1 {
		return obj, false, wire.New(wire.KindBadFormat, "create_data_source requires id")
	}
	if _, err := bindNew(ctx, args[0], WlDataSource{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleDataDeviceManagerGetDataDevice implements
// wl_data_device_manager.get_data_device(id, seat).
func HandleDataDeviceManagerGetDataDevice(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	if len(args) < 2 {
		return obj, false, wire.New(wire.KindBadFormat, "get_data_device requires id and seat")
	}
	if _, _, err := objectArg(ctx, args[1], false); err != nil {
		return obj, false, err
	}
	if _, err := bindNew(ctx, args[0], WlDataDevice{}); err != nil {
		return obj, false, err
	}
	return obj, false, nil
}

// HandleDataDeviceRelease implements wl_data_device.release.
func HandleDataDeviceRelease(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// HandleDataSourceDestroy and HandleDataOfferDestroy implement destroy
// on wl_data_source and wl_data_offer.
func HandleDataSourceDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

func HandleDataOfferDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}
