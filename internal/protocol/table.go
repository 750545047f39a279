package protocol

import "github.com/wlgateway/gateway/internal/registry"

// Handlers maps interface name -> request name -> Demarshaller. It is the
// bridge protocolxml.Build uses to turn a parsed <interface>'s
// ordered <request> list into a [Kind][opcode]Demarshaller table: the XML
// supplies argument shapes and opcode order, this map supplies behavior.
// wl_display's two requests are omitted deliberately — internal/dispatch
// hardwires them directly rather than routing them through the table, per
// §4.3.
var Handlers = map[string]map[string]registry.Demarshaller{
	"wl_registry": {
		"bind": HandleRegistryBind,
	},
	"wl_compositor": {
		"create_surface": HandleCompositorCreateSurface,
		"create_region":  HandleCompositorCreateRegion,
	},
	"wl_subcompositor": {
		"get_subsurface": HandleSubcompositorGetSubsurface,
		"destroy":        stubDestroy,
	},
	"wl_shm": {
		"create_pool": HandleShmCreatePool,
	},
	"wl_shm_pool": {
		"create_buffer": HandleShmPoolCreateBuffer,
		"destroy":       HandleShmPoolDestroy,
		"resize":        HandleSurfaceNoop,
	},
	"wl_buffer": {
		"destroy": HandleBufferDestroy,
	},
	"wl_surface": {
		"destroy":               HandleSurfaceDestroy,
		"attach":                HandleSurfaceAttach,
		"damage":                HandleSurfaceDamage,
		"frame":                 HandleSurfaceFrame,
		"set_opaque_region":     HandleSurfaceNoop,
		"set_input_region":      HandleSurfaceNoop,
		"commit":                HandleSurfaceCommit,
		"set_buffer_transform":  HandleSurfaceNoop,
		"set_buffer_scale":      HandleSurfaceNoop,
		"damage_buffer":         HandleSurfaceDamageBuffer,
		"offset":                HandleSurfaceNoop,
	},
	"wl_region": {
		"destroy":  HandleRegionDestroy,
		"add":      HandleRegionNoop,
		"subtract": HandleRegionNoop,
	},
	"wl_seat": {
		"get_pointer":  HandleSeatGetPointer,
		"get_keyboard": HandleSeatGetKeyboard,
		"get_touch":    HandleSeatGetTouch,
		"release":      HandleSeatRelease,
	},
	"wl_pointer": {
		"set_cursor": HandleSurfaceNoop,
		"release":    HandlePointerRelease,
	},
	"wl_keyboard": {
		"release": HandleKeyboardRelease,
	},
	"wl_touch": {
		"release": HandleTouchRelease,
	},
	"wl_data_device_manager": {
		"create_data_source": HandleDataDeviceManagerCreateDataSource,
		"get_data_device":    HandleDataDeviceManagerGetDataDevice,
	},
	"wl_data_device": {
		"release": HandleDataDeviceRelease,
	},
	"wl_data_source": {
		"destroy": HandleDataSourceDestroy,
	},
	"wl_data_offer": {
		"destroy": HandleDataOfferDestroy,
	},
	"xdg_wm_base": {
		"destroy":           HandleXdgWmBaseDestroy,
		"create_positioner": HandleXdgWmBaseCreatePositioner,
		"get_xdg_surface":   HandleXdgWmBaseGetXdgSurface,
		"pong":              HandleXdgWmBasePong,
	},
	"xdg_positioner": {
		"destroy": stubDestroy,
	},
	"xdg_surface": {
		"destroy":             HandleXdgSurfaceDestroy,
		"get_toplevel":        HandleXdgSurfaceGetToplevel,
		"get_popup":           HandleXdgSurfaceGetPopup,
		"set_window_geometry": HandleXdgSurfaceSetWindowGeometry,
		"ack_configure":       HandleXdgSurfaceAckConfigure,
	},
	"xdg_toplevel": {
		"destroy":           HandleXdgToplevelDestroy,
		"set_parent":        HandleXdgToplevelNoop,
		"set_title":         HandleXdgToplevelSetString,
		"set_app_id":        HandleXdgToplevelSetString,
		"show_window_menu":  HandleXdgToplevelNoop,
		"move":              HandleXdgToplevelNoop,
		"resize":            HandleXdgToplevelNoop,
		"set_max_size":      HandleXdgToplevelNoop,
		"set_min_size":      HandleXdgToplevelNoop,
		"set_maximized":     HandleXdgToplevelNoop,
		"unset_maximized":   HandleXdgToplevelNoop,
		"set_fullscreen":    HandleXdgToplevelNoop,
		"unset_fullscreen":  HandleXdgToplevelNoop,
		"set_minimized":     HandleXdgToplevelNoop,
	},
	"xdg_popup": {
		"destroy": stubDestroy,
	},
}

// stubDestroy is shared by requests this gateway treats as an immediate,
// effect-free destroy (e.g. xdg_positioner, which this gateway accepts
// but never consults when sizing a popup).
func stubDestroy(obj registry.Object, args []uint32, ctx *registry.Context) (registry.Object, bool, error) {
	return obj, true, nil
}

// NewObject constructs the zero-value Object for an interface name, used
// by protocolxml when an interface's objects are all fungible enough that
// the request table alone doesn't need to special-case construction
// (compare wl_shm_pool and wl_buffer, which handlers.go constructs
// directly with field values from request arguments).
var NewObject = map[string]func() registry.Object{
	"wl_callback":             func() registry.Object { return WlCallback{} },
	"wl_compositor":           func() registry.Object { return WlCompositor{} },
	"wl_subcompositor":        func() registry.Object { return WlSubcompositor{} },
	"wl_shm":                  func() registry.Object { return WlShm{} },
	"wl_region":                func() registry.Object { return WlRegion{} },
	"wl_seat":                 func() registry.Object { return &WlSeat{} },
	"wl_pointer":              func() registry.Object { return WlPointer{} },
	"wl_keyboard":             func() registry.Object { return WlKeyboard{} },
	"wl_touch":                func() registry.Object { return WlTouch{} },
	"wl_output":               func() registry.Object { return WlOutput{} },
	"wl_data_device_manager":  func() registry.Object { return WlDataDeviceManager{} },
	"wl_data_device":          func() registry.Object { return WlDataDevice{} },
	"wl_data_source":          func() registry.Object { return WlDataSource{} },
	"wl_data_offer":           func() registry.Object { return WlDataOffer{} },
	"xdg_wm_base":             func() registry.Object { return XdgWmBase{} },
	"xdg_positioner":          func() registry.Object { return XdgPositioner{} },
}
