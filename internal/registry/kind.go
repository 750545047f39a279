package registry

// Kind tags every protocol interface the gateway knows about. It selects
// the row in the dispatch table built by internal/protocolxml and is the
// discriminant of the Object sum type stored in the registry.
type Kind int

const (
	KindWlDisplay Kind = iota
	KindWlRegistry
	KindWlCallback
	KindWlCompositor
	KindWlShm
	KindWlShmPool
	KindWlBuffer
	KindWlSurface
	KindWlRegion
	KindWlSeat
	KindWlPointer
	KindWlKeyboard
	KindWlTouch
	KindWlOutput
	KindWlDataDeviceManager
	KindWlDataDevice
	KindWlDataSource
	KindWlDataOffer
	KindWlSubcompositor
	KindWlSubsurface
	KindXdgWmBase
	KindXdgPositioner
	KindXdgSurface
	KindXdgToplevel
	KindXdgPopup

	kindCount
)

// KindCount is the number of known interface kinds; dispatch-table rows
// are indexed [0, KindCount).
const KindCount = int(kindCount)

var kindNames = [kindCount]string{
	KindWlDisplay:           "wl_display",
	KindWlRegistry:          "wl_registry",
	KindWlCallback:          "wl_callback",
	KindWlCompositor:        "wl_compositor",
	KindWlShm:               "wl_shm",
	KindWlShmPool:           "wl_shm_pool",
	KindWlBuffer:            "wl_buffer",
	KindWlSurface:           "wl_surface",
	KindWlRegion:            "wl_region",
	KindWlSeat:              "wl_seat",
	KindWlPointer:           "wl_pointer",
	KindWlKeyboard:          "wl_keyboard",
	KindWlTouch:             "wl_touch",
	KindWlOutput:            "wl_output",
	KindWlDataDeviceManager: "wl_data_device_manager",
	KindWlDataDevice:        "wl_data_device",
	KindWlDataSource:        "wl_data_source",
	KindWlDataOffer:         "wl_data_offer",
	KindWlSubcompositor:     "wl_subcompositor",
	KindWlSubsurface:        "wl_subsurface",
	KindXdgWmBase:           "xdg_wm_base",
	KindXdgPositioner:       "xdg_positioner",
	KindXdgSurface:          "xdg_surface",
	KindXdgToplevel:         "xdg_toplevel",
	KindXdgPopup:            "xdg_popup",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// KindByName resolves a protocol interface name (as it appears on the
// wire and in XML protocol descriptions, e.g. "wl_compositor") to its
// Kind, for use by the protocol-XML compiler when wiring a parsed
// interface to its dispatch-table row.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Object is implemented by every concrete protocol-interface struct
// (internal/protocol.WlDisplay, .WlCompositor, ...). The registry stores
// these behind the interface and never inspects them beyond Kind(); all
// per-interface behavior lives in internal/protocol and
// internal/dispatch.
type Object interface {
	Kind() Kind
}
