package protocolxml

import (
	"errors"
	"strings"
	"testing"

	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// shmLikeXML mirrors wayland.xml's wl_shm/wl_shm_pool shape closely
// enough to exercise a cross-interface enum reference ("wl_shm.format")
// on a real request argument, plus a string and an array argument for
// the variable-length word-count walk.
const shmLikeXML = `<?xml version="1.0"?>
<protocol name="shmlike">
  <interface name="wl_display" version="1">
    <request name="sync"><arg name="callback" type="new_id"/></request>
    <request name="get_registry"><arg name="registry" type="new_id"/></request>
  </interface>
  <interface name="wl_shm_pool" version="1">
    <request name="create_buffer">
      <arg name="id" type="new_id" interface="wl_buffer"/>
      <arg name="offset" type="int"/>
      <arg name="width" type="int"/>
      <arg name="height" type="int"/>
      <arg name="stride" type="int"/>
      <arg name="format" type="uint" enum="wl_shm.format"/>
    </request>
    <request name="destroy"></request>
    <request name="resize"><arg name="size" type="int"/></request>
  </interface>
  <interface name="wl_shm" version="2">
    <request name="create_pool">
      <arg name="id" type="new_id" interface="wl_shm_pool"/>
      <arg name="fd" type="fd"/>
      <arg name="size" type="int"/>
    </request>
    <enum name="format">
      <entry name="argb8888" value="0"/>
      <entry name="xrgb8888" value="1"/>
    </enum>
  </interface>
  <interface name="wl_seat" version="7">
    <enum name="capability" bitfield="true">
      <entry name="pointer" value="1"/>
      <entry name="keyboard" value="2"/>
      <entry name="touch" value="4"/>
    </enum>
    <request name="get_pointer"><arg name="id" type="new_id"/></request>
    <request name="get_keyboard"><arg name="id" type="new_id"/></request>
    <request name="get_touch"><arg name="id" type="new_id"/></request>
    <request name="release"></request>
  </interface>
  <interface name="xdg_toplevel" version="1">
    <request name="destroy"></request>
    <request name="set_parent"><arg name="parent" type="object" allow-null="true"/></request>
    <request name="set_title"><arg name="title" type="string"/></request>
    <request name="set_app_id"><arg name="app_id" type="string"/></request>
    <request name="show_window_menu"></request>
    <request name="move"></request>
    <request name="resize"></request>
    <request name="set_max_size"></request>
    <request name="set_min_size"></request>
    <request name="set_maximized"></request>
    <request name="unset_maximized"></request>
    <request name="set_fullscreen"></request>
    <request name="unset_fullscreen"></request>
    <request name="set_minimized"></request>
  </interface>
</protocol>`

func buildShmLikeTable(t *testing.T) *DispatchTable {
	t.Helper()
	proto, err := Parse(strings.NewReader(shmLikeXML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	table, err := Build([]*Protocol{proto})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return table
}

func TestValidateRequestArgsAcceptsPermittedEnumValue(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, ok := table.ArgsFor(registry.KindWlShmPool, 0) // create_buffer
	if !ok {
		t.Fatal("ArgsFor(wl_shm_pool, create_buffer) not found")
	}
	args := []uint32{1, 0, 10, 10, 40, 1} // format=1 (xrgb8888), permitted
	if err := table.ValidateRequestArgs(registry.KindWlShmPool, spec, args); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequestArgsRejectsUnpermittedEnumValue(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, _ := table.ArgsFor(registry.KindWlShmPool, 0)
	args := []uint32{1, 0, 10, 10, 40, 99} // no such wl_shm.format entry
	err := table.ValidateRequestArgs(registry.KindWlShmPool, spec, args)
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for an out-of-range enum value, got %v", err)
	}
}

func TestValidateRequestArgsRejectsTrailingWords(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, _ := table.ArgsFor(registry.KindWlShmPool, 0)
	args := []uint32{1, 0, 10, 10, 40, 1, 0xdeadbeef} // one extra trailing word
	err := table.ValidateRequestArgs(registry.KindWlShmPool, spec, args)
	if !errors.Is(err, wire.ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat for a trailing word, got %v", err)
	}
}

func TestValidateRequestArgsRejectsShortArgs(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, _ := table.ArgsFor(registry.KindWlShmPool, 0)
	args := []uint32{1, 0, 10, 10} // missing stride and format
	err := table.ValidateRequestArgs(registry.KindWlShmPool, spec, args)
	if !errors.Is(err, wire.ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat for a short payload, got %v", err)
	}
}

func TestValidateRequestArgsAcceptsBitfieldSubsetOfMask(t *testing.T) {
	table := buildShmLikeTable(t)
	// wl_seat advertises its capability bitfield as an event arg, not a
	// request arg, but resolveEnum's lookup logic is exercised the same
	// way regardless of which callable carries the arg — build a
	// synthetic request spec referencing it directly.
	spec := []Arg{{Name: "capabilities", Type: ArgUint, EnumRef: "capability"}}
	if err := table.ValidateRequestArgs(registry.KindWlSeat, spec, []uint32{1 | 2}); err != nil {
		t.Fatalf("pointer|keyboard must be a permitted capability subset: %v", err)
	}
}

func TestValidateRequestArgsRejectsBitOutsideMask(t *testing.T) {
	table := buildShmLikeTable(t)
	spec := []Arg{{Name: "capabilities", Type: ArgUint, EnumRef: "capability"}}
	err := table.ValidateRequestArgs(registry.KindWlSeat, spec, []uint32{8}) // no bit 4 (0x8) defined
	if !errors.Is(err, wire.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for a bit outside the capability mask, got %v", err)
	}
}

func TestValidateRequestArgsWalksVariableLengthStringArg(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, ok := table.ArgsFor(registry.KindXdgToplevel, 2) // set_title
	if !ok {
		t.Fatal("ArgsFor(xdg_toplevel, set_title) not found")
	}
	words := make([]uint32, wire.WordsForString("gnome-terminal"))
	wire.EncodeString(words, 0, "gnome-terminal")
	if err := table.ValidateRequestArgs(registry.KindXdgToplevel, spec, words); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequestArgsNoArgsRequestAcceptsEmptyPayload(t *testing.T) {
	table := buildShmLikeTable(t)
	spec, ok := table.ArgsFor(registry.KindWlShmPool, 1) // destroy
	if !ok {
		t.Fatal("ArgsFor(wl_shm_pool, destroy) not found")
	}
	if err := table.ValidateRequestArgs(registry.KindWlShmPool, spec, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestArgsForReportsFalsePastKnownOpcodes(t *testing.T) {
	table := buildShmLikeTable(t)
	if _, ok := table.ArgsFor(registry.KindWlShmPool, 99); ok {
		t.Fatal("ArgsFor must report false past the known request list")
	}
}
