package protocolxml

import (
	"strings"
	"testing"

	"github.com/wlgateway/gateway/internal/registry"
)

const minimalDisplayAndCompositorXML = `<?xml version="1.0"?>
<protocol name="minimal">
  <interface name="wl_display" version="1">
    <request name="sync"><arg name="callback" type="new_id"/></request>
    <request name="get_registry"><arg name="registry" type="new_id"/></request>
  </interface>
  <interface name="wl_compositor" version="4">
    <request name="create_surface"><arg name="id" type="new_id"/></request>
    <request name="create_region"><arg name="id" type="new_id"/></request>
  </interface>
</protocol>`

func TestBuildResolvesKnownRequestHandlers(t *testing.T) {
	proto, err := Parse(strings.NewReader(minimalDisplayAndCompositorXML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	table, err := Build([]*Protocol{proto})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	demarshal, args, ok := table.RequestFor(registry.KindWlCompositor, 0)
	if !ok || demarshal == nil {
		t.Fatal("RequestFor(wl_compositor, create_surface) not found")
	}
	if len(args) != 1 || args[0].Name != "id" {
		t.Errorf("args = %+v, want a single 'id' new_id arg", args)
	}

	if table.InterfaceName(registry.KindWlCompositor) != "wl_compositor" {
		t.Errorf("InterfaceName = %q, want wl_compositor", table.InterfaceName(registry.KindWlCompositor))
	}
}

func TestBuildLeavesUnimplementedRequestsNil(t *testing.T) {
	doc := `<?xml version="1.0"?>
<protocol name="minimal">
  <interface name="wl_display" version="1">
    <request name="sync"><arg name="callback" type="new_id"/></request>
    <request name="get_registry"><arg name="registry" type="new_id"/></request>
  </interface>
  <interface name="wl_output" version="1">
    <request name="never_implemented"/>
  </interface>
</protocol>`
	proto, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	table, err := Build([]*Protocol{proto})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if _, _, ok := table.RequestFor(registry.KindWlOutput, 0); ok {
		t.Fatal("RequestFor must report false for a request with no registered handler")
	}
}

func TestBuildFailsWithoutWlDisplay(t *testing.T) {
	doc := `<?xml version="1.0"?>
<protocol name="minimal">
  <interface name="wl_compositor" version="4">
    <request name="create_surface"><arg name="id" type="new_id"/></request>
  </interface>
</protocol>`
	proto, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := Build([]*Protocol{proto}); err == nil {
		t.Fatal("expected error building a dispatch table with no wl_display interface")
	}
}

func TestBuildSkipsInterfacesWithNoKnownKind(t *testing.T) {
	doc := `<?xml version="1.0"?>
<protocol name="minimal">
  <interface name="wl_display" version="1">
    <request name="sync"><arg name="callback" type="new_id"/></request>
    <request name="get_registry"><arg name="registry" type="new_id"/></request>
  </interface>
  <interface name="wl_drm" version="1">
    <request name="authenticate"/>
  </interface>
</protocol>`
	proto, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := Build([]*Protocol{proto}); err != nil {
		t.Fatalf("unexpected error building with an unrecognized interface present: %v", err)
	}
}

func TestBuildRequestForUnknownOpcodeOrKind(t *testing.T) {
	proto, err := Parse(strings.NewReader(minimalDisplayAndCompositorXML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	table, err := Build([]*Protocol{proto})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if _, _, ok := table.RequestFor(registry.KindWlCompositor, 99); ok {
		t.Fatal("RequestFor must report false for an opcode past the known request list")
	}
	if _, ok := table.NewObject(registry.KindWlSeat); ok {
		t.Fatal("NewObject(wl_seat) must report false: wl_seat's <interface> was never part of this document")
	}
}
