package protocolxml

import (
	"fmt"

	"github.com/wlgateway/gateway/internal/protocol"
	"github.com/wlgateway/gateway/internal/registry"
)

// DispatchTable is the artifact Build produces: a
// Kind-indexed, opcode-indexed table of Demarshallers plus the parallel
// interface metadata the registry and registry-bind handshake need. This
// is the Go equivalent of carbon's generated INTERFACE_DISPATCH_TABLE /
// INTERFACE_NAMES / INTERFACE_VERSIONS statics (registry.rs / emit.rs),
// built once in memory instead of emitted as compiled-in Rust source.
type DispatchTable struct {
	// requests[kind][opcode] is nil for opcodes that exist on the wire
	// (reserved, e.g. for a future protocol version) but are not
	// implemented; Dispatch treats a nil entry as InvalidOpcode.
	requests [][]registry.Demarshaller
	// argSpecs parallels requests, letting the dispatcher validate and
	// decode an incoming word stream generically (ValidateRequestArgs)
	// instead of each Demarshaller re-parsing raw words itself for
	// bookkeeping like exact word counts.
	argSpecs [][][]Arg
	names    []string
	newObj   []func() registry.Object
	// enums maps "interfaceName.enumName" to the permitted-value/mask set
	// ValidateRequestArgs checks enum-typed arguments against.
	enums map[string]enumSpec
}

// RequestFor returns the Demarshaller and argument shape for (kind,
// opcode), or (nil, nil, false) if unknown.
func (t *DispatchTable) RequestFor(kind registry.Kind, opcode uint16) (registry.Demarshaller, []Arg, bool) {
	if int(kind) >= len(t.requests) || int(opcode) >= len(t.requests[kind]) {
		return nil, nil, false
	}
	d := t.requests[kind][opcode]
	if d == nil {
		return nil, nil, false
	}
	return d, t.argSpecs[kind][opcode], true
}

// ArgsFor returns the parsed argument shape for (kind, opcode) regardless
// of whether a Demarshaller is registered for it, for request paths
// (wl_display.sync/get_registry) that are hardwired rather than routed
// through RequestFor.
func (t *DispatchTable) ArgsFor(kind registry.Kind, opcode uint16) ([]Arg, bool) {
	if int(kind) >= len(t.argSpecs) || int(opcode) >= len(t.argSpecs[kind]) {
		return nil, false
	}
	return t.argSpecs[kind][opcode], true
}

// NewObject constructs the zero-value object for an interface kind. The
// request handlers in internal/protocol build their objects directly and
// do not call it.
func (t *DispatchTable) NewObject(kind registry.Kind) (registry.Object, bool) {
	if int(kind) >= len(t.newObj) || t.newObj[kind] == nil {
		return nil, false
	}
	return t.newObj[kind](), true
}

// InterfaceName returns the wire interface name for a Kind, e.g. for
// ValidateRequestArgs's enum lookups.
func (t *DispatchTable) InterfaceName(kind registry.Kind) string {
	if int(kind) >= len(t.names) {
		return ""
	}
	return t.names[kind]
}

// Build compiles a set of parsed protocol documents into a DispatchTable,
// registering each interface's advertised version with
// protocol.RegisterInterfaceVersion along the way. It is the single
// function cmd/gateway calls once at startup, before the socket is
// bound — the "build-time" step described in spec.md §4.6, performed at
// process-init time rather than ahead-of-time source generation (see
// DESIGN.md).
func Build(protocols []*Protocol) (*DispatchTable, error) {
	t := &DispatchTable{
		requests: make([][]registry.Demarshaller, registry.KindCount),
		argSpecs: make([][][]Arg, registry.KindCount),
		names:    make([]string, registry.KindCount),
		newObj:   make([]func() registry.Object, registry.KindCount),
		enums:    make(map[string]enumSpec),
	}

	for _, p := range protocols {
		for _, iface := range p.Interfaces {
			for _, e := range iface.Enums {
				es := enumSpec{bitfield: e.IsBitfield, values: make(map[uint32]bool, len(e.Entries))}
				for _, entry := range e.Entries {
					es.values[entry.Value] = true
					if e.IsBitfield {
						es.mask |= entry.Value
					}
				}
				t.enums[iface.Name+"."+e.Name] = es
			}

			kind, ok := registry.KindByName(iface.Name)
			if !ok {
				// Interfaces with no server-side Kind (e.g. purely
				// client-consumed ones this gateway never instantiates)
				// are parsed for completeness but contribute nothing to
				// the table.
				continue
			}
			t.names[kind] = iface.Name
			protocol.RegisterInterfaceVersion(kind, iface.Version)
			if ctor, ok := protocol.NewObject[iface.Name]; ok {
				t.newObj[kind] = ctor
			}

			handlers := protocol.Handlers[iface.Name]
			reqTable := make([]registry.Demarshaller, len(iface.Requests))
			specTable := make([][]Arg, len(iface.Requests))
			for opcode, req := range iface.Requests {
				specTable[opcode] = req.Args
				h, ok := handlers[req.Name]
				if !ok {
					// A request named in the protocol XML with no handler
					// registered is left nil: InvalidOpcode on receipt
					// rather than a build-time failure, since partial
					// interface coverage (e.g. a newly added xdg-shell
					// request this gateway doesn't yet support) must not
					// block every other interface's compile.
					continue
				}
				reqTable[opcode] = h
			}
			t.requests[kind] = reqTable
			t.argSpecs[kind] = specTable
		}
	}

	if t.names[registry.KindWlDisplay] == "" {
		return nil, fmt.Errorf("protocolxml: no wl_display interface found in loaded protocols")
	}
	return t, nil
}
