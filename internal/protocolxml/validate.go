package protocolxml

import (
	"strings"

	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

// enumSpec is the permitted-value set (or, for a bitfield, permitted
// mask) compiled from one parsed <enum>, per §4.1's "validated against
// permitted values/bits" rule.
type enumSpec struct {
	bitfield bool
	mask     uint32
	values   map[uint32]bool
}

func (e enumSpec) permits(v uint32) bool {
	if e.bitfield {
		return v & ^e.mask == 0
	}
	return e.values[v]
}

// resolveEnum looks up ref (either a bare enum name, meaning "this
// interface's own enum", or "interface.name") against the enums compiled
// from every loaded protocol document.
func (t *DispatchTable) resolveEnum(ifaceName, ref string) (enumSpec, bool) {
	key := ref
	if !strings.Contains(ref, ".") {
		key = ifaceName + "." + ref
	}
	es, ok := t.enums[key]
	return es, ok
}

// ValidateRequestArgs walks spec against the raw payload words args,
// decoding just far enough to find each argument's boundary (the word
// count of a string or array argument depends on its own length prefix)
// and checking any enum-typed int/uint argument against its permitted
// values or bitmask. It requires the walk to land exactly on len(args)
// with nothing left over: both a short and a long payload are
// BadFormat, per §4.3 step 5 and §8. This is the generic decode/validate
// pass argSpecs exists to drive, run once by the dispatcher ahead of a
// handler's own semantic checks (object liveness, numeric ranges).
func (t *DispatchTable) ValidateRequestArgs(kind registry.Kind, spec []Arg, args []uint32) error {
	ifaceName := t.InterfaceName(kind)
	idx := 0
	for _, a := range spec {
		switch a.Type {
		case ArgFd:
			continue // carried alongside the word stream, not inside it
		case ArgString:
			_, next, err := wire.DecodeString(args, idx, a.AllowNull)
			if err != nil {
				return wire.ArgError(a.Name, err)
			}
			idx = next
		case ArgArray:
			_, next, err := wire.DecodeArray(args, idx, a.AllowNull)
			if err != nil {
				return wire.ArgError(a.Name, err)
			}
			idx = next
		default: // int, uint, fixed, object, new_id: exactly one word
			if idx >= len(args) {
				return wire.New(wire.KindBadFormat, "missing argument "+a.Name)
			}
			if a.EnumRef != "" {
				if es, ok := t.resolveEnum(ifaceName, a.EnumRef); ok && !es.permits(args[idx]) {
					return wire.New(wire.KindBadRequest, "argument "+a.Name+" is not a permitted enum value")
				}
			}
			idx++
		}
	}
	if idx != len(args) {
		return wire.New(wire.KindBadFormat, "argument count does not match payload")
	}
	return nil
}
