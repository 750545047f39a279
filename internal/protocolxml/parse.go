package protocolxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads one Wayland protocol XML document, mirroring the
// event-driven start/end-tag state machine of protocol-scanner's
// ProtocolParser (handle_start/handle_end/handle_empty), but built on
// Go's encoding/xml.Decoder token stream instead of quick_xml.
func Parse(r io.Reader) (*Protocol, error) {
	dec := xml.NewDecoder(r)
	var proto Protocol
	var curInterface *Interface
	var curCallable *Callable
	var curEnum *Enum

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("protocolxml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "protocol":
				proto.Name = attr(t, "name")
			case "interface":
				proto.Interfaces = append(proto.Interfaces, Interface{
					Name:    attr(t, "name"),
					Version: parseUintAttr(t, "version", 1),
				})
				curInterface = &proto.Interfaces[len(proto.Interfaces)-1]
			case "request", "event":
				if curInterface == nil {
					return nil, fmt.Errorf("protocolxml: %s outside interface", t.Name.Local)
				}
				c := Callable{Name: attr(t, "name")}
				if t.Name.Local == "request" {
					curInterface.Requests = append(curInterface.Requests, c)
					curCallable = &curInterface.Requests[len(curInterface.Requests)-1]
				} else {
					curInterface.Events = append(curInterface.Events, c)
					curCallable = &curInterface.Events[len(curInterface.Events)-1]
				}
			case "enum":
				if curInterface == nil {
					return nil, fmt.Errorf("protocolxml: enum outside interface")
				}
				curInterface.Enums = append(curInterface.Enums, Enum{
					Name:       attr(t, "name"),
					IsBitfield: attr(t, "bitfield") == "true",
				})
				curEnum = &curInterface.Enums[len(curInterface.Enums)-1]
			case "entry":
				if curEnum == nil {
					return nil, fmt.Errorf("protocolxml: entry outside enum")
				}
				curEnum.Entries = append(curEnum.Entries, EnumEntry{
					Name:  attr(t, "name"),
					Value: parseEntryValue(attr(t, "value")),
				})
			case "arg":
				if curCallable == nil {
					return nil, fmt.Errorf("protocolxml: arg outside request/event")
				}
				argType, err := parseArgType(attr(t, "type"))
				if err != nil {
					return nil, err
				}
				curCallable.Args = append(curCallable.Args, Arg{
					Name:      attr(t, "name"),
					Type:      argType,
					Interface: attr(t, "interface"),
					EnumRef:   attr(t, "enum"),
					AllowNull: attr(t, "allow-null") == "true",
				})
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "interface":
				curInterface = nil
			case "request", "event":
				curCallable = nil
			case "enum":
				curEnum = nil
			}
		}
	}
	if proto.Name == "" {
		return nil, fmt.Errorf("protocolxml: missing <protocol name=...>")
	}
	return &proto, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func parseUintAttr(t xml.StartElement, name string, def uint32) uint32 {
	v := attr(t, name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def
	}
	return uint32(n)
}

// parseEntryValue accepts both decimal and 0x-prefixed hexadecimal entry
// values, the two forms used throughout the upstream wayland.xml and
// xdg-shell.xml descriptions.
func parseEntryValue(v string) uint32 {
	v = strings.TrimSpace(v)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
		base = 16
	}
	n, _ := strconv.ParseUint(v, base, 32)
	return uint32(n)
}

func parseArgType(s string) (ArgType, error) {
	switch s {
	case "int":
		return ArgInt, nil
	case "uint":
		return ArgUint, nil
	case "fixed":
		return ArgFixed, nil
	case "string":
		return ArgString, nil
	case "object":
		return ArgObject, nil
	case "new_id":
		return ArgNewID, nil
	case "array":
		return ArgArray, nil
	case "fd":
		return ArgFd, nil
	default:
		return 0, fmt.Errorf("protocolxml: unknown arg type %q", s)
	}
}
