package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle is an opaque, stable-for-lifetime reference to a record.
//
// Index selects a slot in the record arena; Gen is the generation of that
// slot at allocation time. A slot's generation is bumped every time it is
// freed, so a handle held past its record's destruction never resolves to
// the slot's next occupant.
//
// The zero Handle is Nil and never refers to a record (generations start at 1).
type Handle struct {
	Index uint32
	Gen   uint32
}

// Nil is the handle that refers to nothing.
var Nil Handle

// IsNil reports whether h is the Nil handle.
func (h Handle) IsNil() bool {
	return h.Gen == 0
}

// String returns "<index>:<gen>", or "nil" for the Nil handle.
func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Gen)
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(text []byte) error {
	parsed, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHandle parses the text form produced by Handle.String.
func ParseHandle(s string) (Handle, error) {
	if s == "nil" || s == "" {
		return Nil, nil
	}
	idx, gen, ok := strings.Cut(s, ":")
	if !ok {
		return Nil, fmt.Errorf("parse handle %q: missing ':'", s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Nil, fmt.Errorf("parse handle %q: index: %w", s, err)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil {
		return Nil, fmt.Errorf("parse handle %q: generation: %w", s, err)
	}
	if g == 0 {
		return Nil, fmt.Errorf("parse handle %q: generation must be >= 1", s)
	}
	return Handle{Index: uint32(i), Gen: uint32(g)}, nil
}
