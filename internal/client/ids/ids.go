// Package ids implements the identifier codec: the boundary between the
// in-memory 64-bit identifier type and its wire form, a base-10 string
// inside JSON bodies and path segments.
//
// Identifiers never pass through float64. ID marshals to a JSON string and
// refuses to unmarshal from a bare JSON number, so a value that lost
// precision somewhere upstream is reported rather than silently accepted.
package ids

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMalformedID is returned when a string does not hold a base-10 int64.
	ErrMalformedID = errors.New("malformed identifier")

	// ErrAmbiguousNumber is returned when an identifier arrives as a bare
	// JSON number instead of a decimal string.
	ErrAmbiguousNumber = errors.New("identifier encoded as a JSON number")
)

// ID is a server-assigned 64-bit identifier. Zero and negative values are
// legal and round-trip exactly.
type ID int64

// Parse converts a base-10 string into an ID.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return ID(v), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the base-10 form used on the wire.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON writes the identifier as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON accepts only a JSON string holding a base-10 integer.
// JSON null leaves the value untouched, matching encoding/json conventions.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) == 0 || b[0] != '"' {
		return fmt.Errorf("%w: %s", ErrAmbiguousNumber, b)
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedID, b)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// NullID is an optional identifier. On the wire an invalid NullID is null,
// which for an entry's folder means "unfiled".
type NullID struct {
	ID    ID
	Valid bool
}

// Some wraps id as a present NullID.
func Some(id ID) NullID {
	return NullID{ID: id, Valid: true}
}

// FromPtr converts an optional pointer into a NullID.
func FromPtr(p *ID) NullID {
	if p == nil {
		return NullID{}
	}
	return Some(*p)
}

// Ptr returns nil for an absent identifier.
func (n NullID) Ptr() *ID {
	if !n.Valid {
		return nil
	}
	id := n.ID
	return &id
}

func (n NullID) String() string {
	if !n.Valid {
		return "null"
	}
	return n.ID.String()
}

func (n NullID) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.ID.MarshalJSON()
}

func (n *NullID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = NullID{}
		return nil
	}
	var id ID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	*n = Some(id)
	return nil
}
