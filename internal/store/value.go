package store

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies how a scalar's bytes are interpreted.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindUint16
	KindUint64
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindUint16:
		return "u16"
	case KindUint64:
		return "u64"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Scalar is the set of value types a container can hold under a key.
type Scalar interface {
	string | uint16 | uint64 | bool
}

func encode[T Scalar](v T) (Kind, []byte) {
	switch x := any(v).(type) {
	case string:
		return KindString, []byte(x)
	case uint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, x)
		return KindUint16, b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, x)
		return KindUint64, b
	case bool:
		if x {
			return KindBool, []byte{1}
		}
		return KindBool, []byte{0}
	}
	panic("unreachable")
}

func decode[T Scalar](kind Kind, b []byte) (T, error) {
	var zero T
	want := kindOf[T]()
	if kind != want {
		return zero, fmt.Errorf("stored %s, requested %s: %w", kind, want, ErrTypeMismatch)
	}

	var out any
	switch want {
	case KindString:
		out = string(b)
	case KindUint16:
		if len(b) != 2 {
			return zero, fmt.Errorf("u16 of %d bytes: %w", len(b), ErrTypeMismatch)
		}
		out = binary.BigEndian.Uint16(b)
	case KindUint64:
		if len(b) != 8 {
			return zero, fmt.Errorf("u64 of %d bytes: %w", len(b), ErrTypeMismatch)
		}
		out = binary.BigEndian.Uint64(b)
	case KindBool:
		if len(b) != 1 {
			return zero, fmt.Errorf("bool of %d bytes: %w", len(b), ErrTypeMismatch)
		}
		out = b[0] != 0
	}
	return out.(T), nil
}

func kindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case string:
		return KindString
	case uint16:
		return KindUint16
	case uint64:
		return KindUint64
	default:
		return KindBool
	}
}
