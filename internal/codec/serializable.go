package codec

import "fmt"

type Encodable interface {
	EncodeBinary(w *BinWriter)
}

type Decodable interface {
	DecodeBinary(r *BinReader)
}

// Serializable is implemented by every type with a binary wire form.
type Serializable interface {
	Encodable
	Decodable
}

// ToBytes encodes v into a new byte slice.
func ToBytes(v Encodable) ([]byte, error) {
	w := NewBinWriter()
	v.EncodeBinary(w)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromBytes decodes data into v and fails if any input is left over.
func FromBytes(data []byte, v Decodable) error {
	r := NewBinReader(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%d trailing bytes after decoding", r.Len())
	}
	return nil
}

// VarUintSize returns the encoded size of a variable-length integer.
func VarUintSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// VarBytesSize returns the encoded size of a length-prefixed byte slice.
func VarBytesSize(b []byte) int {
	return VarUintSize(uint64(len(b))) + len(b)
}
