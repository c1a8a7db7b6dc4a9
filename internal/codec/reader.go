package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxArraySize bounds the number of elements accepted by ReadArray.
const MaxArraySize = 0x1000000

// maxArrayPrealloc caps the capacity reserved from an unverified length prefix.
const maxArrayPrealloc = 16

var (
	ErrUnexpectedEOF = errors.New("unexpected end of data")
	ErrTooLarge      = errors.New("length exceeds limit")
	ErrNonCanonical  = errors.New("non-canonical variable integer")
)

// BinReader reads little-endian encoded values from a byte slice.
// Like BinWriter, it keeps the first error and stops reading after it.
type BinReader struct {
	data []byte
	pos  int
	Err  error
}

func NewBinReader(data []byte) *BinReader {
	return &BinReader{data: data}
}

// Len returns the number of unread bytes.
func (r *BinReader) Len() int {
	return len(r.data) - r.pos
}

func (r *BinReader) SetErr(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

func (r *BinReader) next(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n < 0 || r.Len() < n {
		r.Err = fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, r.Len())
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *BinReader) ReadU8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *BinReader) ReadBool() bool {
	return r.ReadU8() != 0
}

func (r *BinReader) ReadU16LE() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *BinReader) ReadU32LE() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *BinReader) ReadU64LE() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *BinReader) ReadI64LE() int64 {
	return int64(r.ReadU64LE())
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (r *BinReader) ReadBytes(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadVarUint reads a variable-length unsigned integer, rejecting
// encodings that use more bytes than necessary.
func (r *BinReader) ReadVarUint() uint64 {
	prefix := r.ReadU8()
	if r.Err != nil {
		return 0
	}
	var v uint64
	switch prefix {
	case 0xfd:
		v = uint64(r.ReadU16LE())
		if r.Err == nil && v < 0xfd {
			r.SetErr(ErrNonCanonical)
		}
	case 0xfe:
		v = uint64(r.ReadU32LE())
		if r.Err == nil && v <= 0xffff {
			r.SetErr(ErrNonCanonical)
		}
	case 0xff:
		v = r.ReadU64LE()
		if r.Err == nil && v <= 0xffffffff {
			r.SetErr(ErrNonCanonical)
		}
	default:
		v = uint64(prefix)
	}
	if r.Err != nil {
		return 0
	}
	return v
}

// ReadVarBytes reads a length-prefixed byte slice no longer than max.
func (r *BinReader) ReadVarBytes(max int) []byte {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(max) {
		r.SetErr(fmt.Errorf("%w: %d > %d", ErrTooLarge, n, max))
		return nil
	}
	return r.ReadBytes(int(n))
}

func (r *BinReader) ReadVarString(max int) string {
	return string(r.ReadVarBytes(max))
}

// ReadArray reads a length-prefixed list of at most max items using newItem
// to allocate every element.
func ReadArray[T Decodable](r *BinReader, max int, newItem func() T) []T {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(max) {
		r.SetErr(fmt.Errorf("%w: %d items > %d", ErrTooLarge, n, max))
		return nil
	}
	items := make([]T, 0, min(n, maxArrayPrealloc))
	for i := uint64(0); i < n; i++ {
		item := newItem()
		item.DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
		items = append(items, item)
	}
	return items
}
