package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrStringTooLong is returned by WriteFixedString when the value does not fit.
var ErrStringTooLong = errors.New("string exceeds fixed length")

// BinWriter writes little-endian encoded values to an in-memory buffer.
// The first error encountered is kept in Err and all subsequent writes are no-ops.
type BinWriter struct {
	buf bytes.Buffer
	Err error
}

func NewBinWriter() *BinWriter {
	return &BinWriter{}
}

func (w *BinWriter) WriteU8(v uint8) {
	if w.Err != nil {
		return
	}
	w.buf.WriteByte(v)
}

func (w *BinWriter) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

func (w *BinWriter) WriteU16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

func (w *BinWriter) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

func (w *BinWriter) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.WriteBytes(b[:])
}

func (w *BinWriter) WriteI64LE(v int64) {
	w.WriteU64LE(uint64(v))
}

// WriteBytes writes b as is, without a length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	w.buf.Write(b)
}

// WriteVarUint writes a variable-length unsigned integer.
func (w *BinWriter) WriteVarUint(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteU8(uint8(v))
	case v <= 0xffff:
		w.WriteU8(0xfd)
		w.WriteU16LE(uint16(v))
	case v <= 0xffffffff:
		w.WriteU8(0xfe)
		w.WriteU32LE(uint32(v))
	default:
		w.WriteU8(0xff)
		w.WriteU64LE(v)
	}
}

// WriteVarBytes writes b prefixed with its length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

func (w *BinWriter) WriteVarString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteFixedString writes s zero-padded to exactly n bytes.
func (w *BinWriter) WriteFixedString(s string, n int) {
	if len(s) > n {
		w.SetErr(fmt.Errorf("%w: %d > %d", ErrStringTooLong, len(s), n))
		return
	}
	padded := make([]byte, n)
	copy(padded, s)
	w.WriteBytes(padded)
}

// WriteArray writes a length-prefixed list of serializable items.
func WriteArray[T Encodable](w *BinWriter, items []T) {
	w.WriteVarUint(uint64(len(items)))
	for _, item := range items {
		item.EncodeBinary(w)
	}
}

// SetErr records err unless an error was already recorded.
func (w *BinWriter) SetErr(err error) {
	if w.Err == nil {
		w.Err = err
	}
}

func (w *BinWriter) Len() int {
	return w.buf.Len()
}

// Bytes returns the written data. It returns nil if an error occurred.
func (w *BinWriter) Bytes() []byte {
	if w.Err != nil {
		return nil
	}
	return bytes.Clone(w.buf.Bytes())
}

func (w *BinWriter) Reset() {
	w.buf.Reset()
	w.Err = nil
}
