package codec_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
)

func TestWriteIntegers(t *testing.T) {
	w := codec.NewBinWriter()
	w.WriteU32LE(12345)
	assert.Equal(t, []byte{0x39, 0x30, 0, 0}, w.Bytes())

	w.Reset()
	w.WriteI64LE(0x1234567890123456)
	assert.Equal(t, []byte{0x56, 0x34, 0x12, 0x90, 0x78, 0x56, 0x34, 0x12}, w.Bytes())

	w.Reset()
	w.WriteI64LE(-1)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, w.Bytes())

	w.Reset()
	w.WriteU16LE(0xffff)
	assert.Equal(t, []byte{0xff, 0xff}, w.Bytes())
}

func TestVarUintBoundaries(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		w := codec.NewBinWriter()
		w.WriteVarUint(tt.value)
		require.NoError(t, w.Err)
		assert.Equal(t, tt.expected, w.Bytes(), "value %#x", tt.value)
		assert.Equal(t, len(tt.expected), codec.VarUintSize(tt.value))

		r := codec.NewBinReader(tt.expected)
		assert.Equal(t, tt.value, r.ReadVarUint())
		require.NoError(t, r.Err)
		assert.Zero(t, r.Len())
	}
}

func TestReadVarUintNonCanonical(t *testing.T) {
	r := codec.NewBinReader([]byte{0xfd, 0x01, 0x00})
	r.ReadVarUint()
	assert.ErrorIs(t, r.Err, codec.ErrNonCanonical)
}

func TestVarString(t *testing.T) {
	w := codec.NewBinWriter()
	w.WriteU8(0x12)
	w.WriteVarString("hello")
	assert.Equal(t, []byte{0x12, 0x05, 'h', 'e', 'l', 'l', 'o'}, w.Bytes())

	r := codec.NewBinReader(w.Bytes())
	assert.Equal(t, uint8(0x12), r.ReadU8())
	assert.Equal(t, "hello", r.ReadVarString(10))
	require.NoError(t, r.Err)
}

func TestReadVarBytesLimit(t *testing.T) {
	w := codec.NewBinWriter()
	w.WriteVarBytes(make([]byte, 20))

	r := codec.NewBinReader(w.Bytes())
	assert.Nil(t, r.ReadVarBytes(10))
	assert.ErrorIs(t, r.Err, codec.ErrTooLarge)
}

func TestReaderStickyError(t *testing.T) {
	r := codec.NewBinReader([]byte{0x01, 0x02})
	assert.Equal(t, uint32(0), r.ReadU32LE())
	assert.ErrorIs(t, r.Err, codec.ErrUnexpectedEOF)

	// Further reads keep the first error and return zero values.
	assert.Equal(t, uint8(0), r.ReadU8())
	assert.ErrorIs(t, r.Err, codec.ErrUnexpectedEOF)
}

func TestWriteFixedString(t *testing.T) {
	w := codec.NewBinWriter()
	w.WriteFixedString("ab", 4)
	assert.Equal(t, []byte{'a', 'b', 0, 0}, w.Bytes())

	w.Reset()
	w.WriteFixedString("abcdef", 4)
	assert.ErrorIs(t, w.Err, codec.ErrStringTooLong)
	assert.Nil(t, w.Bytes())
}

type pair struct {
	A uint8
	B uint16
}

func (p *pair) EncodeBinary(w *codec.BinWriter) {
	w.WriteU8(p.A)
	w.WriteU16LE(p.B)
}

func (p *pair) DecodeBinary(r *codec.BinReader) {
	p.A = r.ReadU8()
	p.B = r.ReadU16LE()
}

func TestArrayRoundTrip(t *testing.T) {
	items := []*pair{{A: 1, B: 2}, {A: 3, B: 0x0405}}

	w := codec.NewBinWriter()
	codec.WriteArray(w, items)
	require.NoError(t, w.Err)
	assert.Equal(t, []byte{0x02, 0x01, 0x02, 0x00, 0x03, 0x05, 0x04}, w.Bytes())

	r := codec.NewBinReader(w.Bytes())
	decoded := codec.ReadArray(r, 16, func() *pair { return new(pair) })
	require.NoError(t, r.Err)
	assert.Equal(t, items, decoded)

	r = codec.NewBinReader(w.Bytes())
	codec.ReadArray(r, 1, func() *pair { return new(pair) })
	assert.ErrorIs(t, r.Err, codec.ErrTooLarge)
}

func TestFromBytesTrailingData(t *testing.T) {
	var p pair
	err := codec.FromBytes([]byte{0x01, 0x02, 0x00, 0xff}, &p)
	assert.ErrorContains(t, err, "1 trailing bytes")

	err = codec.FromBytes([]byte{0x01, 0x02, 0x00}, &p)
	require.NoError(t, err)
	assert.Equal(t, pair{A: 1, B: 2}, p)
}

func TestReadArrayTruncatedLength(t *testing.T) {
	// Claims 0x00ffffff items but carries a single one.
	r := codec.NewBinReader([]byte{0xfe, 0xff, 0xff, 0xff, 0x00, 0x01, 0x02, 0x00})

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	items := codec.ReadArray(r, codec.MaxArraySize, func() *pair { return new(pair) })
	runtime.ReadMemStats(&after)

	assert.Nil(t, items)
	assert.ErrorIs(t, r.Err, codec.ErrUnexpectedEOF)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}
