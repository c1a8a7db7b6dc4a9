package script_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

const (
	defaultPublicKey            = "033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b"
	defaultVerificationScript   = "0c21033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b4156e7b327"
	committeeVerificationScript = "110c21033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b11419ed0dc3a"
)

func defaultKey(t *testing.T) *crypto.PublicKey {
	t.Helper()
	pub, err := crypto.NewPublicKeyFromHex(defaultPublicKey)
	require.NoError(t, err)
	return pub
}

func mustBytes(t *testing.T, b *script.Builder) string {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	return hex.EncodeToString(data)
}

func TestInteropHash(t *testing.T) {
	assert.Equal(t, uint32(0x27b3e756), script.InteropHash(script.SystemCryptoCheckSig))
	assert.Equal(t, uint32(0x3adcd09e), script.InteropHash(script.SystemCryptoCheckMultisig))
}

func TestSingleSigVerification(t *testing.T) {
	s := script.SingleSigVerification(defaultKey(t))
	assert.Equal(t, defaultVerificationScript, hex.EncodeToString(s))
	assert.True(t, script.IsSingleSig(s))

	pub, ok := script.ParseSingleSig(s)
	require.True(t, ok)
	assert.Equal(t, defaultPublicKey, hex.EncodeToString(pub))

	assert.False(t, script.IsSingleSig(s[:39]))
}

func TestMultiSigVerification(t *testing.T) {
	s, err := script.MultiSigVerification(1, []*crypto.PublicKey{defaultKey(t)})
	require.NoError(t, err)
	assert.Equal(t, committeeVerificationScript, hex.EncodeToString(s))
	assert.False(t, script.IsSingleSig(s))
	assert.True(t, script.IsMultiSig(s))

	m, pubs, ok := script.ParseMultiSig(s)
	require.True(t, ok)
	assert.Equal(t, 1, m)
	require.Len(t, pubs, 1)
	assert.Equal(t, defaultPublicKey, hex.EncodeToString(pubs[0]))

	_, _, ok = script.ParseMultiSig(mustDecode(t, defaultVerificationScript))
	assert.False(t, ok)
}

func TestMultiSigSortsKeys(t *testing.T) {
	keys := make([]*crypto.PublicKey, 3)
	for i := range keys {
		priv, err := crypto.NewPrivateKey()
		require.NoError(t, err)
		keys[i] = priv.PublicKey()
	}

	a, err := script.MultiSigVerification(2, keys)
	require.NoError(t, err)
	b, err := script.MultiSigVerification(2, []*crypto.PublicKey{keys[2], keys[0], keys[1]})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	m, pubs, ok := script.ParseMultiSig(a)
	require.True(t, ok)
	assert.Equal(t, 2, m)
	require.Len(t, pubs, 3)
	for i := 1; i < len(pubs); i++ {
		prev, err := crypto.NewPublicKeyFromBytes(pubs[i-1])
		require.NoError(t, err)
		cur, err := crypto.NewPublicKeyFromBytes(pubs[i])
		require.NoError(t, err)
		assert.Negative(t, prev.Cmp(cur))
	}
}

func TestMultiSigInvalid(t *testing.T) {
	pub := defaultKey(t)

	_, err := script.MultiSigVerification(1, nil)
	assert.ErrorIs(t, err, script.ErrInvalidMultiSig)

	_, err = script.MultiSigVerification(0, []*crypto.PublicKey{pub})
	assert.ErrorIs(t, err, script.ErrInvalidMultiSig)

	_, err = script.MultiSigVerification(2, []*crypto.PublicKey{pub})
	assert.ErrorIs(t, err, script.ErrInvalidMultiSig)
}

func TestEmitPushInt(t *testing.T) {
	tests := []struct {
		value    int64
		expected string
	}{
		{-1, "0f"},
		{0, "10"},
		{1, "11"},
		{16, "20"},
		{17, "0011"},
		{-2, "00fe"},
		{127, "007f"},
		{128, "018000"},
		{-129, "017fff"},
		{65536, "0200000100"},
		{100_000_000, "0200e1f505"},
		{1 << 40, "030000000000010000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, mustBytes(t, script.NewBuilder().EmitPushInt64(tt.value)), "value %d", tt.value)
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 300)
	_, err := script.NewBuilder().EmitPushInt(huge).Bytes()
	assert.Error(t, err)
}

func TestEmitPushData(t *testing.T) {
	assert.Equal(t, "0c03010203", mustBytes(t, script.NewBuilder().EmitPushData([]byte{1, 2, 3})))
	assert.Equal(t, "0c00", mustBytes(t, script.NewBuilder().EmitPushData(nil)))

	data, err := script.NewBuilder().EmitPushData(make([]byte, 300)).Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0d, 0x2c, 0x01}, data[:3])
	assert.Len(t, data, 303)

	data, err = script.NewBuilder().EmitPushData(make([]byte, 70000)).Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0e, 0x70, 0x11, 0x01, 0x00}, data[:5])
}

func TestEmitPushParam(t *testing.T) {
	assert.Equal(t, "0b", mustBytes(t, script.NewBuilder().EmitPushParam(types.NewAnyParameter())))
	assert.Equal(t, "08", mustBytes(t, script.NewBuilder().EmitPushParam(types.NewBoolParameter(true))))
	assert.Equal(t, "09", mustBytes(t, script.NewBuilder().EmitPushParam(types.NewBoolParameter(false))))
	assert.Equal(t, "0c026869", mustBytes(t, script.NewBuilder().EmitPushParam(types.NewStringParameter("hi"))))
	assert.Equal(t, "c2", mustBytes(t, script.NewBuilder().EmitPushParam(types.NewArrayParameter())))

	// Arrays are pushed last element first, then counted and packed.
	arr := types.NewArrayParameter(types.NewInt64Parameter(1), types.NewInt64Parameter(2))
	assert.Equal(t, "121112c0", mustBytes(t, script.NewBuilder().EmitPushParam(arr)))

	m := types.NewMapParameter(types.ParameterPair{
		Key:   types.NewStringParameter("a"),
		Value: types.NewInt64Parameter(5),
	})
	assert.Equal(t, "150c016111be", mustBytes(t, script.NewBuilder().EmitPushParam(m)))

	_, err := script.NewBuilder().EmitPushParam(types.ContractParameter{Type: types.IntegerType, Value: "x"}).Bytes()
	assert.Error(t, err)
}

func TestEmitContractCall(t *testing.T) {
	gas, err := types.Uint160DecodeString("d2a4cff31913016155e38e474a2c06d08be276cf")
	require.NoError(t, err)

	s := mustBytes(t, script.NewBuilder().EmitContractCall(gas, "symbol", script.All))
	// NEWARRAY0, PUSH15, "symbol", GAS hash LE, SYSCALL System.Contract.Call
	assert.Equal(t, "c21f0c0673796d626f6c0c14cf76e28bd0062c4a478ee35561011319f3cfa4d241627d5b52", s)
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "PUSH0", script.PUSH0.String())
	assert.Equal(t, "PUSH16", script.PUSH16.String())
	assert.Equal(t, "SYSCALL", script.SYSCALL.String())
	assert.Equal(t, "0xff", script.Opcode(0xff).String())
}

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
