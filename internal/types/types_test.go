package types_test

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

const (
	defaultVerificationScript   = "0c21033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b4156e7b327"
	defaultScriptHash           = "69ecca587293047be4c59159bf8bc399985c160d"
	defaultAddress              = "NM7Aky765FG8NhhwtxjXRx7jEL1cnw7PBP"
	committeeVerificationScript = "110c21033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b11419ed0dc3a"
	committeeScriptHash         = "05859de95ccbbd5668e0f055b208273634d4657f"
	committeeAddress            = "NXXazKH39yNFWWZF5MJ8tEN98VYHwzn7g3"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestScriptHashAndAddress(t *testing.T) {
	tests := []struct {
		script  string
		hash    string
		address string
	}{
		{defaultVerificationScript, defaultScriptHash, defaultAddress},
		{committeeVerificationScript, committeeScriptHash, committeeAddress},
	}

	for _, tt := range tests {
		hash := types.ScriptHashOf(mustHex(t, tt.script))
		assert.Equal(t, tt.hash, hash.String())
		assert.Equal(t, tt.address, hash.Address())

		decoded, err := types.AddressToScriptHash(tt.address)
		require.NoError(t, err)
		assert.Equal(t, hash, decoded)
	}
}

func TestAddressToScriptHashInvalid(t *testing.T) {
	_, err := types.AddressToScriptHash("Invalid_Address")
	assert.ErrorIs(t, err, types.ErrInvalidAddress)

	// Correct checksum, wrong version byte.
	payload := append([]byte{0x17}, make([]byte, 20)...)
	_, err = types.AddressToScriptHash(crypto.Base58CheckEncode(payload))
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}

func TestParseAccount(t *testing.T) {
	fromAddress, err := types.ParseAccount(defaultAddress)
	require.NoError(t, err)

	fromHash, err := types.ParseAccount("0x" + defaultScriptHash)
	require.NoError(t, err)
	assert.Equal(t, fromAddress, fromHash)

	_, err = types.ParseAccount("nope")
	assert.Error(t, err)
}

func TestUint160Encoding(t *testing.T) {
	h, err := types.Uint160DecodeString(defaultScriptHash)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, defaultScriptHash), h.BytesBE())
	assert.Equal(t, "0d165c9899c38bbf5991c5e47b04937258caec69", h.StringLE())

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"0x`+defaultScriptHash+`"`, string(data))

	var decoded types.Uint160
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)

	_, err = types.Uint160DecodeString("0x1234")
	assert.Error(t, err)
}

func TestUint160Less(t *testing.T) {
	a, err := types.Uint160DecodeString("0100000000000000000000000000000000000000")
	require.NoError(t, err)
	b, err := types.Uint160DecodeString("0000000000000000000000000000000000000002")
	require.NoError(t, err)
	assert.True(t, b.Less(a))
	assert.False(t, a.Less(b))
	assert.False(t, a.Less(a))
}

func TestUint256Encoding(t *testing.T) {
	s := "0x8b2f1b5a3c7e0f4a1d2c3b4a5968778695a4b3c2d1e0f1e2d3c4b5a697887766"
	h, err := types.Uint256DecodeString(s)
	require.NoError(t, err)
	assert.Equal(t, s[2:], h.String())
	assert.False(t, h.IsZero())

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"`+s+`"`, string(data))
}

func TestIntBytesRoundTrip(t *testing.T) {
	tests := []struct {
		value int64
		le    string
	}{
		{0, ""},
		{1, "01"},
		{-1, "ff"},
		{127, "7f"},
		{128, "8000"},
		{-128, "80"},
		{-129, "7fff"},
		{255, "ff00"},
		{256, "0001"},
		{-256, "00ff"},
		{1_000_000, "40420f"},
	}

	for _, tt := range tests {
		n := big.NewInt(tt.value)
		assert.Equal(t, tt.le, hex.EncodeToString(types.IntToBytes(n)), "value %d", tt.value)
		assert.Equal(t, 0, n.Cmp(types.BytesToInt(mustHex(t, tt.le))), "value %d", tt.value)
	}
}

func TestContractParameterJSON(t *testing.T) {
	hash, err := types.Uint160DecodeString(defaultScriptHash)
	require.NoError(t, err)

	param := types.NewArrayParameter(
		types.NewHash160Parameter(hash),
		types.NewInt64Parameter(42),
		types.NewByteArrayParameter([]byte{1, 2, 3}),
		types.NewStringParameter("hello"),
		types.NewBoolParameter(true),
		types.NewAnyParameter(),
		types.NewMapParameter(types.ParameterPair{
			Key:   types.NewStringParameter("k"),
			Value: types.NewInt64Parameter(-7),
		}),
	)

	data, err := json.Marshal(param)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Array","value":[
		{"type":"Hash160","value":"0x`+defaultScriptHash+`"},
		{"type":"Integer","value":"42"},
		{"type":"ByteArray","value":"AQID"},
		{"type":"String","value":"hello"},
		{"type":"Boolean","value":true},
		{"type":"Any"},
		{"type":"Map","value":[{"key":{"type":"String","value":"k"},"value":{"type":"Integer","value":"-7"}}]}
	]}`, string(data))

	var decoded types.ContractParameter
	require.NoError(t, json.Unmarshal(data, &decoded))
	items, ok := decoded.Value.([]types.ContractParameter)
	require.True(t, ok)
	require.Len(t, items, 7)
	assert.Equal(t, hash, items[0].Value)
	assert.Equal(t, 0, big.NewInt(42).Cmp(items[1].Value.(*big.Int)))
	assert.Equal(t, []byte{1, 2, 3}, items[2].Value)

	_, err = json.Marshal(types.ContractParameter{Type: types.IntegerType, Value: "nope"})
	assert.Error(t, err)
}

func TestEmptyArrayParameterJSON(t *testing.T) {
	data, err := json.Marshal(types.NewArrayParameter())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Array","value":[]}`, string(data))

	data, err = json.Marshal(types.NewArrayParameter(types.NewArrayParameter()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Array","value":[{"type":"Array","value":[]}]}`, string(data))

	_, err = json.Marshal(types.ContractParameter{Type: types.ArrayType, Value: "x"})
	assert.ErrorContains(t, err, "array parameter holds string")
}

func TestStackItemAccessors(t *testing.T) {
	var stack []types.StackItem
	err := json.Unmarshal([]byte(`[
		{"type":"Integer","value":"100000000"},
		{"type":"ByteString","value":"R0FT"},
		{"type":"Boolean","value":true},
		{"type":"Array","value":[{"type":"Integer","value":"1"},{"type":"Any"}]},
		{"type":"Map","value":[{"key":{"type":"ByteString","value":"YQ=="},"value":{"type":"Integer","value":"2"}}]}
	]`), &stack)
	require.NoError(t, err)

	n, err := stack[0].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(100000000), n.Int64())

	s, err := stack[1].Text()
	require.NoError(t, err)
	assert.Equal(t, "GAS", s)

	b, err := stack[2].Bool()
	require.NoError(t, err)
	assert.True(t, b)

	items, err := stack[3].Array()
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, types.AnyItem, items[1].Type)

	entries, err := stack[4].Map()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	key, err := entries[0].Key.Text()
	require.NoError(t, err)
	assert.Equal(t, "a", key)

	_, err = stack[3].Int()
	assert.ErrorIs(t, err, types.ErrWrongItemType)
}

func TestInvocationResult(t *testing.T) {
	var res types.InvocationResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"script":"EMAfDAhkZWNpbWFscw==",
		"state":"HALT",
		"gasconsumed":"984060",
		"exception":null,
		"stack":[{"type":"Integer","value":"8"}]
	}`), &res))
	assert.False(t, res.HasFault())
	gas, err := res.GasConsumedInt()
	require.NoError(t, err)
	assert.Equal(t, int64(984060), gas)

	first, err := res.First()
	require.NoError(t, err)
	assert.Equal(t, types.IntegerItem, first.Type)

	exc := "boom"
	faulted := types.InvocationResult{State: "FAULT", Exception: &exc}
	assert.True(t, faulted.HasFault())
	_, err = faulted.First()
	assert.ErrorContains(t, err, "boom")
}
