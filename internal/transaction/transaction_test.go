package transaction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

var (
	neoHash, _ = types.Uint160DecodeString("ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5")
	gasHash, _ = types.Uint160DecodeString("d2a4cff31913016155e38e474a2c06d08be276cf")
)

const defaultPublicKey = "033a4d051b04b7fc0230d2b1aaedfd5a84be279a5361a7358db665ad7857787f1b"

func groupKey(t *testing.T) *crypto.PublicKey {
	t.Helper()
	pub, err := crypto.NewPublicKeyFromHex(defaultPublicKey)
	require.NoError(t, err)
	return pub
}

func sampleTx(t *testing.T) *transaction.Transaction {
	t.Helper()

	custom := transaction.CalledByEntrySigner(neoHash)
	require.NoError(t, custom.AllowContracts(gasHash))
	require.NoError(t, custom.AllowGroups(groupKey(t)))
	require.NoError(t, custom.AddRules(transaction.WitnessRule{
		Action: transaction.Allow,
		Condition: transaction.AndCondition(
			transaction.CalledByEntryCondition(),
			transaction.NotCondition(transaction.ScriptHashCondition(gasHash)),
		),
	}))

	conflict, err := types.Uint256DecodeString("0x8b2f1b5a3c7e0f4a1d2c3b4a5968778695a4b3c2d1e0f1e2d3c4b5a697887766")
	require.NoError(t, err)

	return &transaction.Transaction{
		Nonce:           0x01020304,
		SystemFee:       9_007_990,
		NetworkFee:      1_230_610,
		ValidUntilBlock: 2_106_392,
		Signers:         []transaction.Signer{transaction.GlobalSigner(gasHash), custom},
		Attributes: []transaction.Attribute{
			transaction.HighPriority(),
			transaction.NotValidBefore(1000),
			transaction.Conflicts(conflict),
			transaction.OracleResponse(7, 0x00, []byte("result")),
		},
		Script: []byte{0x11, 0x40},
		Scripts: []transaction.Witness{
			{InvocationScript: []byte{0x0c, 0x01, 0xaa}, VerificationScript: []byte{0x11}},
			{InvocationScript: []byte{}, VerificationScript: []byte{0x12}},
		},
	}
}

func TestWitnessScope(t *testing.T) {
	assert.Equal(t, "None", transaction.None.String())
	assert.Equal(t, "CalledByEntry, CustomContracts", (transaction.CalledByEntry | transaction.CustomContracts).String())

	scope, err := transaction.ParseWitnessScope("CalledByEntry,CustomGroups")
	require.NoError(t, err)
	assert.Equal(t, transaction.CalledByEntry|transaction.CustomGroups, scope)

	_, err = transaction.ParseWitnessScope("Global, CalledByEntry")
	assert.ErrorIs(t, err, transaction.ErrGlobalScopeCombined)

	_, err = transaction.ParseWitnessScope("Everything")
	assert.Error(t, err)

	data, err := json.Marshal(transaction.WitnessRules | transaction.CalledByEntry)
	require.NoError(t, err)
	assert.Equal(t, `"CalledByEntry, WitnessRules"`, string(data))
}

func TestSignerConstraints(t *testing.T) {
	global := transaction.GlobalSigner(neoHash)
	assert.ErrorIs(t, global.AllowContracts(gasHash), transaction.ErrGlobalScopeCombined)
	assert.ErrorIs(t, global.AllowGroups(groupKey(t)), transaction.ErrGlobalScopeCombined)
	assert.ErrorIs(t, global.AddRules(transaction.WitnessRule{Condition: transaction.BoolCondition(true)}), transaction.ErrGlobalScopeCombined)

	none := transaction.NewSigner(neoHash, transaction.None)
	require.NoError(t, none.AllowContracts(gasHash))
	assert.Equal(t, transaction.CustomContracts, none.Scopes)
	require.NoError(t, none.Validate())

	many := make([]types.Uint160, transaction.MaxSubitems+1)
	s := transaction.CalledByEntrySigner(neoHash)
	assert.ErrorIs(t, s.AllowContracts(many...), transaction.ErrTooManySubitems)

	deep := transaction.NotCondition(transaction.NotCondition(transaction.NotCondition(transaction.BoolCondition(true))))
	assert.ErrorIs(t, s.AddRules(transaction.WitnessRule{Condition: deep}), transaction.ErrConditionTooDeep)
}

func TestTransactionRoundTrip(t *testing.T) {
	tx := sampleTx(t)
	require.NoError(t, tx.Validate())

	data, err := tx.Bytes()
	require.NoError(t, err)

	decoded, err := transaction.FromBytes(data)
	require.NoError(t, err)

	again, err := decoded.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	assert.Equal(t, tx.Nonce, decoded.Nonce)
	assert.Equal(t, tx.Signers[1].Scopes, decoded.Signers[1].Scopes)
	assert.Equal(t, tx.Signers[1].AllowedContracts, decoded.Signers[1].AllowedContracts)
	require.Len(t, decoded.Signers[1].Rules, 1)
	assert.Equal(t, transaction.ConditionAnd, decoded.Signers[1].Rules[0].Condition.Type)
	assert.Equal(t, []byte("result"), decoded.Attributes[3].Result)
	assert.Len(t, decoded.Scripts, 2)

	size, err := tx.Size()
	require.NoError(t, err)
	assert.Equal(t, len(data), size)
}

func TestHashIgnoresWitnesses(t *testing.T) {
	tx := sampleTx(t)
	h1, err := tx.Hash()
	require.NoError(t, err)

	tx.Scripts = nil
	h2, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	tx.Nonce++
	h3, err := tx.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestSignedData(t *testing.T) {
	tx := sampleTx(t)
	data, err := tx.SignedData(0x4e454e)
	require.NoError(t, err)
	require.Len(t, data, 36)
	assert.Equal(t, []byte{0x4e, 0x45, 0x4e, 0x00}, data[:4])

	h, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, h.BytesLE(), data[4:])

	sender, err := tx.Sender()
	require.NoError(t, err)
	assert.Equal(t, gasHash, sender)
}

func TestUnsignedDecode(t *testing.T) {
	tx := sampleTx(t)
	tx.Scripts = nil

	w := codec.NewBinWriter()
	tx.EncodeBinary(w)
	require.NoError(t, w.Err)
	// Drop the empty witness count to get the bare unsigned form.
	raw := w.Bytes()
	raw = raw[:len(raw)-1]

	decoded, err := transaction.FromBytes(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded.Scripts)
}

func TestDecodeRejects(t *testing.T) {
	encode := func(tx *transaction.Transaction) []byte {
		w := codec.NewBinWriter()
		tx.EncodeBinary(w)
		require.NoError(t, w.Err)
		return w.Bytes()
	}

	noSigners := sampleTx(t)
	noSigners.Signers = nil
	noSigners.Scripts = nil
	_, err := transaction.FromBytes(encode(noSigners))
	assert.ErrorIs(t, err, transaction.ErrNoSigners)

	dup := sampleTx(t)
	dup.Signers = []transaction.Signer{transaction.CalledByEntrySigner(neoHash), transaction.CalledByEntrySigner(neoHash)}
	_, err = transaction.FromBytes(encode(dup))
	assert.ErrorIs(t, err, transaction.ErrDuplicateSigner)

	emptyScript := sampleTx(t)
	emptyScript.Script = nil
	_, err = transaction.FromBytes(encode(emptyScript))
	assert.ErrorIs(t, err, transaction.ErrEmptyScript)

	mismatch := sampleTx(t)
	mismatch.Scripts = mismatch.Scripts[:1]
	_, err = transaction.FromBytes(encode(mismatch))
	assert.ErrorIs(t, err, transaction.ErrWitnessCount)

	combined := sampleTx(t)
	combined.Signers[0].Scopes = transaction.Global | transaction.CalledByEntry
	_, err = transaction.FromBytes(encode(combined))
	assert.ErrorIs(t, err, transaction.ErrGlobalScopeCombined)

	_, err = transaction.FromBytes(append(encode(sampleTx(t)), 0x00))
	assert.Error(t, err)
}

func TestConditionNestingOnDecode(t *testing.T) {
	ok := transaction.NotCondition(transaction.NotCondition(transaction.BoolCondition(true)))
	data, err := codec.ToBytes(&ok)
	require.NoError(t, err)
	var decoded transaction.WitnessCondition
	require.NoError(t, codec.FromBytes(data, &decoded))
	assert.Equal(t, 2, decoded.Depth())

	deep := transaction.NotCondition(ok)
	data, err = codec.ToBytes(&deep)
	require.NoError(t, err)
	assert.ErrorIs(t, codec.FromBytes(data, &decoded), transaction.ErrConditionTooDeep)
}

func TestSignerJSON(t *testing.T) {
	s := transaction.CalledByEntrySigner(neoHash)
	require.NoError(t, s.AddRules(transaction.WitnessRule{
		Action:    transaction.Deny,
		Condition: transaction.OrCondition(transaction.GroupCondition(groupKey(t)), transaction.BoolCondition(false)),
	}))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"account":"0xef4073a0f2b305a38ec4050e4d3d28bc40ea63f5",
		"scopes":"CalledByEntry, WitnessRules",
		"rules":[{"action":"Deny","condition":{"type":"Or","expressions":[
			{"type":"Group","group":"`+defaultPublicKey+`"},
			{"type":"Boolean","expression":false}
		]}}]
	}`, string(data))

	var decoded transaction.Signer
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.Scopes, decoded.Scopes)
	require.Len(t, decoded.Rules, 1)
	assert.Equal(t, transaction.Deny, decoded.Rules[0].Action)
	assert.True(t, groupKey(t).Equal(decoded.Rules[0].Condition.Expressions[0].Group))
}
