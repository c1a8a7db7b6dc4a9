package epicchain_test

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/cmd/epicchain"
	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/contract"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/testutil"
	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
	"github.com/epicchainlabs/epicchain-go/internal/wallet"
)

const (
	recipient  = "NXXazKH39yNFWWZF5MJ8tEN98VYHwzn7g3"
	sentTxHash = "0x8b2f1b5a3c7e0f4a1d2c3b4a5968778695a4b3c2d1e0f1e2d3c4b5a697887766"
	magic      = 0x4e454e
)

// transferWallet writes a wallet holding the default test key.
func transferWallet(t *testing.T) string {
	t.Helper()
	key, err := crypto.NewPrivateKeyFromWIF(defaultWIF)
	require.NoError(t, err)

	w := wallet.New("test")
	w.Scrypt = wallet.ScryptParams{N: 256, R: 1, P: 1}
	require.NoError(t, w.AddAccount(wallet.NewAccountFromPrivateKey(key)))
	require.NoError(t, w.EncryptAll("pw"))

	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, w.Save(path))
	return path
}

// transferNode answers every call made while building and sending a transfer.
// The sent transaction is stored in sent.
func transferNode(t *testing.T, sent **transaction.Transaction) *testutil.MockRPCServer {
	t.Helper()
	srv := testutil.NewMockRPCServer(t)
	handleContracts(srv)
	srv.HandleResult("getblockcount", 1000)
	srv.HandleResult("invokescript", halt(map[string]any{"type": "Boolean", "value": true}))
	srv.HandleResult("calculatenetworkfee", map[string]any{"networkfee": "1230610"})
	srv.HandleResult("getversion", map[string]any{
		"tcpport":   10333,
		"nonce":     1,
		"useragent": "/EpicChain:1.0.0/",
		"protocol":  map[string]any{"network": magic, "msperblock": 15000},
	})
	srv.Handle("sendrawtransaction", func(params []json.RawMessage) (any, *client.RPCError) {
		var raw string
		_ = json.Unmarshal(params[0], &raw)
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, &client.RPCError{Code: -500, Message: err.Error()}
		}
		tx, err := transaction.FromBytes(data)
		if err != nil {
			return nil, &client.RPCError{Code: -500, Message: err.Error()}
		}
		*sent = tx
		return map[string]any{"hash": sentTxHash}, nil
	})
	return srv
}

func transfer(t *testing.T, srv *testutil.MockRPCServer, path string, args ...string) (string, error) {
	t.Helper()
	base := []string{"transfer", "--rpc", srv.URL, "--rpc-retries", "0", "-w", path, "--password", "pw"}
	return executeCommand(epicchain.RootCmd, append(base, args...)...)
}

func TestTransfer(t *testing.T) {
	var sent *transaction.Transaction
	srv := transferNode(t, &sent)
	path := transferWallet(t)

	output, err := transfer(t, srv, path, "--to", recipient, "--amount", "1.5", "--sysfee", "10")
	require.NoError(t, err)
	assert.Equal(t, sentTxHash+"\n", output)
	require.NotNil(t, sent)

	from, err := types.AddressToScriptHash(defaultAddress)
	require.NoError(t, err)
	to, err := types.AddressToScriptHash(recipient)
	require.NoError(t, err)
	expected, err := contract.NewFungibleToken(contract.GasToken, nil).TransferScript(from, to, big.NewInt(150000000), nil)
	require.NoError(t, err)

	assert.Equal(t, expected, sent.Script)
	assert.Equal(t, int64(997780+10), sent.SystemFee)
	assert.Equal(t, int64(1230610), sent.NetworkFee)
	assert.Equal(t, uint32(1000+transaction.MaxValidUntilBlockIncrement-1), sent.ValidUntilBlock)
	require.Len(t, sent.Signers, 1)
	assert.Equal(t, from, sent.Signers[0].Account)
	assert.Equal(t, transaction.CalledByEntry, sent.Signers[0].Scopes)
	require.Len(t, sent.Scripts, 1)

	// The witness signs the network magic and transaction hash.
	data, err := sent.SignedData(magic)
	require.NoError(t, err)
	key, err := crypto.NewPrivateKeyFromWIF(defaultWIF)
	require.NoError(t, err)
	sig := sent.Scripts[0].InvocationScript[2:]
	assert.True(t, key.PublicKey().Verify(sig, data))
}

func TestTransferWait(t *testing.T) {
	defer epicchain.SetApplicationLogPollInterval(10 * time.Millisecond)()

	var sent *transaction.Transaction
	srv := transferNode(t, &sent)
	path := transferWallet(t)

	state := "HALT"
	srv.Handle("getapplicationlog", func([]json.RawMessage) (any, *client.RPCError) {
		if srv.Calls("getapplicationlog") < 2 {
			return nil, &client.RPCError{Code: client.UnknownTransactionCode, Message: "Unknown transaction"}
		}
		exception := any(nil)
		if state == "FAULT" {
			exception = "insufficient funds"
		}
		return map[string]any{
			"txid": sentTxHash,
			"executions": []any{map[string]any{
				"trigger":       "Application",
				"vmstate":       state,
				"exception":     exception,
				"gasconsumed":   "997780",
				"stack":         []any{},
				"notifications": []any{},
			}},
		}, nil
	})

	output, err := transfer(t, srv, path, "--to", recipient, "--amount", "1", "--wait")
	require.NoError(t, err)
	assert.Equal(t, sentTxHash+"\nHALT\n", output)

	state = "FAULT"
	_, err = transfer(t, srv, path, "--to", recipient, "--amount", "1", "--wait")
	assert.ErrorContains(t, err, "faulted: insufficient funds")
}

func TestTransferValidation(t *testing.T) {
	var sent *transaction.Transaction
	srv := transferNode(t, &sent)
	path := transferWallet(t)

	_, err := transfer(t, srv, path, "--to", "nowhere", "--amount", "1")
	assert.ErrorContains(t, err, "invalid recipient")

	_, err = transfer(t, srv, path, "--to", recipient, "--amount", "0.000000001")
	assert.ErrorIs(t, err, contract.ErrInvalidAmount)

	_, err = executeCommand(epicchain.RootCmd, "transfer", "--rpc", srv.URL, "-w", path, "--password", "wrong",
		"--to", recipient, "--amount", "1")
	assert.ErrorIs(t, err, wallet.ErrWrongPassphrase)

	_, err = transfer(t, srv, path, "--to", recipient, "--amount", "1", "--from", recipient)
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)

	assert.Nil(t, sent)
}
