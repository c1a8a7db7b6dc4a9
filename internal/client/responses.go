package client

import (
	"encoding/json"

	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

type Version struct {
	TCPPort   uint16   `json:"tcpport"`
	WSPort    uint16   `json:"wsport,omitempty"`
	Nonce     uint32   `json:"nonce"`
	UserAgent string   `json:"useragent"`
	Protocol  Protocol `json:"protocol"`
}

type Protocol struct {
	Network                     uint32 `json:"network"`
	ValidatorsCount             uint32 `json:"validatorscount"`
	MsPerBlock                  uint32 `json:"msperblock"`
	MaxValidUntilBlockIncrement uint32 `json:"maxvaliduntilblockincrement"`
	MaxTraceableBlocks          uint32 `json:"maxtraceableblocks"`
	AddressVersion              byte   `json:"addressversion"`
	MaxTransactionsPerBlock     uint32 `json:"maxtransactionsperblock"`
	MemoryPoolMaxTransactions   uint32 `json:"memorypoolmaxtransactions"`
	InitialGasDistribution      uint64 `json:"initialgasdistribution"`
}

// Block is a verbose getblock result. Raw keeps the node's JSON untouched.
type Block struct {
	Hash          types.Uint256         `json:"hash"`
	Size          int                   `json:"size"`
	Version       int                   `json:"version"`
	PrevBlockHash types.Uint256         `json:"previousblockhash"`
	MerkleRoot    types.Uint256         `json:"merkleroot"`
	Time          uint64                `json:"time"`
	Nonce         string                `json:"nonce"`
	Index         uint32                `json:"index"`
	Primary       int                   `json:"primary"`
	NextConsensus string                `json:"nextconsensus"`
	Witnesses     []transaction.Witness `json:"witnesses"`
	Transactions  []TransactionResult   `json:"tx"`
	Confirmations uint32                `json:"confirmations"`
	NextBlockHash *types.Uint256        `json:"nextblockhash,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Block(p)
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// TransactionResult is a transaction as reported by the node, either inside a
// block or from getrawtransaction.
type TransactionResult struct {
	Hash            types.Uint256           `json:"hash"`
	Size            int                     `json:"size"`
	Version         uint8                   `json:"version"`
	Nonce           uint32                  `json:"nonce"`
	Sender          string                  `json:"sender"`
	SysFee          string                  `json:"sysfee"`
	NetFee          string                  `json:"netfee"`
	ValidUntilBlock uint32                  `json:"validuntilblock"`
	Signers         []transaction.Signer    `json:"signers"`
	Attributes      []transaction.Attribute `json:"attributes"`
	Script          []byte                  `json:"script"`
	Witnesses       []transaction.Witness   `json:"witnesses"`

	BlockHash     *types.Uint256 `json:"blockhash,omitempty"`
	Confirmations uint32         `json:"confirmations,omitempty"`
	BlockTime     uint64         `json:"blocktime,omitempty"`
	VMState       string         `json:"vmstate,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (t *TransactionResult) UnmarshalJSON(data []byte) error {
	type plain TransactionResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TransactionResult(p)
	t.Raw = append(json.RawMessage(nil), data...)
	return nil
}

type ApplicationLog struct {
	TxID       *types.Uint256 `json:"txid,omitempty"`
	BlockHash  *types.Uint256 `json:"blockhash,omitempty"`
	Executions []Execution    `json:"executions"`
}

type Execution struct {
	Trigger       string               `json:"trigger"`
	VMState       string               `json:"vmstate"`
	Exception     *string              `json:"exception"`
	GasConsumed   string               `json:"gasconsumed"`
	Stack         []types.StackItem    `json:"stack"`
	Notifications []types.Notification `json:"notifications"`
}

// Halted reports whether every execution finished without a fault.
func (l *ApplicationLog) Halted() bool {
	for _, e := range l.Executions {
		if e.VMState != "HALT" {
			return false
		}
	}
	return len(l.Executions) > 0
}

type Nep17Balances struct {
	Address  string         `json:"address"`
	Balances []Nep17Balance `json:"balance"`
}

type Nep17Balance struct {
	AssetHash        types.Uint160 `json:"assethash"`
	Name             string        `json:"name,omitempty"`
	Symbol           string        `json:"symbol,omitempty"`
	Decimals         string        `json:"decimals,omitempty"`
	Amount           string        `json:"amount"`
	LastUpdatedBlock uint32        `json:"lastupdatedblock"`
}

type ValidateAddress struct {
	Address string `json:"address"`
	IsValid bool   `json:"isvalid"`
}

type sendResult struct {
	Hash types.Uint256 `json:"hash"`
}

type networkFeeResult struct {
	NetworkFee json.Number `json:"networkfee"`
}
