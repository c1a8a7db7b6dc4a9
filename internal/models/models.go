package models

// Block represents a blockchain block. Data holds the verbose block JSON.
type Block struct {
	ID      uint64
	Hash    string
	Time    uint64
	TxCount int
	Data    []byte
}

// Transaction represents a blockchain transaction. Data holds the verbose
// transaction JSON and, when fetched, its application log.
type Transaction struct {
	Hash       string
	BlockID    uint64
	Sender     string
	SystemFee  int64
	NetworkFee int64
	VMState    string
	Data       []byte
}
