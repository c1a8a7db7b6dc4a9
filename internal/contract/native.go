package contract

import "github.com/epicchainlabs/epicchain-go/internal/types"

// Script hashes of the native contracts, big-endian hex.
const (
	NeoTokenHash           = "ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5"
	GasTokenHash           = "d2a4cff31913016155e38e474a2c06d08be276cf"
	PolicyHash             = "cc5e4edd9f5f8dba8bb65734541df7a1c081c67b"
	ContractManagementHash = "fffdc93764dbaddd97c48f252a53ea4643faa3fd"
	RoleManagementHash     = "49cf4e5378ffcd4dec034fd98a174c5491e395e2"
	LedgerHash             = "da65b600f7124ce6c79950c1772a36403104f2be"
	OracleHash             = "fe924b7cfe89ddd271abaf7210a80a7e11178758"
	StdLibHash             = "acce6fd80d44e1796aa0c2c625e9e4e0ce39efc0"
	CryptoLibHash          = "726cb6e0cd8628a1350a611384688911ab75f51b"
)

var (
	NeoToken           = mustHash(NeoTokenHash)
	GasToken           = mustHash(GasTokenHash)
	Policy             = mustHash(PolicyHash)
	ContractManagement = mustHash(ContractManagementHash)
	RoleManagement     = mustHash(RoleManagementHash)
	Ledger             = mustHash(LedgerHash)
	Oracle             = mustHash(OracleHash)
	StdLib             = mustHash(StdLibHash)
	CryptoLib          = mustHash(CryptoLibHash)
)

// Natives maps native contract names to their hashes.
var Natives = map[string]types.Uint160{
	"NeoToken":           NeoToken,
	"GasToken":           GasToken,
	"PolicyContract":     Policy,
	"ContractManagement": ContractManagement,
	"RoleManagement":     RoleManagement,
	"LedgerContract":     Ledger,
	"OracleContract":     Oracle,
	"StdLib":             StdLib,
	"CryptoLib":          CryptoLib,
}

func mustHash(s string) types.Uint160 {
	h, err := types.Uint160DecodeString(s)
	if err != nil {
		panic(err)
	}
	return h
}
