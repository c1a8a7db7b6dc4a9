package epicchain_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/cmd/epicchain"
	"github.com/epicchainlabs/epicchain-go/internal/wallet"
)

const (
	defaultAddress = "NM7Aky765FG8NhhwtxjXRx7jEL1cnw7PBP"
	defaultWIF     = "L1eV34wPoj9weqhGijdDLtVQzUpWGHszXXpdU9dPuh2nRFFzFa7E"
	defaultNEP2    = "6PYM7jHL4GmS8Aw2iEFpuaHTCUKjhT4mwVqdoozGU6sUE25BjV4ePXDdLz"
)

func walletCmd(path string, args ...string) (string, error) {
	base := []string{"wallet"}
	base = append(base, args...)
	return executeCommand(epicchain.RootCmd, append(base, "-w", path, "--password", "neo")...)
}

func TestWalletLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	output, err := walletCmd(path, "create", "--name", "main")
	require.NoError(t, err)
	created := strings.TrimSpace(output)
	assert.True(t, strings.HasPrefix(created, "N"))

	_, err = walletCmd(path, "create")
	assert.ErrorContains(t, err, "already exists")

	output, err = walletCmd(path, "import", "--wif", defaultWIF, "--label", "imported")
	require.NoError(t, err)
	assert.Equal(t, defaultAddress+"\n", output)

	_, err = walletCmd(path, "import", "--wif", defaultWIF)
	assert.ErrorIs(t, err, wallet.ErrAccountExists)

	output, err = walletCmd(path, "list")
	require.NoError(t, err)
	assert.Equal(t, created+" (default)\n"+defaultAddress+" imported\n", output)

	output, err = walletCmd(path, "export", defaultAddress)
	require.NoError(t, err)
	assert.Equal(t, defaultWIF+"\n", output)

	w, err := wallet.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "main", w.Name)
	require.Len(t, w.Accounts, 2)
	for _, acc := range w.Accounts {
		assert.NotEmpty(t, acc.EncryptedKey)
	}
}

func TestWalletImportNEP2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	_, err := walletCmd(path, "create")
	require.NoError(t, err)

	output, err := walletCmd(path, "import", "--nep2", defaultNEP2)
	require.NoError(t, err)
	assert.Equal(t, defaultAddress+"\n", output)

	_, err = walletCmd(path, "import")
	assert.ErrorContains(t, err, "exactly one of --wif and --nep2 is required")
}

func TestWalletRequiresPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	_, err := executeCommand(epicchain.RootCmd, "wallet", "create", "-w", path)
	assert.ErrorContains(t, err, "missing wallet password")

	_, err = walletCmd(path, "export", defaultAddress)
	assert.ErrorContains(t, err, "failed to read wallet")
}

func TestWalletImportRejectsOtherPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	_, err := walletCmd(path, "create")
	require.NoError(t, err)

	_, err = executeCommand(epicchain.RootCmd, "wallet", "import", "--wif", defaultWIF, "-w", path, "--password", "other")
	assert.ErrorIs(t, err, wallet.ErrPassphraseMismatch)

	w, err := wallet.Open(path)
	require.NoError(t, err)
	assert.Len(t, w.Accounts, 1)
}
