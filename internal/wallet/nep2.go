package wallet

import (
	"bytes"
	"crypto/aes"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

var (
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrInvalidNEP2     = errors.New("invalid NEP-2 key")
)

var nep2Prefix = []byte{0x01, 0x42, 0xe0}

const nep2PayloadSize = 39

// ScryptParams are the key derivation costs stored in a wallet file.
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

func DefaultScryptParams() ScryptParams {
	return ScryptParams{N: 16384, R: 8, P: 8}
}

// NEP2Encrypt protects key with passphrase.
func NEP2Encrypt(key *crypto.PrivateKey, passphrase string, params ScryptParams) (string, error) {
	addrHash := addressHash(key)
	derived, err := deriveKey(passphrase, addrHash, params)
	if err != nil {
		return "", err
	}

	xored := xor(key.Bytes(), derived[:32])
	encrypted, err := aesECB(derived[32:], xored, true)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, nep2PayloadSize)
	payload = append(payload, nep2Prefix...)
	payload = append(payload, addrHash...)
	payload = append(payload, encrypted...)
	return crypto.Base58CheckEncode(payload), nil
}

// NEP2Decrypt recovers the key protected by NEP2Encrypt.
func NEP2Decrypt(nep2, passphrase string, params ScryptParams) (*crypto.PrivateKey, error) {
	payload, err := crypto.Base58CheckDecode(nep2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNEP2, err)
	}
	if len(payload) != nep2PayloadSize || !bytes.Equal(payload[:3], nep2Prefix) {
		return nil, ErrInvalidNEP2
	}
	addrHash := payload[3:7]

	derived, err := deriveKey(passphrase, addrHash, params)
	if err != nil {
		return nil, err
	}
	decrypted, err := aesECB(derived[32:], payload[7:], false)
	if err != nil {
		return nil, err
	}

	key, err := crypto.NewPrivateKeyFromBytes(xor(decrypted, derived[:32]))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	if !bytes.Equal(addressHash(key), addrHash) {
		return nil, ErrWrongPassphrase
	}
	return key, nil
}

func addressHash(key *crypto.PrivateKey) []byte {
	addr := types.ScriptHashOf(script.SingleSigVerification(key.PublicKey())).Address()
	return crypto.Hash256([]byte(addr))[:4]
}

func deriveKey(passphrase string, salt []byte, params ScryptParams) ([]byte, error) {
	pass := norm.NFC.Bytes([]byte(passphrase))
	derived, err := scrypt.Key(pass, salt, params.N, params.R, params.P, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return derived, nil
}

// aesECB runs AES-256 over each 16-byte block independently.
func aesECB(key, data []byte, encrypt bool) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(data)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of the block size", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += block.BlockSize() {
		if encrypt {
			block.Encrypt(out[i:], data[i:])
		} else {
			block.Decrypt(out[i:], data[i:])
		}
	}
	return out, nil
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
