package solana

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidPubkey reports whether s is a base58-encoded 32-byte public key.
func ValidPubkey(s string) bool {
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// IsOnCurve reports whether the address decodes to a point on the ed25519
// curve. Wallet addresses are on-curve; program-derived addresses (bonding
// curves, AMM vaults) are off-curve and cannot sign trades themselves.
func IsOnCurve(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
