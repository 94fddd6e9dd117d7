package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Commitment binds the server to a secret seed before any wager-affecting
// input is taken. Hash is published at round open; Secret is revealed only
// after the round completes.
type Commitment struct {
	Secret  string
	Visible string
	Hash    string
}

const seedBytes = 32

// NewCommitment draws a fresh secret and visible seed from crypto/rand.
// An entropy failure here is not recoverable by the caller.
func NewCommitment() (Commitment, error) {
	secret, err := randomHex(seedBytes)
	if err != nil {
		return Commitment{}, fmt.Errorf("generate secret seed: %w", err)
	}
	visible, err := randomHex(seedBytes)
	if err != nil {
		return Commitment{}, fmt.Errorf("generate visible seed: %w", err)
	}
	return Commitment{
		Secret:  secret,
		Visible: visible,
		Hash:    SeedHash(secret),
	}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SeedHash is the published one-way commitment to a secret seed.
func SeedHash(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// VerifyCommitment reports whether a revealed secret matches the hash
// published at round open.
func VerifyCommitment(secret, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(SeedHash(secret)), []byte(hash)) == 1
}

// Derive maps (secret, visible, index) to a uniform value in [0, 1).
// It is HMAC-SHA256 keyed by the secret over "visible:index"; the top
// 53 bits of the first 8 digest bytes, read big-endian, are scaled by
// 2^53. Identical inputs yield identical outputs across processes and
// restarts.
func Derive(secret, visible string, index int) float64 {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%d", visible, index)
	sum := mac.Sum(nil)
	return floatFromPrefix(binary.BigEndian.Uint64(sum[:8]))
}

// floatFromPrefix keeps only the 53 bits a float64 mantissa can hold,
// so the quotient is exact and stays strictly below 1 even for the
// maximal prefix. Dividing the full 64-bit prefix by 2^64 rounds up to
// exactly 1.0 for the top 1023 values.
func floatFromPrefix(u uint64) float64 {
	return float64(u>>11) / (1 << 53)
}

// DeriveRange maps a derived value onto the inclusive integer range
// [lo, hi].
func DeriveRange(secret, visible string, index, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo + 1
	return int(Derive(secret, visible, index)*float64(span)) + lo
}
