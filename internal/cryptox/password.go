// Package cryptox implements credential hashing for account storage.
// Raw passwords are never persisted; only an argon2id hash in PHC string
// format, with a per-account random salt, is stored.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Memory-hard enough to resist offline brute force
// while keeping interactive logins fast.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func deriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword derives an argon2id hash of password with a fresh random salt
// and encodes it as a PHC-format string suitable for storage.
func HashPassword(password string) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)
	key := deriveKey([]byte(password), salt)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword recomputes the hash of candidate using the salt embedded in
// encoded and compares in constant time. A malformed encoded value yields an
// error; a mismatch yields (false, nil).
func VerifyPassword(encoded string, candidate string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: malformed credential hash", common.ErrorUnauthorized)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	candidateKey := deriveKey([]byte(candidate), salt)
	return subtle.ConstantTimeCompare(key, candidateKey) == 1, nil
}
