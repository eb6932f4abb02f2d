package lib

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"storefront_server/structs"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("invalid hash format")
	ErrIncompatibleVersion = errors.New("incompatible version of argon2")
)

var DefaultArgonParams = &structs.ArgonParams{
	Memory:  64 * 1024, // KiB
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var b64 = base64.RawStdEncoding

// argonHash is a stored argon2id hash in PHC form: $argon2id$v=19$m=..,t=..,p=..$<salt>$<key>
type argonHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (h argonHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads, b64.EncodeToString(h.salt), b64.EncodeToString(h.key))
}

// derive computes the key for password with h's parameters and salt.
func (h argonHash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
}

func parseArgonHash(encoded string) (argonHash, error) {
	var h argonHash

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return h, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return h, ErrInvalidHash
	}
	if version != argon2.Version {
		return h, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return h, ErrInvalidHash
	}

	var err error
	if h.salt, err = b64.DecodeString(fields[4]); err != nil {
		return h, ErrInvalidHash
	}
	if h.key, err = b64.DecodeString(fields[5]); err != nil || len(h.key) == 0 {
		return h, ErrInvalidHash
	}
	return h, nil
}

// HashPassword hashes password with a fresh random salt.
func HashPassword(password string, p *structs.ArgonParams) (string, error) {
	h := argonHash{
		memory:  p.Memory,
		time:    p.Time,
		threads: p.Threads,
		salt:    make([]byte, p.SaltLen),
		key:     make([]byte, p.KeyLen),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return "", err
	}
	h.key = h.derive(password)
	return h.String(), nil
}

// VerifyPassword checks a plain-text password against an encoded hash in constant time.
func VerifyPassword(password, encodedHash string) (bool, error) {
	h, err := parseArgonHash(encodedHash)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(h.derive(password), h.key) == 1, nil
}

// NeedsRehash reports whether encodedHash was made with weaker parameters than p.
func NeedsRehash(encodedHash string, p *structs.ArgonParams) bool {
	h, err := parseArgonHash(encodedHash)
	if err != nil {
		return true
	}
	return h.memory < p.Memory || h.time < p.Time || uint32(len(h.key)) < p.KeyLen
}
