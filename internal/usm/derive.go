// Package usm derives SNMPv3 USM key material the way Junos does: a
// password-to-key expansion followed by engine-id localization (RFC 3414),
// with the privacy key truncated to 16 bytes for SHA-1.
package usm

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// expandLen is the total number of passphrase bytes hashed during the
// password-to-key step (1 MiB).
const expandLen = 1 << 20

// sha1PrivLen is the privacy key length for SHA-1 derivations.
const sha1PrivLen = 16

var (
	ErrInvalidEngineID = errors.New("invalid engine id")
	ErrEmptyEngineID   = errors.New("engine id is empty")
)

// Keys holds localized SNMPv3 key material for a single engine.
type Keys struct {
	Auth []byte
	Priv []byte
}

// AuthHex returns the authentication key as a lowercase hex string. This is
// the textual form the encrypt9 encoder consumes.
func (k Keys) AuthHex() string { return hex.EncodeToString(k.Auth) }

// PrivHex returns the privacy key as a lowercase hex string.
func (k Keys) PrivHex() string { return hex.EncodeToString(k.Priv) }

// CleanEngineID strips ASCII whitespace from an engine-id string and decodes
// it as hex. Device output typically renders engine-ids as space-separated
// octets ("80 00 0a 4c ...").
func CleanEngineID(engineID string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, engineID)

	if cleaned == "" {
		return nil, ErrEmptyEngineID
	}

	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEngineID, engineID)
	}
	return raw, nil
}

// expand repeats the passphrase until it reaches exactly expandLen bytes,
// truncating the final repetition. An empty passphrase expands to nothing,
// which keeps derivation deterministic rather than undefined.
func expand(passphrase []byte) []byte {
	if len(passphrase) == 0 {
		return nil
	}
	out := make([]byte, 0, expandLen+len(passphrase))
	for len(out) < expandLen {
		out = append(out, passphrase...)
	}
	return out[:expandLen]
}

// ku computes the password-to-key digest: one hash over the expanded
// passphrase.
func ku(passphrase string, newHash func() hash.Hash) []byte {
	h := newHash()
	h.Write(expand([]byte(passphrase)))
	return h.Sum(nil)
}

// DeriveKeys localizes a passphrase to an engine, producing authentication
// and privacy keys. The engine id may contain whitespace-separated hex
// octets. For SHA-1 the privacy key is the localized digest truncated to 16
// bytes; other hash functions return the full digest for both keys.
//
// The function is pure: same inputs always yield byte-identical keys, and it
// is safe to call concurrently.
func DeriveKeys(engineID, passphrase string, newHash func() hash.Hash) (Keys, error) {
	engine, err := CleanEngineID(engineID)
	if err != nil {
		return Keys{}, err
	}

	k := ku(passphrase, newHash)

	// Localization message: Ku || engineID || Ku.
	h := newHash()
	h.Write(k)
	h.Write(engine)
	h.Write(k)
	localized := h.Sum(nil)

	keys := Keys{Auth: localized}
	if newHash().Size() == sha1.Size {
		keys.Priv = localized[:sha1PrivLen]
	} else {
		keys.Priv = localized
	}
	return keys, nil
}

// DeriveSHA1 derives SHA-1 keys, the only algorithm Junos accepts for this
// workflow.
func DeriveSHA1(engineID, passphrase string) (Keys, error) {
	return DeriveKeys(engineID, passphrase, sha1.New)
}
