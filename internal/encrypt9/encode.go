// Package encrypt9 implements the Junos $9$ reversible obfuscation scheme
// used for secrets in device configuration. Encoding chains every output
// character through the one before it, so the salt and random prefix seed
// the whole stream. Only the encode direction is exposed.
package encrypt9

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Magic is the sentinel prefix of every encoded secret.
const Magic = "$9$"

var (
	ErrBadSalt       = errors.New("salt character not in the $9$ alphabet")
	ErrBadSaltLength = errors.New("random prefix length does not match salt")
)

// IsEncoded reports whether a value already carries the $9$ marker.
func IsEncoded(value string) bool {
	return strings.HasPrefix(value, Magic)
}

// Encode obfuscates value with a random salt and random prefix. Encoding an
// empty string yields an empty string, and an already-encoded value is
// returned unchanged.
func Encode(value string) (string, error) {
	salt, err := randChars(1)
	if err != nil {
		return "", err
	}
	return EncodeWithSalt(value, salt[0])
}

// EncodeWithSalt obfuscates value with a fixed salt and a random prefix of
// the salt's required length.
func EncodeWithSalt(value string, salt byte) (string, error) {
	n, ok := RandLen(salt)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadSalt, string(salt))
	}
	prefix, err := randChars(n)
	if err != nil {
		return "", err
	}
	return EncodeWith(value, salt, prefix)
}

// EncodeWith obfuscates value with a fixed salt and random prefix, making
// the output fully deterministic. The prefix length must match the salt's
// family or the call fails with ErrBadSaltLength.
func EncodeWith(value string, salt byte, prefix string) (string, error) {
	if value == "" {
		return "", nil
	}
	if IsEncoded(value) {
		return value, nil
	}

	want, ok := RandLen(salt)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadSalt, string(salt))
	}
	if len(prefix) != want {
		return "", fmt.Errorf("%w: salt %q needs %d random characters, got %d",
			ErrBadSaltLength, string(salt), want, len(prefix))
	}

	var out strings.Builder
	out.WriteString(Magic)
	out.WriteByte(salt)
	out.WriteString(prefix)

	prev := salt
	for pos, r := range []rune(value) {
		prev = gapEncode(&out, r, prev, encodings[pos%len(encodings)])
	}
	return out.String(), nil
}

// gapEncode emits the chained substitution for one input character: the
// character's value is decomposed into mixed-radix digits (most significant
// radix consumed first, digits kept in radix order), then each digit is
// offset from the previous output character through the alphabet. Returns
// the new chain character.
func gapEncode(out *strings.Builder, r rune, prev byte, radix []int) byte {
	v := int(r)
	gaps := make([]int, len(radix))
	for i := len(radix) - 1; i >= 0; i-- {
		gaps[i] = v / radix[i]
		v %= radix[i]
	}

	for _, gap := range gaps {
		idx := (alphaNum[prev] + 1 + gap) % len(alphabet)
		prev = alphabet[idx]
		out.WriteByte(prev)
	}
	return prev
}

// pickChar maps a random byte to an alphabet character. Bytes at or above
// the largest multiple of the alphabet size are rejected, so the modulo
// introduces no bias.
func pickChar(b byte) (byte, bool) {
	limit := byte(256 - 256%len(alphabet))
	if b >= limit {
		return 0, false
	}
	return alphabet[int(b)%len(alphabet)], true
}

// randChars returns n uniformly chosen alphabet characters.
func randChars(n int) (string, error) {
	buf := make([]byte, n)
	one := make([]byte, 1)
	for i := 0; i < n; {
		if _, err := io.ReadFull(rand.Reader, one); err != nil {
			return "", err
		}
		c, ok := pickChar(one[0])
		if !ok {
			continue
		}
		buf[i] = c
		i++
	}
	return string(buf), nil
}
