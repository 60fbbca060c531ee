// Package token mints the opaque per-service credentials handed out to
// conda-store consumers. Tokens are random alphanumeric strings; callers
// never store them in the clear but through Render, which returns the
// base64 form that appears in the tokens Secret and in the outputs.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	humane "github.com/sierrasoftworks/humane-errors-go"
)

// DefaultLength is the number of characters in a freshly minted token
// when the CondaStore spec does not override it.
const DefaultLength = 32

// alphabet matches the character set used for generated service
// passwords: upper, lower, digits. No specials, so tokens survive
// shell quoting and URL embedding untouched.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// New returns a cryptographically random token of the given length.
// A non-positive length falls back to DefaultLength.
func New(length int) (string, humane.Error) {
	if length <= 0 {
		length = DefaultLength
	}

	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", humane.Wrap(err, "failed to generate service token",
				"the operating system's entropy source is unavailable",
			)
		}
		buf[i] = alphabet[n.Int64()]
	}

	return string(buf), nil
}

// Render encodes a raw token the way it is published: standard base64.
func Render(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Reveal decodes a rendered token back to its raw form.
func Reveal(rendered string) (string, humane.Error) {
	raw, err := base64.StdEncoding.DecodeString(rendered)
	if err != nil {
		return "", humane.Wrap(err, "failed to decode service token",
			"the value is not valid base64; the tokens Secret may have been edited by hand",
		)
	}
	return string(raw), nil
}
