package connection

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// CodeLength is the number of characters in a pairing code.
const CodeLength = 6

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateCode returns a random pairing code of CodeLength characters drawn
// from A-Z and 0-9.
func GenerateCode() (string, error) {
	limit := big.NewInt(int64(len(codeAlphabet)))
	var sb strings.Builder
	sb.Grow(CodeLength)
	for range CodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate connection code: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode trims surrounding space and upper-cases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code is a well-formed, normalized pairing code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}
