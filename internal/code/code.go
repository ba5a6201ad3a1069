package code

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	length  = 7
)

var maxIdx = big.NewInt(int64(len(charset)))

// Custom codes may also use dash and underscore; generated ones never do.
var customRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// Generate returns a random 7-character Base62 code.
func Generate() (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

// ValidCustom reports whether a caller-supplied code is acceptable:
// 3 to 32 characters from [A-Za-z0-9_-].
func ValidCustom(c string) bool {
	return customRe.MatchString(c)
}
