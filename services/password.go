package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	passwordLen  = 10
	symbols      = "!@#$%&*"
	upperLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerLetters = "abcdefghijkmnopqrstuvwxyz"
	digits       = "23456789"
)

var passwordClasses = []string{upperLetters, lowerLetters, digits, symbols}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GenerateSecurePassword returns a password with at least one character from each class.
// Look-alike characters (0/O, 1/l/I) are left out so admins can type it from a chat message.
func GenerateSecurePassword() (string, error) {
	all := strings.Join(passwordClasses, "")
	out := make([]byte, passwordLen)
	for i := range out {
		src := all
		if i < len(passwordClasses) {
			src = passwordClasses[i]
		}
		j, err := randIndex(len(src))
		if err != nil {
			return "", err
		}
		out[i] = src[j]
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
