package utils

import (
	"crypto/rand"
	"math/big"
)

// AccessCodeLength is the length of room access codes shown to users.
const AccessCodeLength = 6

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // omit easily confused chars

// GenerateAccessCode returns a short uppercase alphanumeric code used to join
// a room. Uniqueness is enforced by the database; callers retry on conflict.
func GenerateAccessCode() (string, error) {
	b := make([]byte, AccessCodeLength)
	for i := 0; i < AccessCodeLength; i++ {
		idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idxBig.Int64()]
	}
	return string(b), nil
}
