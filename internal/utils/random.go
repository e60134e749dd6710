package utils

import (
	"crypto/rand"
	"math/big"
)

const reportCodeAlphabet = "1234567890abcdefghijklmnopqrstuvwxyz"

// NewReportCode generates the short human-facing code stamped on every
// report: 8 characters drawn from lowercase letters and digits.
func NewReportCode() string {
	return randomFromAlphabet(reportCodeAlphabet, 8)
}

func randomFromAlphabet(alphabet string, length int) string {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			panic(err)
		}
		b[i] = alphabet[num.Int64()]
	}
	return string(b)
}
