package helpers

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomChars(n int) string {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[src.Intn(len(letterBytes))]
	}
	return string(b)
}

// GenerateReferralCode builds the short code handed to influencers.
func GenerateReferralCode() string {
	return "pb" + randomChars(6)
}

func NewRefID() string {
	return strings.ToLower(uuid.New().String())
}
