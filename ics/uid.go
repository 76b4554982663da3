package ics

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateUID returns a new event UID of the form
// {epochMillis}-{9 random base36 chars}@caldavclient. Collisions only matter
// within a single calendar collection, so millisecond timestamp plus
// randomness is sufficient without a formal UUID.
func GenerateUID() string {
	return fmt.Sprintf("%d-%s@caldavclient", time.Now().UnixMilli(), randomBase36(9))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return string(b)
}
