// ABOUTME: Random number source that can be swapped out in tests
// ABOUTME: Backs board shuffles and obstacle placement in the minigames

package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Float64 returns a random float in [0, 1)
	Float64() float64
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// float53 is the number of distinct values Float64 can return
const float53 = 1 << 53

// Float64 returns a random float in [0, 1) with 53 bits of precision
func (r *CryptoRandom) Float64() float64 {
	return float64(r.Intn(float53)) / float53
}
