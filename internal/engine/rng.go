package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// DefaultClientSeed is mixed into every seeded deal so a bare seed string
// is enough to reproduce a game.
const DefaultClientSeed = "hilo"

// ByteGenerator streams bytes from HMAC-SHA256(seed, "client:0:round"),
// refilling its 32 byte buffer whenever it runs dry. The middle field is a
// nonce slot fixed at zero.
type ByteGenerator struct {
	seed         string
	clientSeed   string
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a generator at the start of the seed's stream.
func NewByteGenerator(seed, clientSeed string) *ByteGenerator {
	bg := &ByteGenerator{
		seed:       seed,
		clientSeed: clientSeed,
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the stream.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes 4 bytes and returns a float in [0, 1).
func (bg *ByteGenerator) NextFloat() float64 {
	return bytesToFloat([4]byte{bg.Next(), bg.Next(), bg.Next(), bg.Next()})
}

// NextInt returns an integer in [lo, hi] derived from the next float.
func (bg *ByteGenerator) NextInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	v := int(math.Floor(bg.NextFloat() * float64(span)))
	if v < 0 {
		v = 0
	}
	if v >= span {
		v = span - 1
	}
	return lo + v
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.seed))
	fmt.Fprintf(h, "%s:0:%d", bg.clientSeed, bg.currentRound)
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		result += float64(b) / math.Pow(256, float64(i+1))
	}
	return result
}

// SeedHash is the hex SHA-256 of a seed. Empty seeds hash to "".
func SeedHash(seed string) string {
	if seed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
