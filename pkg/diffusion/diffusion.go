// Package diffusion masks pixel bytes with a seeded pseudo-random stream.
//
// The stream comes from a 48-bit linear congruential generator (the same
// constants as java.util.Random), so a seed always yields the same bytes
// regardless of platform.
package diffusion

const (
	multiplier = 0x5DEECE66D
	increment  = 0xB
	stateMask  = (1 << 48) - 1
)

// LCG is a 48-bit linear congruential generator:
//
//	state = (state * 0x5DEECE66D + 0xB) mod 2^48
type LCG struct {
	state uint64
}

// NewLCG seeds a generator. The seed is scrambled with the multiplier first.
func NewLCG(seed int64) *LCG {
	return &LCG{state: (uint64(seed) ^ multiplier) & stateMask}
}

// Next advances the generator and returns the top bits (1..32) of its state.
func (g *LCG) Next(bits uint) uint32 {
	g.state = (g.state*multiplier + increment) & stateMask
	return uint32(g.state >> (48 - bits))
}

// Byte returns the next value in [0, 255], drawn from the top 8 of 31 bits.
func (g *LCG) Byte() byte {
	return byte((256 * uint64(g.Next(31))) >> 31)
}

// Mask XORs every byte of buf, in ascending order, with the generator stream
// for seed. Applying Mask twice with the same seed restores buf.
func Mask(buf []byte, seed int64) {
	g := NewLCG(seed)
	for i := range buf {
		buf[i] ^= g.Byte()
	}
}
