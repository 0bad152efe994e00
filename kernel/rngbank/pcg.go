package rngbank

import "math/bits"

// pcg64 is a PCG generator (the XSL RR 128/64 variant) with 128-bit state
// and 64-bit output,
// chosen for its small state, good statistical properties, and a
// specification simple enough to pin exactly across implementations — the
// spec requires bit-identical output given identical inputs, which rules
// out relying on any runtime's built-in "PCG-like" generator whose internal
// constants are not part of its documented contract.
//
// State is a 128-bit LCG (hi, lo) advanced by a 128-bit multiplier and a
// per-stream 128-bit increment (odd by construction, derived once from the
// stream's seed) rather than per-call, matching the "single seed
// initializes state, no further entropy mixed in" requirement. The output
// function xors the state's two 64-bit halves and rotates the result by
// the top 6 bits of the high half, the "XSL RR" construction.
type pcg64 struct {
	hi, lo       uint64
	incHi, incLo uint64
}

// pcgMulHi/pcgMulLo are the two 64-bit halves of the 128-bit PCG64 LCG
// multiplier from O'Neill's reference implementation.
const (
	pcgMulHi uint64 = 0x2360ed051fc65da4
	pcgMulLo uint64 = 0x4385df649fccf645
)

func newPCG64(seed uint64) *pcg64 {
	g := &pcg64{
		incLo: (seed << 1) | 1,
		incHi: seed ^ slotMixConstant,
	}
	g.lo = g.incLo + seed
	g.hi = g.incHi
	g.step()
	g.lo += seed
	g.step()
	return g
}

// step advances the 128-bit state by one LCG round: state = state*mult + inc
// (mod 2^128), computed from two 64-bit halves since Go has no native
// uint128.
func (g *pcg64) step() {
	prodHi, prodLo := bits.Mul64(g.lo, pcgMulLo)
	prodHi += g.lo*pcgMulHi + g.hi*pcgMulLo

	lo, carry := bits.Add64(prodLo, g.incLo, 0)
	hi, _ := bits.Add64(prodHi, g.incHi, carry)
	g.lo = lo
	g.hi = hi
}

// next64 returns the next 64-bit PCG output, following the
// reference "XSL RR 128/64" output function: xor the state's high and low
// halves, then rotate right by the top 6 bits of the pre-step high half.
func (g *pcg64) next64() uint64 {
	oldHi, oldLo := g.hi, g.lo
	g.step()
	xored := oldHi ^ oldLo
	rot := uint(oldHi >> 58)
	return bits.RotateLeft64(xored, -int(rot))
}
