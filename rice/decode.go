package rice

import (
	"math/bits"

	iobits "github.com/mdejong-rice/riceimg/internal/bits"
)

// DecodeSymbol decodes one Rice-coded symbol with parameter k from c,
// reading out of the working register reg/regBits (the same pair a caller
// threads through successive calls). It is the single primitive both the
// sequential and the 32-way parallel decoder drive their hot loops
// with: ensure lookahead, count the unary prefix by CLZ over the top 16
// bits, consume the prefix, then consume or reconstruct the suffix.
func DecodeSymbol[C iobits.CacheWord, D iobits.WorkWord](c *iobits.Cache[C, D], reg *D, regBits *uint8, k uint8) uint8 {
	c.EnsureBits(reg, regBits, 16)
	top16 := c.PeekTop16(*reg)
	q := bits.LeadingZeros16(top16)

	if q >= iobits.EscapeUnaryLen {
		return decodeEscape(c, reg, regBits, k)
	}

	c.Consume(reg, regBits, uint8(q+1))
	if k == 0 {
		return uint8(q)
	}
	c.EnsureBits(reg, regBits, k)
	suffix := uint8(c.PeekBits(*reg, k))
	c.Consume(reg, regBits, k)
	return uint8(q)<<k | suffix
}

// decodeEscape consumes the 16-bit escape marker and the literal (8-k)
// over bits plus k suffix bits that follow it, reconstructing n = over<<k |
// suffix (the inverse of encodeEscape).
func decodeEscape[C iobits.CacheWord, D iobits.WorkWord](c *iobits.Cache[C, D], reg *D, regBits *uint8, k uint8) uint8 {
	c.Consume(reg, regBits, iobits.EscapeUnaryLen)

	overBits := 8 - k
	var over uint8
	if overBits > 0 {
		c.EnsureBits(reg, regBits, overBits)
		over = uint8(c.PeekBits(*reg, overBits))
		c.Consume(reg, regBits, overBits)
	}

	var suffix uint8
	if k > 0 {
		c.EnsureBits(reg, regBits, k)
		suffix = uint8(c.PeekBits(*reg, k))
		c.Consume(reg, regBits, k)
	}
	return over<<k | suffix
}

// DecodePrefixLengths decodes count symbols from c using parameter k and
// returns only their unary prefix lengths (q, or EscapeUnaryLen for an
// escaped symbol) without reconstructing the suffixes. It exists purely as
// a debug/introspection entry point for inspecting how a stream's cost
// estimate (SelectK) played out against its actual encoding, and is not on
// the hot decode path.
func DecodePrefixLengths[C iobits.CacheWord, D iobits.WorkWord](c *iobits.Cache[C, D], reg *D, regBits *uint8, k uint8, count int) []int {
	lengths := make([]int, count)
	for i := range lengths {
		c.EnsureBits(reg, regBits, 16)
		top16 := c.PeekTop16(*reg)
		q := bits.LeadingZeros16(top16)
		if q >= iobits.EscapeUnaryLen {
			lengths[i] = iobits.EscapeUnaryLen
			_ = decodeEscape(c, reg, regBits, k)
			continue
		}
		lengths[i] = q
		c.Consume(reg, regBits, uint8(q+1))
		if k > 0 {
			c.EnsureBits(reg, regBits, k)
			c.Consume(reg, regBits, k)
		}
	}
	return lengths
}
