package rice

import (
	"errors"

	"github.com/icza/bitio"

	iobits "github.com/mdejong-rice/riceimg/internal/bits"
)

// errNoSuffixWriter is returned by EncodeBlock when LayoutSplit is
// requested without a suffix writer to hold the separated suffix bits.
var errNoSuffixWriter = errors.New("rice: LayoutSplit requires a non-nil suffix writer")

// EncodeSymbol writes n, Rice-coded with parameter k, to w: a unary prefix
// followed immediately by the k-bit suffix (the joint/single
// arrangement). This is the form the s32 stream interleaver requires,
// since every worker stream decodes one cached-bit reader per symbol.
func EncodeSymbol(w bitio.Writer, n, k uint8) error {
	q := n >> k
	if int(q)+1 > iobits.EscapeUnaryLen {
		return encodeEscape(w, w, n, k)
	}
	if err := iobits.WriteUnary(w, uint64(q)); err != nil {
		return err
	}
	return writeSuffix(w, n, k)
}

// EncodeSymbolSplit writes n's prefix to pw and its suffix to sw, the two
// independent streams of the LayoutSplit arrangement.
func EncodeSymbolSplit(pw, sw bitio.Writer, n, k uint8) error {
	q := n >> k
	if int(q)+1 > iobits.EscapeUnaryLen {
		return encodeEscape(pw, sw, n, k)
	}
	if err := iobits.WriteUnary(pw, uint64(q)); err != nil {
		return err
	}
	return writeSuffix(sw, n, k)
}

// encodeEscape writes the 16-zero escape marker and the high (8-k) "over"
// bits to prefixW, and the low k "suffix" bits to suffixW. In the joint
// layout prefixW and suffixW are the same writer; in the split layout they
// are not.
func encodeEscape(prefixW, suffixW bitio.Writer, n, k uint8) error {
	if err := iobits.WriteEscapePrefix(prefixW); err != nil {
		return err
	}
	overBits := 8 - k
	if overBits > 0 {
		over := n >> k // high (8-k) bits, already shifted down to the low end
		if err := prefixW.WriteBits(uint64(over), overBits); err != nil {
			return err
		}
	}
	return writeSuffix(suffixW, n, k)
}

// writeSuffix writes the low k bits of n. k=0 is the degenerate case: no
// bits are written at all.
func writeSuffix(w bitio.Writer, n, k uint8) error {
	if k == 0 {
		return nil
	}
	mask := uint8(1<<k - 1)
	return w.WriteBits(uint64(n&mask), k)
}

// EncodeBlock Rice-codes every symbol of a block with the single Rice
// parameter k, arranging the output bits according to layout.
//
//   - LayoutSingle writes to w alone, prefix-then-suffix per symbol.
//   - LayoutSplit requires sw as well: every prefix goes to w, every
//     suffix to sw.
//   - LayoutGrouped4 writes to w alone, four prefixes followed by their
//     four suffixes, repeating; len(symbols) need not be a multiple of 4,
//     the final group is simply shorter.
func EncodeBlock(w, sw bitio.Writer, symbols []uint8, k uint8, layout Layout) error {
	switch layout {
	case LayoutSingle:
		for _, n := range symbols {
			if err := EncodeSymbol(w, n, k); err != nil {
				return err
			}
		}
		return nil
	case LayoutSplit:
		if sw == nil {
			return errNoSuffixWriter
		}
		for _, n := range symbols {
			if err := EncodeSymbolSplit(w, sw, n, k); err != nil {
				return err
			}
		}
		return nil
	case LayoutGrouped4:
		return encodeGrouped4(w, symbols, k)
	default:
		panic("rice: unknown layout")
	}
}

func encodeGrouped4(w bitio.Writer, symbols []uint8, k uint8) error {
	const groupSize = 4
	for start := 0; start < len(symbols); start += groupSize {
		end := start + groupSize
		if end > len(symbols) {
			end = len(symbols)
		}
		group := symbols[start:end]

		// An escaped symbol's over bits go in the suffix section, just
		// before that symbol's own suffix (there is no separate "over"
		// stream), so track which symbols escaped while writing the prefixes.
		escaped := make([]bool, len(group))
		for i, n := range group {
			q := n >> k
			if int(q)+1 > iobits.EscapeUnaryLen {
				if err := iobits.WriteEscapePrefix(w); err != nil {
					return err
				}
				escaped[i] = true
				continue
			}
			if err := iobits.WriteUnary(w, uint64(q)); err != nil {
				return err
			}
		}
		for i, n := range group {
			if escaped[i] {
				overBits := 8 - k
				if overBits > 0 {
					over := n >> k
					if err := w.WriteBits(uint64(over), overBits); err != nil {
						return err
					}
				}
			}
			if err := writeSuffix(w, n, k); err != nil {
				return err
			}
		}
	}
	return nil
}
