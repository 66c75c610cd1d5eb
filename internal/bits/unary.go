package bits

import (
	"github.com/icza/bitio"
)

// EscapeUnaryLen is the unary prefix length (in zero bits) at which the
// split/escape Rice coder gives up on the unary form and switches to a
// literal encoding of the symbol's high bits. A run of exactly this many
// zero bits, with no terminating one bit, is therefore unambiguous: the
// decoder only ever sees EscapeUnaryLen zeros in a row when the encoder meant
// escape.
const EscapeUnaryLen = 16

// WriteUnary encodes x as a unary coded integer: x zero bits followed by a
// terminating one bit.
//
// Examples of decimal input on the left and the unary coded binary written
// for it on the right:
//
//	0 => 1
//	1 => 01
//	2 => 001
//	3 => 0001
//	4 => 00001
//	5 => 000001
//	6 => 0000001
//
// The caller must never pass x+1 > EscapeUnaryLen; the split Rice coder
// switches to WriteEscapePrefix instead once the unary run would reach that
// length.
func WriteUnary(bw bitio.Writer, x uint64) error {
	for ; x > 8; x -= 8 {
		if err := bw.WriteByte(0x0); err != nil {
			return err
		}
	}
	n := byte(x + 1)
	if err := bw.WriteBits(1, n); err != nil {
		return err
	}
	return nil
}

// WriteEscapePrefix writes the fixed EscapeUnaryLen-bit escape marker: 16
// consecutive zero bits with no terminating one bit.
func WriteEscapePrefix(bw bitio.Writer) error {
	const escapeBytes = EscapeUnaryLen / 8
	for i := 0; i < escapeBytes; i++ {
		if err := bw.WriteByte(0x0); err != nil {
			return err
		}
	}
	return nil
}
