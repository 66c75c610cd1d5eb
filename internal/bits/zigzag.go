// Package bits implements the bit-level primitives shared by the block
// reshaper, predictor and Rice coder: zig-zag sign mapping, unary prefix
// coding with a 16-bit escape, and the two-register cached bit reader that
// drives the parallel decoder.
package bits

// DecodeZigZag decodes a ZigZag encoded byte and returns the signed residual
// it represents.
//
// Examples of ZigZag encoded values on the left and decoded values on the
// right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func DecodeZigZag(x uint8) int8 {
	return int8(x>>1) ^ -int8(x&1)
}

// EncodeZigZag encodes a signed residual in [-128,127] to its ZigZag
// representation in [0,255].
//
// Examples of integer input on the left and corresponding ZigZag encoded
// values on the right:
//
//	 0 => 0
//	-1 => 1
//	 1 => 2
//	-2 => 3
//	 2 => 4
//	-3 => 5
//	 3 => 6
//
// Widening to int16 before shifting avoids the overflow that a direct
// negation of the int8 minimum value (-128) would hit.
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func EncodeZigZag(x int8) uint8 {
	v := int16(x)
	return uint8((v << 1) ^ (v >> 7))
}
