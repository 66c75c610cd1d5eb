package rice

import iobits "github.com/mdejong-rice/riceimg/internal/bits"

// MaxK is the largest Rice parameter a block table entry may hold.
const MaxK = 7

// escapeCost is the fixed bit cost of the escape path: EscapeUnaryLen
// prefix zero bits, plus 8 literal bits split between the over and suffix
// portions (8-k over bits, k suffix bits — the split does not change the
// total).
const escapeCost = iobits.EscapeUnaryLen + 8

// Cost returns the number of bits needed to Rice-code n with parameter k:
//
//	q = n >> k
//	cost(n,k) = 16 + 8   if q+1 > 16   (escape)
//	            (q+1)+k  otherwise
func Cost(n, k uint8) int {
	q := n >> k
	if int(q)+1 > iobits.EscapeUnaryLen {
		return escapeCost
	}
	return int(q) + 1 + int(k)
}

// EstimateBits returns the total encoded bit length of symbols under a
// single Rice parameter k.
func EstimateBits(symbols []uint8, k uint8) int {
	total := 0
	for _, n := range symbols {
		total += Cost(n, k)
	}
	return total
}
