package rice_test

import (
	"testing"

	"github.com/mdejong-rice/riceimg/rice"
)

func TestSelectKPicksMinimumCost(t *testing.T) {
	symbols := make([]uint8, 64)
	for i := range symbols {
		symbols[i] = 3 // small, roughly constant residuals favour a small k
	}
	k, bits := rice.SelectK(symbols)
	wantBits := rice.EstimateBits(symbols, k)
	if bits != wantBits {
		t.Fatalf("SelectK returned bits=%d, but EstimateBits(k=%d)=%d", bits, k, wantBits)
	}
	for cand := uint8(0); cand <= rice.MaxK; cand++ {
		if rice.EstimateBits(symbols, cand) < bits {
			t.Fatalf("k=%d (%d bits) beats SelectK's choice k=%d (%d bits)", cand, rice.EstimateBits(symbols, cand), k, bits)
		}
	}
}

func TestSelectKBreaksTiesTowardsSmallestK(t *testing.T) {
	// A symbol of 1 costs 2 bits at k=0 (q=1) and 2 bits at k=1 (q=0), and
	// more at every larger k: k=0 and k=1 tie, and the smaller must win.
	symbols := make([]uint8, 16)
	for i := range symbols {
		symbols[i] = 1
	}
	k, _ := rice.SelectK(symbols)
	if k != 0 {
		t.Errorf("SelectK on a k=0/k=1 tie = %d, want 0", k)
	}
}

func TestSelectKOnLargeResidualsPrefersLargerK(t *testing.T) {
	symbols := make([]uint8, 32)
	for i := range symbols {
		symbols[i] = 200
	}
	k, _ := rice.SelectK(symbols)
	if k < 4 {
		t.Errorf("SelectK on large residuals chose k=%d, expected a larger k to avoid constant escapes", k)
	}
}
