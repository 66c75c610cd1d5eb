package bits_test

import (
	"bytes"
	"math/bits"
	"testing"

	"github.com/icza/bitio"
	iobits "github.com/mdejong-rice/riceimg/internal/bits"
)

func TestWriteUnary(t *testing.T) {
	for want := uint64(0); want < iobits.EscapeUnaryLen; want++ {
		buf := new(bytes.Buffer)
		bw := bitio.NewWriter(buf)
		if err := iobits.WriteUnary(bw, want); err != nil {
			t.Fatalf("WriteUnary(%d): %v", want, err)
		}
		if _, err := bw.Align(); err != nil {
			t.Fatalf("align: %v", err)
		}

		// Decode by hand: count leading zero bits up to the terminating one.
		got := countLeadingZeroBits(buf.Bytes())
		if uint64(got) != want {
			t.Errorf("WriteUnary(%d): decoded %d leading zero bits, want %d", want, got, want)
		}
	}
}

func TestWriteEscapePrefix(t *testing.T) {
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)
	if err := iobits.WriteEscapePrefix(bw); err != nil {
		t.Fatalf("WriteEscapePrefix: %v", err)
	}
	if _, err := bw.Align(); err != nil {
		t.Fatalf("align: %v", err)
	}
	got := countLeadingZeroBits(buf.Bytes())
	if got != iobits.EscapeUnaryLen {
		t.Errorf("WriteEscapePrefix: got %d leading zero bits, want %d", got, iobits.EscapeUnaryLen)
	}
}

// countLeadingZeroBits counts the number of leading zero bits across a
// byte slice, MSB-first, stopping at the first one bit or the end of input.
func countLeadingZeroBits(buf []byte) int {
	n := 0
	for _, b := range buf {
		if b == 0 {
			n += 8
			continue
		}
		n += bits.LeadingZeros8(b)
		break
	}
	return n
}
