package bits_test

import (
	"testing"

	iobits "github.com/mdejong-rice/riceimg/internal/bits"
)

// naiveBit reads the bit at absolute position pos (MSB-first within each
// byte) from buf, with no caching at all; the reference implementation
// that Cache's behaviour must agree with.
func naiveBit(buf []byte, pos uint32) uint8 {
	byteIdx := pos / 8
	bitIdx := 7 - (pos % 8)
	return (buf[byteIdx] >> bitIdx) & 1
}

func naiveBits(buf []byte, pos uint32, n uint8) uint32 {
	var v uint32
	for i := uint8(0); i < n; i++ {
		v = (v << 1) | uint32(naiveBit(buf, pos+uint32(i)))
	}
	return v
}

// pattern builds a deterministic, non-trivial byte buffer of n bytes; each
// test sizes it well beyond the bits it reads so Cache never reads past the
// end.
func pattern(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte((i*37 + 11) & 0xFF)
	}
	return buf
}

func TestReader32MatchesNaiveReader(t *testing.T) {
	buf := pattern(256)
	for _, skip := range []uint32{0, 1, 7, 8, 17, 31, 32, 63, 64, 127, 128, 200} {
		r := iobits.NewReader32(buf)
		r.Init(skip)
		var reg uint32
		var regBits uint8
		r.EnsureBits(&reg, &regBits, 16)
		got := r.PeekBits(reg, 16)
		want := naiveBits(buf, skip, 16)
		if got != want {
			t.Errorf("skip=%d: got next-16 bits %016b, want %016b", skip, got, want)
		}
	}
}

func TestReader16MatchesNaiveReader(t *testing.T) {
	buf := pattern(256)
	for _, skip := range []uint32{0, 3, 8, 16, 31, 32, 65, 100} {
		r := iobits.NewReader16(buf)
		r.Init(skip)
		var reg uint16
		var regBits uint8
		r.EnsureBits(&reg, &regBits, 16)
		got := uint32(r.PeekBits(reg, 16))
		want := naiveBits(buf, skip, 16)
		if got != want {
			t.Errorf("skip=%d: got next-16 bits %016b, want %016b", skip, got, want)
		}
	}
}

func TestReader32SequentialConsume(t *testing.T) {
	buf := pattern(512)
	r := iobits.NewReader32(buf)
	r.Init(0)
	var reg uint32
	var regBits uint8

	var pos uint32
	for i := 0; i < 200; i++ {
		r.EnsureBits(&reg, &regBits, 5)
		got := r.PeekBits(reg, 5)
		want := naiveBits(buf, pos, 5)
		if got != want {
			t.Fatalf("iteration %d (bit pos %d): got %05b want %05b", i, pos, got, want)
		}
		r.Consume(&reg, &regBits, 5)
		pos += 5
	}
}

func TestRecordingSource(t *testing.T) {
	buf := pattern(64)
	under := iobits.NewSliceSource[uint64](buf)
	rec := &iobits.RecordingSource[uint64]{Under: under}
	c := iobits.NewCache[uint64, uint32](rec)
	c.Init(0)
	var reg uint32
	var regBits uint8
	c.EnsureBits(&reg, &regBits, 32)
	if len(rec.Words) < 2 {
		t.Fatalf("expected RecordingSource to capture at least 2 words, got %d", len(rec.Words))
	}
}
