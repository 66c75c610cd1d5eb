package bits

import "encoding/binary"

// CacheWord is the set of register widths the two-register lookahead cache
// can be built over: 32-bit (legacy reader16 pairing) or 64-bit (canonical
// reader32 pairing).
type CacheWord interface {
	uint32 | uint64
}

// WorkWord is the set of working-register widths a Cache can refill into.
type WorkWord interface {
	uint16 | uint32
}

// uword is the union of every register width used anywhere in this package,
// so the zero-shift helpers below can be shared between cache words and
// working-register words instead of being duplicated per width.
type uword interface {
	uint16 | uint32 | uint64
}

// zshl and zshr implement the left/right shift except that a shift count
// greater than or equal to the register width is replaced with a constant
// zero result. Go's shift operators are already defined for counts beyond
// the operand width (unlike C/C++, which the original Metal/C++ source had
// to guard against explicitly), so this predicate is not load-bearing for
// correctness here — it is kept to preserve the source's documented
// workaround as an explicit, auditable step rather than relying on a
// language guarantee a future port might not share.
func zshl[T uword](v T, n uint8, width int) T {
	if int(n) >= width {
		return 0
	}
	return v << n
}

func zshr[T uword](v T, n uint8, width int) T {
	if int(n) >= width {
		return 0
	}
	return v >> n
}

func bitsOfCache[C CacheWord]() int {
	var v C
	switch any(v).(type) {
	case uint32:
		return 32
	case uint64:
		return 64
	}
	panic("bits: unsupported cache word type")
}

func bitsOfWork[D WorkWord]() int {
	var v D
	switch any(v).(type) {
	case uint16:
		return 16
	case uint32:
		return 32
	}
	panic("bits: unsupported working register type")
}

// WordSource produces successive cache words from an underlying byte
// stream. It is the capability the Cache reader is built against, rather
// than a concrete buffer type, so that alternative byte sources (a
// replay-recording wrapper, a demultiplexer pulling from a shared upstream)
// can stand in without changing the reader itself.
type WordSource[C CacheWord] interface {
	NextWord() C
}

// SeekableWordSource additionally supports repositioning to an arbitrary
// word index, which Cache.Init needs to jump directly to a stream's
// recorded bit-start offset.
type SeekableWordSource[C CacheWord] interface {
	WordSource[C]
	SeekWord(idx int)
}

// SliceSource reads successive big-endian words directly out of a
// contiguous byte buffer, so that buf[0]'s most significant bit is the
// first bit the cache ever serves, matching the bitio writer's
// byte-sequential, MSB-first output. This is the only word source the
// parallel decoder uses: each of the 32 worker streams points into the
// same padded compressed buffer at its own word offset.
type SliceSource[C CacheWord] struct {
	buf       []byte
	wordBytes int
	pos       int
}

// NewSliceSource builds a word source reading words of width C out of buf.
// buf must carry the trailing zero-padding word guaranteed by the
// container format so that reads at the very end of a stream never run
// past the slice.
func NewSliceSource[C CacheWord](buf []byte) *SliceSource[C] {
	return &SliceSource[C]{buf: buf, wordBytes: bitsOfCache[C]() / 8}
}

func (s *SliceSource[C]) NextWord() C {
	var v C
	off := s.pos * s.wordBytes
	switch s.wordBytes {
	case 4:
		v = C(binary.BigEndian.Uint32(s.buf[off:]))
	case 8:
		v = C(binary.BigEndian.Uint64(s.buf[off:]))
	}
	s.pos++
	return v
}

func (s *SliceSource[C]) SeekWord(idx int) {
	s.pos = idx
}

// RecordingSource wraps another word source and appends every word it
// serves to Words, so that a decode can be replayed bit-for-bit against a
// naive reader for testing. This is the "multiplexer that
// records each read for later replay" byte-source variant.
type RecordingSource[C CacheWord] struct {
	Under WordSource[C]
	Words []C
}

func (s *RecordingSource[C]) NextWord() C {
	w := s.Under.NextWord()
	s.Words = append(s.Words, w)
	return w
}

// SeekWord repositions the wrapped source, which must itself be a
// SeekableWordSource for a RecordingSource to back a Cache.
func (s *RecordingSource[C]) SeekWord(idx int) {
	s.Under.(SeekableWordSource[C]).SeekWord(idx)
}

// Cache is the two-register lookahead bit cache described in the
// codec design: two cache registers of width C feed a working register of
// width D, so that the decode hot loop performs at most one refill per
// symbol. C and D are monomorphized at compile time over the codec's two
// supported configurations (see Reader16 and Reader32 below) rather than
// through a runtime-dispatched interface, mirroring the source's C++
// template parametrisation over <CACHED, DST>.
type Cache[C CacheWord, D WorkWord] struct {
	src      SeekableWordSource[C]
	wordBits int
	c1, c2   C
	n1, n2   uint8
}

// NewCache builds a Cache reading cache words from src.
func NewCache[C CacheWord, D WorkWord](src SeekableWordSource[C]) *Cache[C, D] {
	return &Cache[C, D]{src: src, wordBits: bitsOfCache[C]()}
}

// Init seeks the cache to skipBits (an absolute bit offset from the start
// of the underlying word source) and primes both cache registers. It is
// the per-stream entry point used by the parallel decoder: one call per
// worker, with skipBits taken from that worker's offset table entry.
func (c *Cache[C, D]) Init(skipBits uint32) {
	wordUnits := int(skipBits / uint32(c.wordBits))
	bitsOver := uint8(skipBits % uint32(c.wordBits))

	c.src.SeekWord(wordUnits)
	c.c1 = c.src.NextWord()
	c.n1 = uint8(c.wordBits)
	c.c2 = c.src.NextWord()
	c.n2 = uint8(c.wordBits)

	if bitsOver > 0 {
		c.c1 = zshl(c.c1, bitsOver, c.wordBits)
		c.n1 -= bitsOver
	}
}

// Refill tops dst up to a full D-width register, consuming bits out of the
// cache registers and triggering at most one underlying word read.
// allowFull permits calling Refill when dst is already full (a no-op);
// without it such a call panics. EnsureBits, which the decode loop calls,
// only refills a register that is short of bits and passes false.
func (c *Cache[C, D]) Refill(dst *D, dstBits *uint8, allowFull bool) {
	dstFull := uint8(bitsOfWork[D]())
	inDstBits := *dstBits
	if inDstBits >= dstFull {
		if allowFull {
			return
		}
		panic("bits: Refill called on a full register")
	}
	needed := dstFull - inDstBits
	dstShift := uint8(c.wordBits) - dstFull

	if needed <= c.n1 {
		shiftBy := inDstBits + dstShift
		*dst |= D(zshr(c.c1, shiftBy, c.wordBits))
		*dstBits += needed

		c.c1 = zshl(c.c1, needed, c.wordBits)
		c.n1 -= needed

		if c.n1 == 0 {
			c.c1 = c.c2
			c.n1 = uint8(c.wordBits)
			c.c2 = c.src.NextWord()
			c.n2 = uint8(c.wordBits)
		}
		return
	}

	// Not enough bits left in c1: drain it, then promote c2 into c1 and
	// read a fresh c2 to finish the fill.
	shiftBy := inDstBits + dstShift
	*dst |= D(zshr(c.c1, shiftBy, c.wordBits))
	*dstBits += c.n1
	stillNeeded := needed - c.n1

	c.c1 = c.c2
	c.n1 = uint8(c.wordBits)
	c.c2 = c.src.NextWord()
	c.n2 = uint8(c.wordBits)

	shiftBy2 := *dstBits + dstShift
	*dst |= D(zshr(c.c1, shiftBy2, c.wordBits))
	*dstBits += stillNeeded

	c.c1 = zshl(c.c1, stillNeeded, c.wordBits)
	c.n1 -= stillNeeded
}

// EnsureBits refills dst if it holds fewer than want bits. Every symbol
// decode starts with a call to this so that the CLZ and bit-consume steps
// that follow always have enough lookahead.
func (c *Cache[C, D]) EnsureBits(dst *D, dstBits *uint8, want uint8) {
	if *dstBits < want {
		c.Refill(dst, dstBits, false)
	}
}

// PeekTop16 returns the top 16 bits of dst, the window the prefix decode
// runs CLZ over.
func (c *Cache[C, D]) PeekTop16(dst D) uint16 {
	full := bitsOfWork[D]()
	return uint16(zshr(dst, uint8(full-16), full))
}

// PeekBits returns the top n bits of dst, right-justified into the result.
func (c *Cache[C, D]) PeekBits(dst D, n uint8) uint32 {
	full := uint8(bitsOfWork[D]())
	return uint32(zshr(dst, full-n, int(full)))
}

// Consume discards the top n bits of dst.
func (c *Cache[C, D]) Consume(dst *D, dstBits *uint8, n uint8) {
	full := int(bitsOfWork[D]())
	*dst = zshl(*dst, n, full)
	*dstBits -= n
}

// Reader16 is the legacy 16-bit working register configuration (cache
// words are 32 bits). This resolves the source's two
// overlapping RiceDecodeBlocks.hpp variants by keeping the fixed-16-bit
// register form alive as this named specialization, not the default path.
type Reader16 = Cache[uint32, uint16]

// Reader32 is the canonical, parametrised working-register configuration
// (32-bit register over 64-bit cache words) that the parallel decoder
// uses.
type Reader32 = Cache[uint64, uint32]

// NewReader16 builds a legacy reader16 over a slice source.
func NewReader16(buf []byte) *Reader16 {
	return NewCache[uint32, uint16](NewSliceSource[uint32](buf))
}

// NewReader32 builds a canonical reader32 over a slice source.
func NewReader32(buf []byte) *Reader32 {
	return NewCache[uint64, uint32](NewSliceSource[uint64](buf))
}
