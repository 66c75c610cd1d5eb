// Package rice implements the split/escape Rice coder: per-symbol
// cost estimation, Rice parameter selection, and the three bitstream
// layouts (single, split, grouped-by-4) that a block's prefixes and
// suffixes can be arranged in.
package rice

// Layout selects how a block's unary prefixes and fixed-width suffixes are
// arranged in the output bitstream(s).
type Layout uint8

const (
	// LayoutSingle interleaves each symbol's prefix and suffix in a single
	// stream: prefix, suffix, prefix, suffix, ... This is the layout the
	// s32 stream interleaver requires, since each of the 32 worker
	// streams decodes one symbol at a time with a single cached-bit reader.
	LayoutSingle Layout = iota
	// LayoutSplit writes every prefix of the block to one stream and every
	// suffix to a second, independent stream.
	LayoutSplit
	// LayoutGrouped4 interleaves in groups of 4 symbols: four prefixes,
	// then the four suffixes belonging to those same symbols, repeating.
	// It widens the natural unit of parallel/SIMD suffix decode without
	// needing a second physical stream.
	LayoutGrouped4
)

func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutSplit:
		return "split"
	case LayoutGrouped4:
		return "grouped4"
	default:
		return "unknown"
	}
}
