package riceimg_test

import (
	"bytes"
	"testing"

	"github.com/mdejong-rice/riceimg"
)

func testImage(w, h int) []byte {
	out := make([]byte, w*h)
	for i := range out {
		// A mix of smooth gradients and noise so some blocks pick k=0
		// (near-constant) and others pick a larger k.
		out[i] = byte((i/7 + i*i) & 0xFF)
	}
	return out
}

func TestEncodeDecodeImageRoundTrip(t *testing.T) {
	cases := []struct{ w, h, b int }{
		{32, 32, 8},
		{8, 8, 8},
		{40, 24, 8},
		{33, 17, 8}, // not a multiple of the block size or big-block size
		{16, 16, 4},
	}
	for _, c := range cases {
		img := testImage(c.w, c.h)
		blob, err := riceimg.EncodeImage(img, c.w, c.h, c.b)
		if err != nil {
			t.Fatalf("w=%d h=%d b=%d: EncodeImage: %v", c.w, c.h, c.b, err)
		}

		got, err := riceimg.DecodeImage(blob)
		if err != nil {
			t.Fatalf("w=%d h=%d b=%d: DecodeImage: %v", c.w, c.h, c.b, err)
		}
		if !bytes.Equal(got, img) {
			t.Fatalf("w=%d h=%d b=%d: decode(encode(image)) != image", c.w, c.h, c.b)
		}
	}
}

func TestEncodeDecodeConstantImage(t *testing.T) {
	const w, h, b = 16, 16, 8
	img := make([]byte, w*h)
	for i := range img {
		img[i] = 77
	}
	blob, err := riceimg.EncodeImage(img, w, h, b)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	for _, k := range blob.KTable[:len(blob.KTable)-1] {
		if k != 0 {
			t.Errorf("constant image: block k = %d, want 0", k)
		}
	}
	got, err := riceimg.DecodeImage(blob)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatalf("decode(encode(constant image)) != image")
	}
}

func TestParallelDecodeMatchesSequentialDecode(t *testing.T) {
	const w, h, b = 64, 48, 8
	img := testImage(w, h)
	blob, err := riceimg.EncodeImage(img, w, h, b)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}

	seq, err := riceimg.DecodeImage(blob)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	par, err := riceimg.DecodeImageParallel(blob)
	if err != nil {
		t.Fatalf("DecodeImageParallel: %v", err)
	}
	if !bytes.Equal(seq, par) {
		t.Fatalf("parallel decode disagrees with sequential decode")
	}
	if !bytes.Equal(seq, img) {
		t.Fatalf("sequential decode != original image")
	}
}

func TestWriteToReadBlobRoundTrip(t *testing.T) {
	const w, h, b = 24, 24, 8
	img := testImage(w, h)
	blob, err := riceimg.EncodeImage(img, w, h, b)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}

	var buf bytes.Buffer
	if _, err := blob.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	reread, err := riceimg.ReadBlob(&buf)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	got, err := riceimg.DecodeImage(reread)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatalf("decode(readblob(writeto(encode(image)))) != image")
	}
}

func TestEncodeImageRejectsBadBlockSize(t *testing.T) {
	_, err := riceimg.EncodeImage(make([]byte, 16), 4, 4, 3)
	if err == nil {
		t.Fatal("expected an error for block size 3")
	}
	rerr, ok := err.(*riceimg.Error)
	if !ok {
		t.Fatalf("expected *riceimg.Error, got %T", err)
	}
	if rerr.Kind != riceimg.InvalidParameter {
		t.Errorf("got Kind %v, want InvalidParameter", rerr.Kind)
	}
}

func TestReadBlobRejectsTruncatedHeader(t *testing.T) {
	_, err := riceimg.ReadBlob(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected an error for a truncated header")
	}
	rerr, ok := err.(*riceimg.Error)
	if !ok {
		t.Fatalf("expected *riceimg.Error, got %T", err)
	}
	if rerr.Kind != riceimg.TruncatedStream {
		t.Errorf("got Kind %v, want TruncatedStream", rerr.Kind)
	}
}
