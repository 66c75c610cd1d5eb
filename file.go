package riceimg

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mdejong-rice/riceimg/internal/bufseekio"
)

// OpenFile reads and parses a container blob from the file at path. The
// file is wrapped in a buffered ReadSeeker so the sequential header/table
// reads that ReadBlob performs don't each trigger a separate syscall.
func OpenFile(path string) (*Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "riceimg: open file")
	}
	defer f.Close()

	r := bufseekio.NewReadSeeker(f)
	return ReadBlob(r)
}

// SaveFile encodes pixels (a row-major W*H byte image) and writes the
// resulting container blob to path.
func SaveFile(path string, pixels []byte, width, height, b int) error {
	blob, err := EncodeImage(pixels, width, height, b)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "riceimg: create file")
	}
	defer f.Close()

	if _, err := blob.WriteTo(f); err != nil {
		return errors.Wrap(err, "riceimg: write file")
	}
	return nil
}
