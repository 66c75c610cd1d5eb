// Package convert implements the riceimg CLI's file-format bridges: decode
// a grayscale PNG into a pixel buffer for EncodeImage, and re-encode a
// decoded pixel buffer back into a PNG.
package convert

import (
	"image"
	"image/png"
	"os"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"

	"github.com/mdejong-rice/riceimg"
)

// containerExt is the file extension used for riceimg container files.
const containerExt = ".rimg"

// PNGToContainer reads a grayscale PNG at pngPath, encodes it with block
// size b and writes the resulting container to the same path with its
// extension replaced by .rimg.
func PNGToContainer(pngPath string, b int, force bool) error {
	f, err := os.Open(pngPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "riceimg: decode PNG %q", pngPath)
	}
	pixels, width, height := toGray(img)

	outPath := pathutil.TrimExt(pngPath) + containerExt
	if !force && osutil.Exists(outPath) {
		return errors.Errorf("container file %q already present; use -f flag to force overwrite", outPath)
	}
	return riceimg.SaveFile(outPath, pixels, width, height, b)
}

// ContainerToPNG reads a .rimg container at containerPath, decodes it
// (using the parallel decoder if parallel is set) and writes the result as
// a grayscale PNG with its extension replaced by .png.
func ContainerToPNG(containerPath string, parallel, force bool) error {
	blob, err := riceimg.OpenFile(containerPath)
	if err != nil {
		return errors.Wrapf(err, "riceimg: open %q", containerPath)
	}

	var pixels []byte
	if parallel {
		pixels, err = riceimg.DecodeImageParallel(blob)
	} else {
		pixels, err = riceimg.DecodeImage(blob)
	}
	if err != nil {
		return errors.Wrapf(err, "riceimg: decode %q", containerPath)
	}

	outPath := pathutil.TrimExt(containerPath) + ".png"
	if !force && osutil.Exists(outPath) {
		return errors.Errorf("PNG file %q already present; use -f flag to force overwrite", outPath)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()

	img := fromGray(pixels, int(blob.Header.Width), int(blob.Header.Height))
	if err := png.Encode(w, img); err != nil {
		return errors.Wrapf(err, "riceimg: encode PNG %q", outPath)
	}
	return nil
}

// toGray converts any image.Image to a flat, row-major 8-bit grayscale
// pixel buffer, losslessly if img is already *image.Gray.
func toGray(img image.Image) (pixels []byte, width, height int) {
	if gray, ok := img.(*image.Gray); ok && gray.Stride == gray.Rect.Dx() {
		return gray.Pix, gray.Rect.Dx(), gray.Rect.Dy()
	}
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	pixels = make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color16ToGray8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			pixels[y*width+x] = c
		}
	}
	return pixels, width, height
}

func color16ToGray8(c interface{ RGBA() (r, g, b, a uint32) }) byte {
	r, g, b, _ := c.RGBA()
	// Rec. 601 luma, operating on the 16-bit channel values RGBA returns.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	return byte(y)
}

func fromGray(pixels []byte, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img
}
