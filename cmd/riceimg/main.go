// Command riceimg converts grayscale PNG images to and from the riceimg
// container format.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/mdejong-rice/riceimg"
	"github.com/mdejong-rice/riceimg/cmd/internal/convert"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: [encode|decode|info] [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "encode [OPTION]... FILE.png...")
	fmt.Fprintln(os.Stderr, "  Encode grayscale PNG images to .rimg container files.")
	fmt.Fprintln(os.Stderr, "  -f    Force overwrite of output files.")
	fmt.Fprintln(os.Stderr, "  -b    Block size, 4 or 8 (default 8).")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "decode [OPTION]... FILE.rimg...")
	fmt.Fprintln(os.Stderr, "  Decode .rimg container files back to grayscale PNG images.")
	fmt.Fprintln(os.Stderr, "  -f    Force overwrite of output files.")
	fmt.Fprintln(os.Stderr, "  -parallel    Use the 32-way parallel decoder.")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "info FILE.rimg...")
	fmt.Fprintln(os.Stderr, "  Print the image size, block size, block count and bits size of .rimg container files.")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func checkArgs() {
	if flag.NArg() < 1 || len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
}

func main() {
	var (
		force    bool
		parallel bool
		blockLen int
	)

	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.BoolVar(&parallel, "parallel", false, "use the parallel decoder")
	flag.IntVar(&blockLen, "b", 8, "block size, 4 or 8")
	flag.Usage = usage
	flag.Parse()
	checkArgs()

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)
	flag.CommandLine.Parse(os.Args[1:])

	switch command {
	case "encode":
		for _, path := range flag.Args() {
			if err := convert.PNGToContainer(path, blockLen, force); err != nil {
				log.Fatalf("%+v", err)
			}
		}

	case "decode":
		for _, path := range flag.Args() {
			if err := convert.ContainerToPNG(path, parallel, force); err != nil {
				log.Fatalf("%+v", err)
			}
		}

	case "info":
		for _, path := range flag.Args() {
			if err := printInfo(path); err != nil {
				log.Fatalln(err)
			}
		}

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func printInfo(path string) error {
	blob, err := riceimg.OpenFile(path)
	if err != nil {
		return errors.Wrapf(err, "riceimg: open %q", path)
	}
	fmt.Printf("%s: %dx%d, block=%d, blocks=%d, bits=%d bytes\n",
		path, blob.Header.Width, blob.Header.Height, blob.Header.B,
		len(blob.KTable)-1, len(blob.Bits))
	return nil
}
