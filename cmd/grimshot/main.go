// Command grimshot is a thin demonstration of the grim package's public
// API: open a session, list outputs, or capture one output (or the whole
// screen) and write it as PNG to a file or stdout. It does not attempt grim(1)'s full flag surface (geometry
// strings, output-selection syntax, XDG filename templating) — that
// belongs to an external collaborator, not this library.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/vremyavnikuda/grim-rs"
)

func main() {
	var (
		list    = flag.Bool("l", false, "list outputs and exit")
		output  = flag.String("o", "", "capture only this output by name")
		outPath = flag.String("f", "-", "output file, or - for stdout")
		scale   = flag.Float64("s", 0, "resample the result by this factor")
	)
	flag.Parse()

	sess, err := grim.OpenSession("")
	if err != nil {
		log.Fatalf("open session: %v", err)
	}
	defer sess.Close()

	if err := sess.RefreshOutputs(); err != nil {
		log.Fatalf("refresh outputs: %v", err)
	}

	if *list {
		for _, o := range sess.ListOutputs() {
			fmt.Printf("%s %s scale=%d logical=%s physical=%s\n", o.Name, o.Description, o.Scale, o.Logical, o.Physical)
		}
		return
	}

	opts := grim.CaptureOptions{Scale: *scale}

	var img grim.PixelImage
	if *output != "" {
		img, err = sess.CaptureOutput(*output, opts)
	} else {
		img, err = sess.CaptureWholeScreen(opts)
	}
	if err != nil {
		log.Fatalf("capture: %v", err)
	}

	w := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create %s: %v", *outPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := png.Encode(w, img.AsRGBA()); err != nil {
		log.Fatalf("encode png: %v", err)
	}
}
