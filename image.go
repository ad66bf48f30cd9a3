package bootbanner

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"strings"

	"github.com/fatih/color"

	"github.com/rickchristie/bootbanner/internal/ansi"
)

// Image banner defaults.
const (
	DefaultImageWidth  = 76
	DefaultImageMargin = 2
)

// pixels go from lightest to darkest.
var pixels = []byte(" .*:o&8#@")

// ImageBanner renders a gif, jpeg or png resource as ASCII art. It reads
// banner.image.width, banner.image.height (0 derives it from the aspect
// ratio), banner.image.margin and banner.image.invert from the environment.
type ImageBanner struct {
	Path string
}

type imageOptions struct {
	width, height, margin int
	invert                bool
}

func readImageOptions(env *Environment) (imageOptions, error) {
	var o imageOptions
	var err error
	if o.width, err = env.GetInt("banner.image.width", DefaultImageWidth); err != nil {
		return o, err
	}
	if o.height, err = env.GetInt("banner.image.height", 0); err != nil {
		return o, err
	}
	if o.margin, err = env.GetInt("banner.image.margin", DefaultImageMargin); err != nil {
		return o, err
	}
	if o.invert, err = env.GetBool("banner.image.invert", false); err != nil {
		return o, err
	}
	if o.width <= 0 {
		return o, fmt.Errorf("banner.image.width must be > 0, got %d", o.width)
	}
	if o.height < 0 || o.margin < 0 {
		return o, fmt.Errorf("banner.image.height and banner.image.margin must be >= 0")
	}
	return o, nil
}

// PrintBanner implements Banner.
func (b *ImageBanner) PrintBanner(env *Environment, resources fs.FS, out io.Writer) error {
	if resources == nil {
		return ErrNoResources
	}
	opts, err := readImageOptions(env)
	if err != nil {
		return err
	}
	f, err := resources.Open(b.Path)
	if err != nil {
		return fmt.Errorf("failed to open banner image %s: %w", b.Path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode banner image %s: %w", b.Path, err)
	}
	_, err = io.WriteString(out, asciiArt(img, opts, ANSIEnabled(out)))
	return err
}

// asciiArt scales img to opts.width columns, averaging the source pixels
// under each cell.
func asciiArt(img image.Image, opts imageOptions, useColor bool) string {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return "\n"
	}
	width := opts.width
	height := opts.height
	if height == 0 {
		// Terminal cells are roughly twice as tall as they are wide.
		height = int(float64(width) * float64(srcH) / float64(srcW) * 0.5)
		if height < 1 {
			height = 1
		}
	}

	margin := strings.Repeat(" ", opts.margin)
	var sb strings.Builder
	for y := 0; y < height; y++ {
		sb.WriteString(margin)
		var current color.Attribute = -1
		for x := 0; x < width; x++ {
			x0 := bounds.Min.X + x*srcW/width
			x1 := bounds.Min.X + (x+1)*srcW/width
			y0 := bounds.Min.Y + y*srcH/height
			y1 := bounds.Min.Y + (y+1)*srcH/height
			r, g, b, a := average(img, x0, x1, y0, y1)

			lum := luminance(r, g, b, a)
			if opts.invert {
				lum = 1 - lum
			}
			ch := pixels[int((1-lum)*float64(len(pixels)-1)+0.5)]
			if useColor && ch != ' ' {
				if attr := ansi.Nearest(r, g, b); attr != current {
					sb.WriteString(ansi.Escape(attr))
					current = attr
				}
			}
			sb.WriteByte(ch)
		}
		if useColor && current != -1 {
			sb.WriteString(ansi.Reset)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// average returns the mean 8-bit colour over [x0,x1) x [y0,y1). Empty
// ranges sample the single pixel at (x0, y0).
func average(img image.Image, x0, x1, y0, y1 int) (r, g, b, a uint8) {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	var sr, sg, sb, sa, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pr, pg, pb, pa := img.At(x, y).RGBA()
			sr += uint64(pr >> 8)
			sg += uint64(pg >> 8)
			sb += uint64(pb >> 8)
			sa += uint64(pa >> 8)
			n++
		}
	}
	return uint8(sr / n), uint8(sg / n), uint8(sb / n), uint8(sa / n)
}

// luminance returns perceived brightness in [0,1]. Transparent pixels count
// as fully bright so they render as blanks.
func luminance(r, g, b, a uint8) float64 {
	if a < 0x40 {
		return 1
	}
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
}

// CheckImage reports whether path in resources fully decodes as a gif, jpeg
// or png. A valid header over truncated pixel data fails.
func CheckImage(resources fs.FS, path string) error {
	f, err := resources.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.Decode(f)
	return err
}
