package renderer

import (
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	perlin "github.com/aquilax/go-perlin"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is decoded pixel data ready for upload: rows tightly packed,
// Format.Channels() bytes per pixel.
type Image struct {
	Width   int
	Height  int
	Format  PixelFormat
	Pix     []byte
	Flipped bool
}

// DecodeFunc loads the image at path. flip requests bottom-up row order,
// which is what OpenGL texture coordinates expect for most assets.
type DecodeFunc func(path string, flip bool) (*Image, error)

// LoadImage is the default DecodeFunc.
func LoadImage(path string, flip bool) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := DecodeImage(f, flip)
	if err != nil {
		var unsupported *UnsupportedFormatError
		if errors.As(err, &unsupported) {
			unsupported.Path = path
			return nil, unsupported
		}
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// DecodeImage decodes any registered format (PNG, JPEG, BMP, TIFF, WebP).
func DecodeImage(r io.Reader, flip bool) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(src, flip)
}

// FromImage converts src into an upload-ready Image.
func FromImage(src image.Image, flip bool) (*Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.New("image has no pixel data")
	}

	channels := channelsOf(src)
	format, ok := FormatForChannels(channels)
	if !ok {
		return nil, &UnsupportedFormatError{Channels: channels}
	}

	pix := make([]byte, width*height*channels)
	for y := 0; y < height; y++ {
		dstY := y
		if flip {
			dstY = height - 1 - y
		}
		row := dstY * width * channels
		for x := 0; x < width; x++ {
			c := src.At(bounds.Min.X+x, bounds.Min.Y+y)
			i := row + x*channels
			if channels == 1 {
				pix[i] = color.GrayModel.Convert(c).(color.Gray).Y
				continue
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			pix[i], pix[i+1], pix[i+2] = n.R, n.G, n.B
			if channels == 4 {
				pix[i+3] = n.A
			}
		}
	}

	return &Image{
		Width:   width,
		Height:  height,
		Format:  format,
		Pix:     pix,
		Flipped: flip,
	}, nil
}

// channelsOf mirrors what the file stores: grayscale stays single-channel,
// fully opaque images drop alpha.
func channelsOf(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// CheckerImage builds a size x size RGBA checkerboard with cell-sized squares.
func CheckerImage(size, cell int, a, b color.RGBA) *Image {
	if cell < 1 {
		cell = 1
	}
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if ((x/cell)+(y/cell))%2 == 1 {
				c = b
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return &Image{Width: size, Height: size, Format: FormatRGBA, Pix: pix}
}

// NoiseImage builds a single-channel Perlin noise texture. The same seed always
// yields the same pixels.
func NoiseImage(size int, seed int64) *Image {
	p := perlin.NewPerlin(2, 2, 3, seed)
	pix := make([]byte, size*size)
	scale := 4.0 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := p.Noise2D(float64(x)*scale, float64(y)*scale)*0.5 + 0.5
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			pix[y*size+x] = uint8(v * 255)
		}
	}
	return &Image{Width: size, Height: size, Format: FormatRed, Pix: pix}
}
