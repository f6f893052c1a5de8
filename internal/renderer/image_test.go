package renderer_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"Prism3D/internal/renderer"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// twoRows is 1x2: red on top, blue below.
func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeImageFlip(t *testing.T) {
	data := encodePNG(t, twoRows())

	upright, err := renderer.DecodeImage(bytes.NewReader(data), false)
	if err != nil {
		t.Fatal(err)
	}
	flipped, err := renderer.DecodeImage(bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}

	if upright.Format != renderer.FormatRGB {
		t.Errorf("opaque PNG should decode as RGB, got %s", upright.Format)
	}
	if upright.Pix[0] != 255 || upright.Pix[5] != 255 {
		t.Errorf("unexpected upright pixels %v", upright.Pix)
	}
	if flipped.Pix[2] != 255 || flipped.Pix[3] != 255 {
		t.Errorf("flip should put the bottom row first, got %v", flipped.Pix)
	}
	if !flipped.Flipped || upright.Flipped {
		t.Error("Flipped should record the requested orientation")
	}
}

func TestFromImageChannels(t *testing.T) {
	translucent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	translucent.Set(1, 1, color.NRGBA{G: 200, A: 100})
	opaque := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range opaque.Pix {
		opaque.Pix[i] = 255
	}

	for name, tc := range map[string]struct {
		img  image.Image
		want renderer.PixelFormat
	}{
		"gray":        {image.NewGray(image.Rect(0, 0, 2, 2)), renderer.FormatRed},
		"ycbcr":       {image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444), renderer.FormatRGB},
		"opaque rgba": {opaque, renderer.FormatRGB},
		"translucent": {translucent, renderer.FormatRGBA},
	} {
		img, err := renderer.FromImage(tc.img, false)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Format != tc.want {
			t.Errorf("%s: expected %s, got %s", name, tc.want, img.Format)
		}
		if len(img.Pix) != img.Width*img.Height*tc.want.Channels() {
			t.Errorf("%s: pixel buffer has wrong length %d", name, len(img.Pix))
		}
	}
}

func TestFromImageEmpty(t *testing.T) {
	if _, err := renderer.FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)), false); err == nil {
		t.Error("an empty image should be rejected")
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := renderer.LoadImage(filepath.Join(dir, "nope.png"), false)
	var readErr *renderer.FileReadError
	if !errors.As(err, &readErr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file should be a FileReadError, got %v", err)
	}

	garbage := writeFile(t, dir, "garbage.png", "definitely not a png")
	_, err = renderer.LoadImage(garbage, false)
	var decodeErr *renderer.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Path != garbage {
		t.Errorf("garbage should be a DecodeError, got %v", err)
	}
}

func TestLoadImageFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.png")
	if err := os.WriteFile(path, encodePNG(t, twoRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := renderer.LoadImage(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 1 || img.Height != 2 {
		t.Errorf("unexpected size %dx%d", img.Width, img.Height)
	}
}

func TestCheckerImage(t *testing.T) {
	a := color.RGBA{R: 255, B: 255, A: 255}
	b := color.RGBA{A: 255}
	img := renderer.CheckerImage(4, 2, a, b)

	at := func(x, y int) color.RGBA {
		i := (y*4 + x) * 4
		return color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
	}
	if at(0, 0) != a || at(1, 1) != a || at(2, 0) != b || at(0, 2) != b || at(3, 3) != a {
		t.Error("unexpected checker layout")
	}
}

func TestNoiseImageDeterministic(t *testing.T) {
	first := renderer.NoiseImage(16, 42)
	second := renderer.NoiseImage(16, 42)
	other := renderer.NoiseImage(16, 43)

	if first.Format != renderer.FormatRed || len(first.Pix) != 16*16 {
		t.Fatalf("unexpected noise image %dx%d %s", first.Width, first.Height, first.Format)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("the same seed should give the same pixels")
	}
	if bytes.Equal(first.Pix, other.Pix) {
		t.Error("different seeds should give different pixels")
	}
}

func TestFormatForChannels(t *testing.T) {
	for channels, want := range map[int]renderer.PixelFormat{
		1: renderer.FormatRed,
		3: renderer.FormatRGB,
		4: renderer.FormatRGBA,
	} {
		if got, ok := renderer.FormatForChannels(channels); !ok || got != want {
			t.Errorf("%d channels: got %s", channels, got)
		}
	}
	if _, ok := renderer.FormatForChannels(2); ok {
		t.Error("two channels should be unsupported")
	}
}
