package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/bmp"
)

// twoRowImage is 2x2: top row red, bottom row blue.
func twoRowImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
		img.Set(x, 1, color.NRGBA{B: 255, A: 255})
	}
	return img
}

func TestDecode_FlipsRows(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"tex.png": func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) },
		"tex.bmp": func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf, twoRowImage()); err != nil {
				t.Fatalf("encode: %v", err)
			}

			img, err := Decode(buf.Bytes(), name)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got := img.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
				t.Errorf("row 0 = %v, want blue (bottom row first)", got)
			}
			if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("row 1 = %v, want red", got)
			}
		})
	}
}

func TestDecode_TGA(t *testing.T) {
	// 2x1 uncompressed 24-bit, bottom-up: blue then green in BGR order.
	data := make([]byte, 18)
	data[2] = TGATypeUncompressed
	data[12] = 2
	data[14] = 1
	data[16] = 24
	data = append(data, 255, 0, 0, 0, 255, 0)

	img, err := Decode(data, "skin.TGA")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 0 = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel 1 = %v, want green", got)
	}
}

func TestDecodeTGA_RLE(t *testing.T) {
	// 3x1 32-bit top-down: one run packet of 2 red pixels, one raw white pixel.
	data := make([]byte, 18)
	data[2] = TGATypeRLE
	data[12] = 3
	data[14] = 1
	data[16] = 32
	data[17] = 0x20
	data = append(data,
		0x81, 0, 0, 255, 255,
		0x00, 255, 255, 255, 128,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	rgba := img.(*image.RGBA)
	want := []color.RGBA{
		{R: 255, A: 255},
		{R: 255, A: 255},
		{R: 255, G: 255, B: 255, A: 128},
	}
	for x, w := range want {
		if got := rgba.RGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	header := func(imageType, bpp byte) []byte {
		h := make([]byte, 18)
		h[2] = imageType
		h[12], h[14] = 4, 4
		h[16] = bpp
		return h
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", append([]byte{0, 1}, header(2, 24)[2:]...)},
		{"grayscale", header(3, 8)},
		{"16 bit", header(2, 16)},
		{"truncated pixels", append(header(2, 24), 1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"tex.png", []byte("not an image")},
		{"tex.jpg", nil},
		{"tex.tga", []byte{0, 0, 2}},
	}
	for _, tt := range tests {
		if _, err := Decode(tt.data, tt.name); err == nil {
			t.Errorf("Decode(%q) expected error", tt.name)
		}
	}
}

func TestDecode_EmptyTGA(t *testing.T) {
	data := make([]byte, 18)
	data[2] = TGATypeUncompressed
	data[16] = 32
	if _, err := Decode(data, "empty.tga"); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("error = %v, want %v", err, ErrEmptyImage)
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		img.SetRGBA(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	FlipVertical(img)
	for y := 0; y < 3; y++ {
		if got := img.RGBAAt(0, y).R; got != uint8(2-y) {
			t.Errorf("row %d = %d, want %d", y, got, 2-y)
		}
	}
}

func TestWhite(t *testing.T) {
	img := White()
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Fatalf("size = %v, want 1x1", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want opaque white", got)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := map[int]bool{
		-4: false, 0: false, 1: true, 2: true, 3: false,
		64: true, 100: false, 512: true, 1000: false, 1024: true,
	}
	for n, want := range tests {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestFilterFor(t *testing.T) {
	tests := []struct {
		w, h    int
		mipmaps bool
		min     int32
		wrap    int32
	}{
		{512, 512, true, gl.LINEAR_MIPMAP_LINEAR, gl.REPEAT},
		{256, 1024, true, gl.LINEAR_MIPMAP_LINEAR, gl.REPEAT},
		{1, 1, true, gl.LINEAR_MIPMAP_LINEAR, gl.REPEAT},
		{500, 512, false, gl.LINEAR, gl.CLAMP_TO_EDGE},
		{512, 300, false, gl.LINEAR, gl.CLAMP_TO_EDGE},
		{640, 480, false, gl.LINEAR, gl.CLAMP_TO_EDGE},
	}

	for _, tt := range tests {
		f := FilterFor(tt.w, tt.h)
		if f.Mipmaps != tt.mipmaps {
			t.Errorf("%dx%d mipmaps = %v, want %v", tt.w, tt.h, f.Mipmaps, tt.mipmaps)
		}
		if f.MinFilter != tt.min {
			t.Errorf("%dx%d min filter = %#x, want %#x", tt.w, tt.h, f.MinFilter, tt.min)
		}
		if f.WrapS != tt.wrap || f.WrapT != tt.wrap {
			t.Errorf("%dx%d wrap = %#x/%#x, want %#x", tt.w, tt.h, f.WrapS, f.WrapT, tt.wrap)
		}
		if f.MagFilter != gl.LINEAR {
			t.Errorf("%dx%d mag filter = %#x, want LINEAR", tt.w, tt.h, f.MagFilter)
		}
	}
}
