// Package texture decodes model textures and uploads them to OpenGL.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with a zero dimension.
var ErrEmptyImage = errors.New("image has no pixels")

// Filter describes the sampling parameters chosen for a texture size.
type Filter struct {
	Mipmaps   bool
	MinFilter int32
	MagFilter int32
	WrapS     int32
	WrapT     int32
}

// Decode decodes texture bytes into RGBA with rows flipped bottom-up, the
// order glTexImage2D expects for OBJ texture coordinates. The name is only
// consulted to recognize TGA, which has no magic number.
func Decode(data []byte, name string) (*image.RGBA, error) {
	img, err := decodeAny(data, name)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	rgba := ToRGBA(img)
	FlipVertical(rgba)
	return rgba, nil
}

func decodeAny(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Some servers rewrite extensions; TGA is the last thing worth trying.
		if tga, tgaErr := DecodeTGA(data); tgaErr == nil {
			return tga, nil
		}
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// ToRGBA converts any image to a tightly packed *image.RGBA anchored at 0,0.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// FlipVertical reverses the row order of img in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bot := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

// White returns the 1x1 opaque white image used when no texture loads.
// Sampling it leaves the lit color unchanged.
func White() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FilterFor picks sampling parameters for a texture of the given size.
// Power-of-two textures get a mipmap chain with trilinear minification;
// anything else is clamped to the edge and sampled linearly, without mipmaps.
func FilterFor(width, height int) Filter {
	if IsPowerOfTwo(width) && IsPowerOfTwo(height) {
		return Filter{
			Mipmaps:   true,
			MinFilter: gl.LINEAR_MIPMAP_LINEAR,
			MagFilter: gl.LINEAR,
			WrapS:     gl.REPEAT,
			WrapT:     gl.REPEAT,
		}
	}
	return Filter{
		MinFilter: gl.LINEAR,
		MagFilter: gl.LINEAR,
		WrapS:     gl.CLAMP_TO_EDGE,
		WrapT:     gl.CLAMP_TO_EDGE,
	}
}
