// Package imaging applies in-process photo transformations: resizing,
// crop-to-fill, fit-within, grayscale and sepia effects, and rotation in
// 90-degree steps. Transformed output is re-encoded as JPEG. Decoding
// supports JPEG, PNG, GIF, and WebP.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// maxImagePixels guards against decompression bombs.
	maxImagePixels = 50_000_000

	// maxDimension caps requested output width/height.
	maxDimension = 4096

	jpegQuality = 85
)

// Crop modes.
const (
	CropFill = "fill" // scale to cover, then center-crop
	CropFit  = "fit"  // scale to fit within bounds, preserving aspect
)

// Effects.
const (
	EffectGrayscale = "grayscale"
	EffectSepia     = "sepia"
)

// Step describes one transformation. Zero-valued fields are skipped.
// Steps in a request are applied in order.
type Step struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Crop   string `json:"crop,omitempty"`
	Effect string `json:"effect,omitempty"`
	Angle  int    `json:"angle,omitempty"`
}

// Validate reports the first problem with the step, or nil.
func (s Step) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("width and height must not be negative")
	}
	if s.Width > maxDimension || s.Height > maxDimension {
		return fmt.Errorf("width and height must not exceed %d", maxDimension)
	}
	switch s.Crop {
	case "", CropFill, CropFit:
	default:
		return fmt.Errorf("unknown crop mode %q", s.Crop)
	}
	if s.Crop != "" && (s.Width == 0 || s.Height == 0) {
		return fmt.Errorf("crop requires both width and height")
	}
	switch s.Effect {
	case "", EffectGrayscale, EffectSepia:
	default:
		return fmt.Errorf("unknown effect %q", s.Effect)
	}
	switch s.Angle {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("angle must be 90, 180, or 270")
	}
	if s.Width == 0 && s.Height == 0 && s.Effect == "" && s.Angle == 0 {
		return fmt.Errorf("empty transformation step")
	}
	return nil
}

// Apply decodes the source image, runs each step in order, and returns
// the JPEG-encoded result.
func Apply(original []byte, steps []Step) ([]byte, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("no transformation steps")
	}
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	for _, step := range steps {
		img = applyStep(img, step)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func applyStep(img image.Image, step Step) image.Image {
	if step.Width > 0 || step.Height > 0 {
		switch step.Crop {
		case CropFill:
			img = cropFill(img, step.Width, step.Height)
		case CropFit:
			img = scaleFit(img, step.Width, step.Height)
		default:
			img = resize(img, step.Width, step.Height)
		}
	}
	switch step.Effect {
	case EffectGrayscale:
		img = grayscale(img)
	case EffectSepia:
		img = sepia(img)
	}
	if step.Angle != 0 {
		img = rotate(img, step.Angle)
	}
	return img
}

// resize scales to the requested dimensions. A zero width or height is
// derived from the other to preserve aspect ratio.
func resize(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if width == 0 {
		width = bounds.Dx() * height / bounds.Dy()
	}
	if height == 0 {
		height = bounds.Dy() * width / bounds.Dx()
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// scaleFit scales the image to fit within width x height, preserving
// aspect ratio. The output may be smaller than the box in one dimension.
func scaleFit(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	ratioW := float64(width) / float64(bounds.Dx())
	ratioH := float64(height) / float64(bounds.Dy())
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	return resize(img, int(float64(bounds.Dx())*ratio), int(float64(bounds.Dy())*ratio))
}

// cropFill scales the image to cover width x height and center-crops
// the overflow.
func cropFill(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	ratioW := float64(width) / float64(bounds.Dx())
	ratioH := float64(height) / float64(bounds.Dy())
	ratio := ratioW
	if ratioH > ratio {
		ratio = ratioH
	}

	scaledW := int(float64(bounds.Dx())*ratio + 0.5)
	scaledH := int(float64(bounds.Dy())*ratio + 0.5)
	scaled := resize(img, scaledW, scaledH)

	offX := (scaledW - width) / 2
	offY := (scaledH - height) / 2
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(offX, offY), draw.Src)
	return dst
}

func grayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return dst
}

func sepia(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			fr, fg, fb := float64(r>>8), float64(g>>8), float64(b>>8)
			sr := clamp255(0.393*fr + 0.769*fg + 0.189*fb)
			sg := clamp255(0.349*fr + 0.686*fg + 0.168*fb)
			sb := clamp255(0.272*fr + 0.534*fg + 0.131*fb)
			dst.Set(x, y, color.RGBA{sr, sg, sb, uint8(a >> 8)})
		}
	}
	return dst
}

func clamp255(v float64) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// rotate turns the image clockwise by 90, 180, or 270 degrees.
func rotate(img image.Image, angle int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var dst *image.RGBA
	switch angle {
	case 90, 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	default:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch angle {
			case 90:
				dst.Set(h-1-y, x, c)
			case 180:
				dst.Set(w-1-x, h-1-y, c)
			case 270:
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}
