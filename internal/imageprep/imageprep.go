package imageprep

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	_ "image/png"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// DefaultJPEGQuality matches what the report pipeline expects from converted
// screenshots.
const DefaultJPEGQuality = 75

// Load decodes the image at path. PNG and JPEG inputs are supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Grayscale converts img into the recognition-friendly representation the OCR
// engine consumes.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// ToJPEG writes a JPEG copy of the image at path into destDir and returns the
// new file's path. Transparency is flattened over white and, when maxWidth is
// positive, wider images are downscaled to it. The caller owns the produced
// file and must delete it.
func ToJPEG(path, destDir string, quality, maxWidth int) (string, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img, err := Load(path)
	if err != nil {
		return "", err
	}

	flat := flatten(img)
	if maxWidth > 0 && flat.Bounds().Dx() > maxWidth {
		flat = downscale(flat, maxWidth)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(destDir, fmt.Sprintf("%s-%s.jpg", base, uuid.NewString()))

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create jpeg: %w", err)
	}
	if err := jpeg.Encode(out, flat, &jpeg.Options{Quality: quality}); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("close jpeg: %w", err)
	}
	return outPath, nil
}

func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

func downscale(img *image.RGBA, maxWidth int) *image.RGBA {
	scale := float64(maxWidth) / float64(img.Bounds().Dx())
	height := int(float64(img.Bounds().Dy()) * scale)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
