// Package imageprocessor уменьшает загруженные фото документов арендаторов.
package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
)

var ErrInvalidImage = errors.New("invalid image")

// ImageSize: ограничивающий прямоугольник
type ImageSize struct {
	Width  int
	Height int
}

// SizeDocument: больше этого скан документа не хранится
var SizeDocument = ImageSize{Width: 1600, Height: 1600}

// Processor пережимает изображения. Перекодирование заодно выбрасывает EXIF.
type Processor struct {
	quality int // JPEG quality (1-100)
	max     ImageSize
}

func NewProcessor(quality int, limit ImageSize) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality, max: limit}
}

// Supports: обрабатываются только jpeg и png, остальное сохраняется как есть
func Supports(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Process декодирует, при необходимости уменьшает и кодирует в исходный формат
func (p *Processor) Process(reader io.Reader) (io.Reader, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img = p.fit(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality})
	case "png":
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidImage, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return &buf, nil
}

// fit уменьшает изображение с сохранением пропорций; маленькие не трогает
func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= p.max.Width && height <= p.max.Height {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth, newHeight := p.max.Width, p.max.Height
	if float64(p.max.Width)/float64(p.max.Height) > ratio {
		newWidth = int(float64(p.max.Height) * ratio)
	} else {
		newHeight = int(float64(p.max.Width) / ratio)
	}
	newWidth, newHeight = max(newWidth, 1), max(newHeight, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
