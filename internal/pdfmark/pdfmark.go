// Package pdfmark рендерит первую страницу статьи в PNG с подсвеченным заголовком
// и ключевыми фразами аннотации.
package pdfmark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

const DefaultDPI = 300

// Желтый маркер, как у highlight-аннотации в PDF-ридерах
var markerColor = color.RGBA{R: 255, G: 236, B: 61, A: 255}

type Highlighter struct {
	dpi float64
	// Если > 0, картинка уменьшается до этой ширины
	maxWidth int
}

func New(dpi float64, maxWidth int) *Highlighter {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	return &Highlighter{dpi: dpi, maxWidth: maxWidth}
}

// Render подсвечивает title и spans на первой странице и возвращает PNG.
// Фразы, которых нет на странице, пропускаются
func (h *Highlighter) Render(pdf []byte, title string, spans []string) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, errors.New("pdf has no pages")
	}

	layout, err := doc.HTML(0, false)
	if err != nil {
		return nil, fmt.Errorf("extract layout: %w", err)
	}

	lines, err := ParseLayout(layout)
	if err != nil {
		return nil, err
	}

	var boxes []Box
	for _, phrase := range append([]string{title}, spans...) {
		if strings.TrimSpace(phrase) == "" {
			continue
		}

		found := Find(lines, phrase)
		if len(found) == 0 {
			log.Printf("[WARN] text %q not found on the first page", phrase)
			continue
		}

		boxes = append(boxes, found...)
	}

	page, err := doc.ImageDPI(0, h.dpi)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	Paint(page, boxes, h.dpi/72)

	var out image.Image = page
	if h.maxWidth > 0 && page.Bounds().Dx() > h.maxWidth {
		out = scaleToWidth(page, h.maxWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// PageText возвращает текст всех страниц, обрезанный до limit символов
func PageText(pdf []byte, limit int) (string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extract text of page %d: %w", i, err)
		}

		sb.WriteString(text)
		if limit > 0 && sb.Len() >= limit*4 {
			break
		}
	}

	return truncateRunes(sb.String(), limit), nil
}

// Paint умножает пиксели внутри boxes на цвет маркера. Текст под маркером
// остается темным. scale переводит пункты PDF в пиксели
func Paint(img *image.RGBA, boxes []Box, scale float64) {
	bounds := img.Bounds()

	for _, b := range boxes {
		r := image.Rect(
			int(b.X0*scale), int(b.Y0*scale),
			int(b.X1*scale+0.5), int(b.Y1*scale+0.5),
		).Add(bounds.Min).Intersect(bounds)

		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				i := img.PixOffset(x, y)
				img.Pix[i+0] = multiply(img.Pix[i+0], markerColor.R)
				img.Pix[i+1] = multiply(img.Pix[i+1], markerColor.G)
				img.Pix[i+2] = multiply(img.Pix[i+2], markerColor.B)
			}
		}
	}
}

func multiply(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 255)
}

func scaleToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	return dst
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
