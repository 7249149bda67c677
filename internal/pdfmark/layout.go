package pdfmark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Line - строка текста со страницы, координаты в пунктах PDF
type Line struct {
	Top      float64
	Left     float64
	Height   float64
	FontSize float64
	Text     string
}

// Box - прямоугольник для подсветки, в пунктах PDF
type Box struct {
	X0, Y0, X1, Y1 float64
}

var styleProp = regexp.MustCompile(`([a-z-]+)\s*:\s*([^;]+)`)

// ParseLayout разбирает structured-text HTML, который MuPDF отдает для страницы:
// каждая строка это <p style="top:..pt;left:..pt;line-height:..pt">
func ParseLayout(layout string) ([]Line, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(layout))
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	var lines []Line
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		style := parseStyle(p.AttrOr("style", ""))

		top, okTop := style["top"]
		left, okLeft := style["left"]
		if !okTop || !okLeft {
			return
		}

		text := p.Text()
		if strings.TrimSpace(text) == "" {
			return
		}

		line := Line{
			Top:    top,
			Left:   left,
			Height: style["line-height"],
			Text:   text,
		}

		if span := p.Find("span").First(); span.Length() > 0 {
			line.FontSize = parseStyle(span.AttrOr("style", ""))["font-size"]
		}
		if line.FontSize == 0 {
			line.FontSize = line.Height
		}
		if line.Height == 0 {
			line.Height = line.FontSize
		}

		lines = append(lines, line)
	})

	return lines, nil
}

func parseStyle(style string) map[string]float64 {
	props := make(map[string]float64)

	for _, m := range styleProp.FindAllStringSubmatch(style, -1) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(m[2]), "pt"), 64)
		if err != nil {
			continue
		}
		props[m[1]] = v
	}

	return props
}

type segment struct {
	line  int
	start int
	runes []rune
	// hyphen: строка кончается переносом, в тексте поиска его нет
	hyphen bool
}

// size - длина сегмента в тексте поиска
func (s segment) size() int {
	if s.hyphen {
		return len(s.runes) - 1
	}
	return len(s.runes)
}

// Find ищет phrase в тексте страницы без учета регистра и пробелов. Фраза может
// переходить на следующую строку, тогда на каждую строку будет свой Box
func Find(lines []Line, phrase string) []Box {
	needle := normalize(phrase)
	if len(needle) == 0 {
		return nil
	}

	var (
		hay      []rune
		segments []segment
	)

	for i, l := range lines {
		text := normalize(l.Text)
		if len(text) == 0 {
			continue
		}

		if n := len(segments); n > 0 {
			prev := &segments[n-1]
			if prev.runes[len(prev.runes)-1] == '-' && len(prev.runes) > 1 && unicode.IsLetter(text[0]) {
				// "inter-" + "national" ищется как "international"
				prev.hyphen = true
				hay = hay[:len(hay)-1]
			} else {
				hay = append(hay, ' ')
			}
		}

		segments = append(segments, segment{line: i, start: len(hay), runes: text})
		hay = append(hay, text...)
	}

	var boxes []Box
	for from := 0; ; {
		idx := indexRunes(hay[from:], needle)
		if idx < 0 {
			break
		}

		start := from + idx
		end := start + len(needle)

		for _, seg := range segments {
			a := max(start, seg.start) - seg.start
			b := min(end, seg.start+seg.size()) - seg.start
			if a >= b {
				continue
			}
			if seg.hyphen && b == seg.size() && end > seg.start+b {
				b++
			}

			l := lines[seg.line]
			boxes = append(boxes, Box{
				X0: l.Left + textWidth(seg.runes[:a], l.FontSize),
				Y0: l.Top,
				X1: l.Left + textWidth(seg.runes[:b], l.FontSize),
				Y1: l.Top + l.Height,
			})
		}

		from = end
	}

	return boxes
}

// normalize схлопывает пробелы и приводит к нижнему регистру, длина в рунах
// совпадает посимвольно с видимым текстом
func normalize(s string) []rune {
	out := make([]rune, 0, len(s))
	space := false

	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}

		if space {
			out = append(out, ' ')
			space = false
		}
		out = append(out, unicode.ToLower(r))
	}

	return out
}

func indexRunes(hay, needle []rune) int {
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}

		if match {
			return i
		}
	}

	return -1
}

// Ширина текста по грубым метрикам пропорционального шрифта
func textWidth(runes []rune, fontSize float64) float64 {
	var w float64
	for _, r := range runes {
		w += charWidth(r)
	}

	return w * fontSize
}

func charWidth(r rune) float64 {
	switch {
	case strings.ContainsRune("ijlt.,:;'|!()[] f", r):
		return 0.3
	case strings.ContainsRune("mwMW", r):
		return 0.78
	case unicode.IsUpper(r):
		return 0.66
	case unicode.IsDigit(r):
		return 0.5
	default:
		return 0.48
	}
}
