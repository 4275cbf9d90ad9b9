// Package banner renders short CJK search terms as large half-block art
// (▀▄█) for the results header.
package banner

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MaxGlyphs is the longest term rendered as a banner.
const MaxGlyphs = 4

// fontPaths are common CJK font locations.
var fontPaths = []string{
	// macOS
	"/System/Library/Fonts/STHeiti Light.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\simsun.ttc",
}

// Renderer draws glyphs with one font face and caches the output.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	text       string
	cols, rows int
}

var (
	systemOnce     sync.Once
	systemRenderer *Renderer
)

// System returns a renderer using the first CJK font found on this machine.
// The renderer is nil-safe: without a font it renders nothing.
func System() *Renderer {
	systemOnce.Do(func() {
		systemRenderer = NewRenderer(loadFace(fontPaths))
	})
	return systemRenderer
}

// NewRenderer creates a renderer for face. face may be nil.
func NewRenderer(face font.Face) *Renderer {
	return &Renderer{face: face, cache: make(map[cacheKey]string)}
}

func loadFace(paths []string) font.Face {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		// Try parsing as font collection first
		if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
			if fnt, err := coll.Font(0); err == nil {
				if face, err := opentype.NewFace(fnt, opts); err == nil {
					return face
				}
			}
		}

		if fnt, err := opentype.Parse(data); err == nil {
			if face, err := opentype.NewFace(fnt, opts); err == nil {
				return face
			}
		}
	}
	return nil
}

// Available reports whether a font face is loaded.
func (r *Renderer) Available() bool {
	return r != nil && r.face != nil
}

// Eligible reports whether term is short Han text worth a banner.
func Eligible(term string) bool {
	n := 0
	for _, c := range term {
		if !unicode.Is(unicode.Han, c) {
			return false
		}
		n++
	}
	return n > 0 && n <= MaxGlyphs
}

// Render draws term with each glyph cols cells wide and rows cells high.
// It returns "" when term is not eligible or no font is available.
func (r *Renderer) Render(term string, cols, rows int) string {
	if !r.Available() || !Eligible(term) || cols <= 0 || rows <= 0 {
		return ""
	}

	key := cacheKey{text: term, cols: cols, rows: rows}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	var glyphs [][]string
	for _, c := range term {
		glyphs = append(glyphs, strings.Split(r.renderGlyph(c, cols, rows), "\n"))
	}
	out := joinHorizontal(glyphs, rows)
	r.cache[key] = out
	return out
}

func (r *Renderer) renderGlyph(c rune, cols, rows int) string {
	bounds, _, _ := r.face.GlyphBounds(c)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	src := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P((srcWidth-glyphWidth)/2, srcHeight-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(string(c))

	// rows*2 because each cell holds two vertical pixels
	return toHalfBlocks(scaleDown(src, cols, rows*2), cols, rows)
}

func joinHorizontal(glyphs [][]string, rows int) string {
	lines := make([]string, rows)
	for i := range lines {
		parts := make([]string, 0, len(glyphs))
		for _, g := range glyphs {
			if i < len(g) {
				parts = append(parts, g[i])
			}
		}
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

// toHalfBlocks converts a grayscale image to half-block art.
func toHalfBlocks(img *image.Gray, cols, rows int) string {
	const threshold = 40

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
