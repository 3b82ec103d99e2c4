// Package imaging renders recolored armor previews. Each piece kind has a
// grayscale template; a preview multiplies the template's luminance by the
// target color per pixel and scales the result to the requested size.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"golang.org/x/image/draw"

	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/piece"
)

// Preview size bounds. Requests outside the range are clamped.
const (
	MinSize     = 16
	MaxSize     = 512
	DefaultSize = 128
)

// DefaultCacheEntries bounds the rendered-preview cache. A preview is ~1-10 KB,
// so the default tops out around a few MB.
const DefaultCacheEntries = 512

// templates are 16x16 grayscale sprites, one per piece kind. '#' is a bright
// pixel, '+' mid, '.' dark, space transparent.
var templates = map[piece.Kind][]string{
	piece.Helmet: {
		"                ",
		"     ######     ",
		"   ##########   ",
		"  ####++++####  ",
		"  ###++++++###  ",
		"  ###++++++###  ",
		"  ###++++++###  ",
		"  ####....####  ",
		"  ###  ..  ###  ",
		"  ###      ###  ",
		"  ###      ###  ",
		"  ####    ####  ",
		"                ",
		"                ",
		"                ",
		"                ",
	},
	piece.Chestplate: {
		"                ",
		"  ###      ###  ",
		"  ####    ####  ",
		"  ############  ",
		"  ###++++++###  ",
		"  ###++++++###  ",
		"  ###++++++###  ",
		"  ###++++++###  ",
		"   ##++++++##   ",
		"   ##++++++##   ",
		"   ##......##   ",
		"   ##########   ",
		"    ########    ",
		"                ",
		"                ",
		"                ",
	},
	piece.Leggings: {
		"                ",
		"   ##########   ",
		"   ##########   ",
		"   ##++++++##   ",
		"   ##++##++##   ",
		"   ##+#  #+##   ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   .##    ##.   ",
		"   .##    ##.   ",
		"   ###    ###   ",
		"                ",
		"                ",
		"                ",
	},
	piece.Boots: {
		"                ",
		"                ",
		"                ",
		"                ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   ###    ###   ",
		"   ###+   ###+  ",
		"   ####+  ####+ ",
		"   #####+ #####+",
		"   ###### ######",
		"   .....+ .....+",
		"                ",
		"                ",
		"                ",
	},
}

// luminance values for the sprite characters.
var shades = map[byte]uint8{
	'#': 230,
	'+': 180,
	'.': 120,
}

type cacheKey struct {
	kind  piece.Kind
	color string
	size  int
}

// Renderer renders previews with a bounded in-process cache. The cache
// replaces the ambient global memoization of the original UI; lifecycle is
// owned by whoever constructs the Renderer.
type Renderer struct {
	mu      sync.Mutex
	cache   map[cacheKey][]byte
	order   []cacheKey // insertion order, evicted oldest-first
	maxSize int
}

// NewRenderer creates a renderer whose cache holds at most maxEntries
// previews. Non-positive values fall back to DefaultCacheEntries.
func NewRenderer(maxEntries int) *Renderer {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Renderer{
		cache:   make(map[cacheKey][]byte),
		maxSize: maxEntries,
	}
}

// Preview returns a PNG of the piece template tinted with the given color.
// The color must be canonical ("#RRGGBB"); size is clamped to
// [MinSize, MaxSize].
func (r *Renderer) Preview(kind piece.Kind, colorHex string, size int) ([]byte, error) {
	if !piece.Valid(kind) {
		return nil, fmt.Errorf("unknown piece kind %q", kind)
	}
	tr, tg, tb, ok := hexcolor.Components(colorHex)
	if !ok {
		return nil, fmt.Errorf("invalid color %q", colorHex)
	}
	if size < MinSize {
		size = MinSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	key := cacheKey{kind: kind, color: colorHex, size: size}
	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	img := tint(templates[kind], tr, tg, tb)
	img = scale(img, size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	data := buf.Bytes()

	r.mu.Lock()
	if _, exists := r.cache[key]; !exists {
		for len(r.cache) >= r.maxSize {
			oldest := r.order[0]
			r.order = r.order[1:]
			delete(r.cache, oldest)
		}
		r.cache[key] = data
		r.order = append(r.order, key)
	}
	r.mu.Unlock()

	return data, nil
}

// CacheLen reports the number of cached previews.
func (r *Renderer) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// tint renders a sprite with each pixel's luminance multiplied by the target
// channel values. Unset pixels stay transparent.
func tint(sprite []string, tr, tg, tb int) *image.RGBA {
	h := len(sprite)
	w := len(sprite[0])
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y, row := range sprite {
		for x := 0; x < len(row); x++ {
			lum, ok := shades[row[x]]
			if !ok {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(int(lum) * tr / 255),
				G: uint8(int(lum) * tg / 255),
				B: uint8(int(lum) * tb / 255),
				A: 255,
			})
		}
	}
	return img
}

// scale resizes the tinted sprite to size x size. Nearest neighbor keeps the
// hard sprite edges; anything smoother blurs the armor outline.
func scale(img *image.RGBA, size int) *image.RGBA {
	if img.Bounds().Dx() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
