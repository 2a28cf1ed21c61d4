package transfer

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/palette-transfer/internal/colorcache"
	"github.com/ironsheep/palette-transfer/internal/palette"
)

// DefaultChunkSize is the number of pixels handed to a worker at a time.
const DefaultChunkSize = 4096

// Mapper projects pixels onto a palette space, memoizing every color.
//
// A Mapper is safe for concurrent use; concurrent mappings share its cache.
type Mapper struct {
	space     *palette.Space
	cache     *colorcache.Cache
	workers   int
	chunkSize int
	progress  *Progress
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithWorkers bounds the number of goroutines a mapping uses.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(m *Mapper) {
		m.workers = n
	}
}

// WithChunkSize sets how many pixels a worker claims at once.
func WithChunkSize(n int) Option {
	return func(m *Mapper) {
		m.chunkSize = n
	}
}

// WithProgress attaches a counter advanced once per mapped pixel.
func WithProgress(p *Progress) Option {
	return func(m *Mapper) {
		m.progress = p
	}
}

// WithCache shares an existing cache instead of creating a new one.
func WithCache(c *colorcache.Cache) Option {
	return func(m *Mapper) {
		m.cache = c
	}
}

// NewMapper creates a Mapper for space.
func NewMapper(space *palette.Space, opts ...Option) *Mapper {
	m := &Mapper{
		space:     space,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = colorcache.New()
	}
	if m.workers < 1 {
		m.workers = runtime.GOMAXPROCS(0)
	}
	if m.chunkSize < 1 {
		m.chunkSize = DefaultChunkSize
	}
	return m
}

// Space returns the palette space pixels are projected onto.
func (m *Mapper) Space() *palette.Space {
	return m.space
}

// Cache returns the memoization cache.
func (m *Mapper) Cache() *colorcache.Cache {
	return m.cache
}

// MapColor returns the projection of one color, consulting the cache first.
func (m *Mapper) MapColor(c palette.RGB) (palette.RGB, error) {
	return m.cache.GetOrCompute(c, func() (palette.RGB, error) {
		return m.space.Resolve(c)
	})
}

// MapPixels projects every pixel and returns a new buffer in the same order.
//
// Returns ctx.Err() if the context ends before all chunks are claimed, or the
// first *palette.InternalGeometryError raised by a worker. No buffer is
// returned on error.
func (m *Mapper) MapPixels(ctx context.Context, pixels []palette.RGB) ([]palette.RGB, error) {
	out := make([]palette.RGB, len(pixels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for start := 0; start < len(pixels); start += m.chunkSize {
		if gctx.Err() != nil {
			break
		}
		start := start // per-iteration copy (go 1.21 loop semantics)
		end := min(start+m.chunkSize, len(pixels))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return m.mapChunk(pixels[start:end], out[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Cancellation can stop the loop before any worker observes it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mapper) mapChunk(in, out []palette.RGB) error {
	for i, c := range in {
		v, err := m.MapColor(c)
		if err != nil {
			return fmt.Errorf("map pixel %s: %w", c, err)
		}
		out[i] = v
		if m.progress != nil {
			m.progress.Add(1)
		}
	}
	return nil
}

// MapImage projects every pixel of img and returns an opaque image with the
// same bounds. Colors are read without alpha premultiplication, so a
// translucent pixel maps as its straight color. Alpha is discarded.
func (m *Mapper) MapImage(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	pixels := Pixels(src)

	mapped, err := m.MapPixels(ctx, pixels)
	if err != nil {
		return nil, err
	}
	return FromPixels(src.Bounds(), mapped), nil
}

// Pixels flattens img into row-major RGB triples, dropping alpha.
func Pixels(img *image.NRGBA) []palette.RGB {
	b := img.Bounds()
	w := b.Dx()
	out := make([]palette.RGB, w*b.Dy())
	parallel.Line(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := out[y*w : (y+1)*w]
			for x := range dst {
				p := row[x*4 : x*4+3]
				dst[x] = palette.RGB{R: p[0], G: p[1], B: p[2]}
			}
		}
	})
	return out
}

// FromPixels builds an opaque image from row-major RGB triples.
func FromPixels(bounds image.Rectangle, pixels []palette.RGB) *image.NRGBA {
	img := image.NewNRGBA(bounds)
	w := bounds.Dx()
	parallel.Line(bounds.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x, c := range pixels[y*w : (y+1)*w] {
				row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, 0xFF
			}
		}
	})
	return img
}
