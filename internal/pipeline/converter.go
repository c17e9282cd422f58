// Package pipeline drives bulk RGB <-> HUSL conversion over flat interleaved
// pixel buffers. The forward conversion runs in two barrier-separated stages:
// RGB -> LUV written into the output buffer, then LUV -> HUSL overwriting it
// in place. Within a stage every pixel is independent, so stages are mapped
// over worker goroutines; the stage boundary is a full join so that LUV
// writes are visible before any worker starts the HUSL stage.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"log/slog"

	"github.com/MeKo-Tech/huslpix/internal/husl"
)

const (
	// DefaultMinParallel is the pixel count below which conversion runs
	// sequentially; goroutine dispatch dominates for smaller inputs.
	DefaultMinParallel = 30 * 30

	// DefaultChunkSize is the number of pixels a worker grabs at a time in
	// the dynamically scheduled HUSL stage. Per-pixel cost there is uneven
	// (boundary pixels are cheap, the general path is not), so workers pull
	// chunks from a shared cursor instead of taking a static split.
	DefaultChunkSize = 4096
)

// Options configures a Converter.
type Options struct {
	// Workers is the number of goroutines per stage. 0 uses GOMAXPROCS.
	Workers int
	// MinParallel is the minimum pixel count for parallel execution.
	// 0 uses DefaultMinParallel.
	MinParallel int
	// ChunkSize is the stage-2 work unit in pixels. 0 uses DefaultChunkSize.
	ChunkSize int
	// Strategies selects the per-pixel accuracy/performance strategies.
	Strategies husl.Options
}

// Converter converts flat interleaved pixel buffers. It retains no reference
// to caller buffers across calls and is safe for concurrent use.
type Converter struct {
	conv        *husl.Conv
	logger      *slog.Logger
	workers     int
	minParallel int
	chunkSize   int
}

// New creates a converter over the given tables. A nil tables uses the
// process-wide default set.
func New(tables *husl.Tables, opts Options, logger *slog.Logger) *Converter {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minParallel := opts.MinParallel
	if minParallel <= 0 {
		minParallel = DefaultMinParallel
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Converter{
		conv:        husl.New(tables, opts.Strategies),
		logger:      logger,
		workers:     workers,
		minParallel: minParallel,
		chunkSize:   chunkSize,
	}
}

// ToHUSL converts an interleaved R,G,B byte buffer to an interleaved H,S,L
// float buffer of the same pixel count. The returned buffer is newly
// allocated and owned by the caller.
func (c *Converter) ToHUSL(rgb []uint8) ([]float64, error) {
	n, err := pixelCount(len(rgb))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rgb))
	c.log().Debug("Converting RGB to HUSL", "pixels", n, "workers", c.workers)

	c.runStages(n,
		func(lo, hi int) { c.luvStage(rgb, out, lo, hi) },
		func(lo, hi int) { c.huslStage(rgb, out, lo, hi) },
	)
	return out, nil
}

// ToRGB converts an interleaved H,S,L float buffer back to interleaved 8-bit
// RGB.
func (c *Converter) ToRGB(hsl []float64) ([]uint8, error) {
	n, err := pixelCount(len(hsl))
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(hsl))
	c.log().Debug("Converting HUSL to RGB", "pixels", n, "workers", c.workers)

	// Single stage; max-chroma cost varies with lightness, so schedule
	// dynamically like the forward HUSL stage.
	c.runDynamic(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r, g, b := c.conv.HUSLToRGB(hsl[3*i], hsl[3*i+1], hsl[3*i+2])
			out[3*i], out[3*i+1], out[3*i+2] = r, g, b
		}
	})
	return out, nil
}

// ToHue converts an RGB buffer to one hue value per pixel, sharing the
// two-stage pipeline with ToHUSL but emitting a single channel.
func (c *Converter) ToHue(rgb []uint8) ([]float64, error) {
	n, err := pixelCount(len(rgb))
	if err != nil {
		return nil, err
	}
	luv := make([]float64, len(rgb))
	out := make([]float64, n)

	c.runStages(n,
		func(lo, hi int) { c.luvStage(rgb, luv, lo, hi) },
		func(lo, hi int) {
			for i := lo; i < hi; i++ {
				r, g, b := rgb[3*i], rgb[3*i+1], rgb[3*i+2]
				switch {
				case r == 255 && g == 255 && b == 255:
					out[i] = husl.WhiteHue
				case r == 0 && g == 0 && b == 0:
					out[i] = 0
				default:
					out[i] = c.conv.Hue(luv[3*i+1], luv[3*i+2])
				}
			}
		},
	)
	return out, nil
}

// ToLightness converts an RGB buffer to one lightness value per pixel. Only
// the luminance channel is needed, so this skips the LUV and HUSL stages.
func (c *Converter) ToLightness(rgb []uint8) ([]float64, error) {
	n, err := pixelCount(len(rgb))
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)

	c.runStatic(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r, g, b := rgb[3*i], rgb[3*i+1], rgb[3*i+2]
			switch {
			case r == 255 && g == 255 && b == 255:
				out[i] = husl.WhiteLightness
			case r == 0 && g == 0 && b == 0:
				out[i] = 0
			default:
				out[i] = c.conv.Lightness(luminance(c.conv.Tables(), r, g, b))
			}
		}
	})
	return out, nil
}

// luvStage maps pixels [lo,hi) through RGB -> linear -> XYZ -> LUV.
func (c *Converter) luvStage(rgb []uint8, out []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		l, u, v := c.conv.RGBToLUV(rgb[3*i], rgb[3*i+1], rgb[3*i+2])
		out[3*i], out[3*i+1], out[3*i+2] = l, u, v
	}
}

// huslStage overwrites LUV triples with HUSL in place. The original RGB is
// consulted for the black/white boundary cases.
func (c *Converter) huslStage(rgb []uint8, luvHSL []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		r, g, b := rgb[3*i], rgb[3*i+1], rgb[3*i+2]
		switch {
		case r == 255 && g == 255 && b == 255:
			luvHSL[3*i] = husl.WhiteHue
			luvHSL[3*i+1] = husl.WhiteSaturation
			luvHSL[3*i+2] = husl.WhiteLightness
		case r == 0 && g == 0 && b == 0:
			luvHSL[3*i] = 0
			luvHSL[3*i+1] = 0
			luvHSL[3*i+2] = 0
		default:
			h, s, l := c.conv.LUVToHUSL(luvHSL[3*i], luvHSL[3*i+1], luvHSL[3*i+2])
			luvHSL[3*i] = h
			luvHSL[3*i+1] = s
			luvHSL[3*i+2] = l
		}
	}
}

// runStages runs stage1 to completion over all pixels, then stage2. The
// WaitGroup join between them is the visibility barrier: stage2 reads what
// stage1 wrote.
func (c *Converter) runStages(n int, stage1, stage2 func(lo, hi int)) {
	if !c.parallel(n) {
		stage1(0, n)
		stage2(0, n)
		return
	}
	c.staticSplit(n, stage1)
	c.dynamicSplit(n, stage2)
}

func (c *Converter) runStatic(n int, fn func(lo, hi int)) {
	if !c.parallel(n) {
		fn(0, n)
		return
	}
	c.staticSplit(n, fn)
}

func (c *Converter) runDynamic(n int, fn func(lo, hi int)) {
	if !c.parallel(n) {
		fn(0, n)
		return
	}
	c.dynamicSplit(n, fn)
}

func (c *Converter) parallel(n int) bool {
	return c.workers > 1 && n >= c.minParallel
}

// staticSplit partitions [0,n) evenly across workers. Used for stages with
// uniform per-pixel cost.
func (c *Converter) staticSplit(n int, fn func(lo, hi int)) {
	per := (n + c.workers - 1) / c.workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += per {
		hi := lo + per
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// dynamicSplit hands out fixed-size chunks from a shared cursor until the
// range is exhausted. Used for stages with uneven per-pixel cost.
func (c *Converter) dynamicSplit(n int, fn func(lo, hi int)) {
	var cursor atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				hi := int(cursor.Add(int64(c.chunkSize)))
				lo := hi - c.chunkSize
				if lo >= n {
					return
				}
				if hi > n {
					hi = n
				}
				fn(lo, hi)
			}
		}()
	}
	wg.Wait()
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func pixelCount(length int) (int, error) {
	if length%3 != 0 {
		return 0, fmt.Errorf("buffer length %d is not a multiple of 3", length)
	}
	return length / 3, nil
}

func luminance(t *husl.Tables, r, g, b uint8) float64 {
	return husl.LinearLuminance(t.Linear(r), t.Linear(g), t.Linear(b))
}
