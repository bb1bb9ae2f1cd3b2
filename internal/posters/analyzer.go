// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package posters

import (
	"bytes"
	"fmt"
	"image"
	// Poster files arrive as JPEG or PNG; register both decoders.
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/danw628/cinelog/internal/models"
)

const (
	// maxSampleDim bounds the sampling grid. Larger posters are read at an
	// integer stride; the global statistics survive the downsampling.
	maxSampleDim = 256

	// paletteSize is how many dominant colors a poster reports.
	paletteSize = 5

	// edgeThreshold is the luminance gradient magnitude above which a
	// pixel counts towards the text ratio estimate.
	edgeThreshold = 20.0
)

// Style tag thresholds on the normalized brightness and contrast scores,
// and on the palette variance that separates colorful from muted posters.
const (
	darkBelow         = 0.3
	brightAbove       = 0.7
	highContrastAbove = 0.6
	lowContrastBelow  = 0.3
	colorfulVariance  = 1000.0
)

// AnalyzeImage computes the visual features of a decoded poster. The
// caller fills ImdbID before persisting; AnalyzedAt is stamped by the
// store on write.
func AnalyzeImage(img image.Image) *models.PosterAnalysis {
	f := sampleFrame(img)
	mean, stddev := meanStddev(f.lum)
	brightness := mean / 255
	contrast := stddev / 128

	colors := f.dominantColors(paletteSize)
	hex := make([]string, 0, len(colors))
	for _, c := range colors {
		hex = append(hex, fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
	}

	return &models.PosterAnalysis{
		DominantColors:  hex,
		BrightnessScore: brightness,
		ContrastScore:   contrast,
		TextRatio:       f.edgeRatio(),
		FaceCount:       0,
		StyleTags:       styleTags(brightness, contrast, colors),
	}
}

// AnalyzeBytes decodes an in-memory poster image and analyzes it.
func AnalyzeBytes(data []byte) (*models.PosterAnalysis, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode poster image: %w", err)
	}
	return AnalyzeImage(img), nil
}

// AnalyzeFile reads and analyzes a poster stored on disk.
func AnalyzeFile(path string) (*models.PosterAnalysis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open poster file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode poster %s: %w", filepath.Base(path), err)
	}
	return AnalyzeImage(img), nil
}

// frame is the downsampled pixel grid a poster is analyzed on: one
// grayscale luminance value (0-255) and one RGB triple per sample.
type frame struct {
	w, h int
	lum  []float64
	rgb  [][3]uint8
}

func sampleFrame(img image.Image) *frame {
	bounds := img.Bounds()
	step := 1
	for bounds.Dx()/step > maxSampleDim || bounds.Dy()/step > maxSampleDim {
		step++
	}

	f := &frame{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		f.h++
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			if f.h == 1 {
				f.w++
			}
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			f.rgb = append(f.rgb, [3]uint8{r8, g8, b8})
			f.lum = append(f.lum, 0.299*float64(r8)+0.587*float64(g8)+0.114*float64(b8))
		}
	}
	return f
}

func (f *frame) at(x, y int) float64 {
	return f.lum[y*f.w+x]
}

// grad is the central-difference luminance gradient at (x, y) along one
// axis, degrading to a one-sided difference at the frame borders.
func (f *frame) grad(x, y, dx, dy int) float64 {
	x0, y0 := x-dx, y-dy
	x1, y1 := x+dx, y+dy
	span := 2.0
	if x0 < 0 || y0 < 0 {
		x0, y0 = x, y
		span--
	}
	if x1 >= f.w || y1 >= f.h {
		x1, y1 = x, y
		span--
	}
	if span <= 0 {
		return 0
	}
	return (f.at(x1, y1) - f.at(x0, y0)) / span
}

// edgeRatio estimates how much of the poster is covered by text and other
// hard detail: the fraction of samples whose luminance gradient exceeds
// edgeThreshold, doubled and capped at 1.
func (f *frame) edgeRatio() float64 {
	if f.w == 0 || f.h == 0 {
		return 0
	}
	edges := 0
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			gx := f.grad(x, y, 1, 0)
			gy := f.grad(x, y, 0, 1)
			if math.Sqrt(gx*gx+gy*gy) > edgeThreshold {
				edges++
			}
		}
	}
	return math.Min(2*float64(edges)/float64(f.w*f.h), 1)
}

// dominantColors buckets every sample into a 512-cell RGB histogram (three
// bits per channel) and returns the average color of the n fullest cells,
// most frequent first. Ties order by bucket key so results are stable.
func (f *frame) dominantColors(n int) [][3]uint8 {
	type bucket struct {
		key     uint16
		count   int
		r, g, b int
	}
	cells := make(map[uint16]*bucket)
	for _, px := range f.rgb {
		key := uint16(px[0]>>5)<<6 | uint16(px[1]>>5)<<3 | uint16(px[2]>>5)
		cell := cells[key]
		if cell == nil {
			cell = &bucket{key: key}
			cells[key] = cell
		}
		cell.count++
		cell.r += int(px[0])
		cell.g += int(px[1])
		cell.b += int(px[2])
	}

	ordered := make([]*bucket, 0, len(cells))
	for _, cell := range cells {
		ordered = append(ordered, cell)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}

	colors := make([][3]uint8, 0, len(ordered))
	for _, cell := range ordered {
		colors = append(colors, [3]uint8{
			uint8(cell.r / cell.count),
			uint8(cell.g / cell.count),
			uint8(cell.b / cell.count),
		})
	}
	return colors
}

func styleTags(brightness, contrast float64, colors [][3]uint8) []string {
	tags := make([]string, 0, 3)

	switch {
	case brightness < darkBelow:
		tags = append(tags, "dark")
	case brightness > brightAbove:
		tags = append(tags, "bright")
	default:
		tags = append(tags, "balanced")
	}

	switch {
	case contrast > highContrastAbove:
		tags = append(tags, "high-contrast")
	case contrast < lowContrastBelow:
		tags = append(tags, "low-contrast")
	default:
		tags = append(tags, "medium-contrast")
	}

	if len(colors) > 0 {
		if colorSpread(colors) > colorfulVariance {
			tags = append(tags, "colorful")
		} else {
			tags = append(tags, "muted")
		}
	}
	return tags
}

// colorSpread is the variance, across the top dominant colors, of each
// color's own channel variance. Palettes mixing saturated and neutral
// colors score high; uniform palettes score near zero.
func colorSpread(colors [][3]uint8) float64 {
	if len(colors) > 3 {
		colors = colors[:3]
	}
	variances := make([]float64, 0, len(colors))
	for _, c := range colors {
		_, sd := meanStddev([]float64{float64(c[0]), float64(c[1]), float64(c[2])})
		variances = append(variances, sd*sd)
	}
	_, sd := meanStddev(variances)
	return sd * sd
}

func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return mean, math.Sqrt(sum / float64(len(values)))
}
