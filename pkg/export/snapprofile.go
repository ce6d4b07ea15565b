// Package export renders snap profiles: how a sheet's height and settle
// target respond to drag translation under a given behavior.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
	"github.com/Dicklesworthstone/bottomsheet/pkg/snap"
)

// ErrUnknownFormat is returned for output formats other than svg and png
var ErrUnknownFormat = errors.New("unknown snap profile format")

const (
	profileWidth  = 900
	profileHeight = 560
	margin        = 60
	profileSteps  = 240
)

// SnapProfileOptions controls SaveSnapProfile
type SnapProfileOptions struct {
	Path     string
	Format   string // "svg" or "png"; inferred from Path when empty
	Behavior model.Behavior
	Height   float64 // available height in points
	// Translations is the [min, max] range to plot. A zero range spans
	// minus to plus Height.
	Translations [2]float64
	Labels       func(model.Detent) string
}

// ProfilePoint is one sampled translation
type ProfilePoint struct {
	Translation float64
	Height      float64 // ResolveHeight during the drag
	Target      float64 // resting height of a slow release at this translation
}

// Profile samples the height and slow-release target across the range.
// The behavior's detent set is not modified.
func Profile(opts SnapProfileOptions) []ProfilePoint {
	lo, hi := translationRange(opts)
	set := opts.Behavior.Detents
	engine := snap.NewEngine()
	resting := set.Current().ToAbsolute(opts.Height)

	points := make([]ProfilePoint, 0, profileSteps+1)
	for i := 0; i <= profileSteps; i++ {
		tr := lo + (hi-lo)*float64(i)/profileSteps
		target := engine.ResolveSnapTarget(opts.Height, resting, tr, 0, set, opts.Behavior.Drag)
		points = append(points, ProfilePoint{
			Translation: tr,
			Height:      engine.ResolveHeight(opts.Height, tr, set, opts.Behavior.Drag),
			Target:      target.ToAbsolute(opts.Height),
		})
	}
	return points
}

// SaveSnapProfile writes the profile plot to opts.Path
func SaveSnapProfile(opts SnapProfileOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("snap profile path is empty")
	}
	if opts.Behavior.Detents == nil {
		opts.Behavior.Detents = model.DefaultDetentSet()
	}
	if opts.Height <= 0 {
		opts.Height = model.DefaultReferenceHeight
	}
	if opts.Labels == nil {
		opts.Labels = model.Detent.String
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	}

	points := Profile(opts)
	switch format {
	case "svg":
		return saveSVG(opts, points)
	case "png":
		return savePNG(opts, points)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func translationRange(opts SnapProfileOptions) (float64, float64) {
	lo, hi := opts.Translations[0], opts.Translations[1]
	if lo == hi {
		return -opts.Height, opts.Height
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// plotter maps profile coordinates to image pixels
type plotter struct {
	lo, hi float64
	height float64
}

func newPlotter(opts SnapProfileOptions) plotter {
	lo, hi := translationRange(opts)
	return plotter{lo: lo, hi: hi, height: opts.Height}
}

func (p plotter) x(translation float64) float64 {
	return margin + (translation-p.lo)/(p.hi-p.lo)*(profileWidth-2*margin)
}

// y maps heights in [0, 1.25*height] to the plot area, larger heights up
func (p plotter) y(h float64) float64 {
	top := p.height * 1.25
	h = math.Max(0, math.Min(h, top))
	return profileHeight - margin - h/top*(profileHeight-2*margin)
}

func title(opts SnapProfileOptions) string {
	return fmt.Sprintf("snap profile  height=%.0fpt  current=%s  resistance=%.2f",
		opts.Height, opts.Labels(opts.Behavior.Detents.Current()), opts.Behavior.Drag.Resistance())
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return nil
}

func saveSVG(opts SnapProfileOptions, points []ProfilePoint) error {
	if err := ensureDir(opts.Path); err != nil {
		return err
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	defer f.Close()

	p := newPlotter(opts)
	canvas := svg.New(f)
	canvas.Start(profileWidth, profileHeight)
	canvas.Rect(0, 0, profileWidth, profileHeight, "fill:#1e1e2e")
	canvas.Text(margin, margin/2, title(opts), "fill:#cdd6f4;font-family:monospace;font-size:13px")

	for _, d := range opts.Behavior.Detents.Values() {
		y := int(p.y(d.ToAbsolute(opts.Height)))
		canvas.Line(margin, y, profileWidth-margin, y, "stroke:#45475a;stroke-dasharray:4,4")
		canvas.Text(profileWidth-margin+6, y+4, opts.Labels(d), "fill:#a6adc8;font-family:monospace;font-size:11px")
	}
	zero := int(p.x(0))
	canvas.Line(zero, margin, zero, profileHeight-margin, "stroke:#585b70")

	xs := make([]int, len(points))
	heights := make([]int, len(points))
	targets := make([]int, len(points))
	for i, pt := range points {
		xs[i] = int(p.x(pt.Translation))
		heights[i] = int(p.y(pt.Height))
		targets[i] = int(p.y(pt.Target))
	}
	canvas.Polyline(xs, targets, "fill:none;stroke:#f9e2af;stroke-width:2;stroke-dasharray:6,3")
	canvas.Polyline(xs, heights, "fill:none;stroke:#89b4fa;stroke-width:2")

	canvas.Text(margin, profileHeight-margin/3, "translation (pt, + is down)", "fill:#a6adc8;font-family:monospace;font-size:11px")
	canvas.End()
	return f.Close()
}

func savePNG(opts SnapProfileOptions, points []ProfilePoint) error {
	p := newPlotter(opts)
	dc := gg.NewContext(profileWidth, profileHeight)
	dc.SetColor(color.RGBA{0x1e, 0x1e, 0x2e, 0xff})
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(color.RGBA{0xcd, 0xd6, 0xf4, 0xff})
	dc.DrawString(title(opts), margin, margin/2)

	dc.SetLineWidth(1)
	for _, d := range opts.Behavior.Detents.Values() {
		y := p.y(d.ToAbsolute(opts.Height))
		dc.SetColor(color.RGBA{0x45, 0x47, 0x5a, 0xff})
		dc.SetDash(4, 4)
		dc.DrawLine(margin, y, profileWidth-margin, y)
		dc.Stroke()
		dc.SetColor(color.RGBA{0xa6, 0xad, 0xc8, 0xff})
		dc.DrawString(opts.Labels(d), profileWidth-margin+6, y+4)
	}
	dc.SetDash()
	dc.SetColor(color.RGBA{0x58, 0x5b, 0x70, 0xff})
	dc.DrawLine(p.x(0), margin, p.x(0), profileHeight-margin)
	dc.Stroke()

	dc.SetLineWidth(2)
	dc.SetColor(color.RGBA{0xf9, 0xe2, 0xaf, 0xff})
	dc.SetDash(6, 3)
	for i, pt := range points {
		if i == 0 {
			dc.MoveTo(p.x(pt.Translation), p.y(pt.Target))
			continue
		}
		dc.LineTo(p.x(pt.Translation), p.y(pt.Target))
	}
	dc.Stroke()

	dc.SetDash()
	dc.SetColor(color.RGBA{0x89, 0xb4, 0xfa, 0xff})
	for i, pt := range points {
		if i == 0 {
			dc.MoveTo(p.x(pt.Translation), p.y(pt.Height))
			continue
		}
		dc.LineTo(p.x(pt.Translation), p.y(pt.Height))
	}
	dc.Stroke()

	dc.SetColor(color.RGBA{0xa6, 0xad, 0xc8, 0xff})
	dc.DrawString("translation (pt, + is down)", margin, profileHeight-margin/3)

	if err := ensureDir(opts.Path); err != nil {
		return err
	}
	return dc.SavePNG(opts.Path)
}
