package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/Noofbiz/seqgan/corpus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotLengths writes a PNG histogram of sentence lengths with the mean marked.
func plotLengths(outPath string, s *corpus.Stats, bins int) error {
	if len(s.Lengths) == 0 {
		return fmt.Errorf("no sentences to plot")
	}
	if bins < 1 {
		bins = 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sentence lengths (%d sentences)", s.Lines)
	p.X.Label.Text = "tokens"
	p.Y.Label.Text = "sentences"

	h, err := plotter.NewHist(plotter.Values(s.Lengths), bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 20, G: 80, B: 200, A: 180}
	p.Add(h)

	top := 0.0
	for _, b := range h.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	mean, err := plotter.NewLine(plotter.XYs{{X: s.Mean, Y: 0}, {X: s.Mean, Y: top}})
	if err != nil {
		return err
	}
	mean.Color = color.RGBA{R: 200, G: 30, B: 30, A: 220}
	mean.Width = vg.Points(1.2)
	p.Add(mean)
	p.Legend.Add("mean", mean)
	p.Add(plotter.NewGrid())

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, outPath)
}
