package bench

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"foc-svm/pwmbus"
	"foc-svm/svm"
)

// Sweep rotates a command of the given magnitude through one electrical
// revolution in steps equal increments and returns the latched result of
// each step.
func Sweep(cfg svm.Config, mode svm.Mode, magnitude float64, steps int) ([]Record, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("sweep: steps must be positive, got %d", steps)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("sweep: %w: %d", svm.ErrInvalidMode, int(mode))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	ch := NewChannel(cfg)
	defer ch.Destroy()

	recs := make([]Record, 0, steps)
	for k := 0; k < steps; k++ {
		deg := 360 * float64(k) / float64(steps)
		sin, cos := math.Sincos(deg * math.Pi / 180)
		in := Inputs{UA: magnitude * cos, UB: magnitude * sin, Clk: true, Mode: mode}
		out := ch.Step(in)
		in.Clk = false
		ch.Step(in)

		recs = append(recs, Record{
			Sample: pwmbus.Sample{
				Alpha:  in.UA,
				Beta:   in.UB,
				Sector: out.Sector,
				Mode:   mode,
				Duty:   svm.Duty[float64]{out.Ma, out.Mb, out.Mc},
			},
			ThetaDeg: deg,
		})
	}
	return recs, nil
}

var (
	phaseColors = [3]color.RGBA{
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
	cmColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// PlotSweep renders the three duties and the common-mode offset against
// electrical angle as a PNG.
func PlotSweep(recs []Record, title, filename string) error {
	p, err := dutyPlot(recs, title, "electrical angle (deg)", func(r Record) float64 { return r.ThetaDeg })
	if err != nil {
		return err
	}
	p.X.Min, p.X.Max = 0, 360
	return savePlotPNG(p, 8.0, 5.0, filename)
}

// PlotRun renders a scenario run against simulated time.
func PlotRun(recs []Record, title, filename string) error {
	p, err := dutyPlot(recs, title, "time (s)", func(r Record) float64 { return r.T })
	if err != nil {
		return err
	}
	return savePlotPNG(p, 10.0, 5.0, filename)
}

func dutyPlot(recs []Record, title, xlabel string, x func(Record) float64) (*plot.Plot, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("plot data invalid")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "duty"
	p.Add(plotter.NewGrid())

	names := [3]string{"ma", "mb", "mc"}
	for ph := range names {
		pts := make(plotter.XYs, len(recs))
		for i, r := range recs {
			pts[i].X = x(r)
			pts[i].Y = r.Duty[ph]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = phaseColors[ph]
		p.Add(line)
		p.Legend.Add(names[ph], line)
	}

	cm := make(plotter.XYs, len(recs))
	for i, r := range recs {
		cm[i].X = x(r)
		cm[i].Y = r.CommonMode() + 0.5
	}
	line, err := plotter.NewLine(cm)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = cmColor
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	p.Legend.Add("0.5+vcm", line)
	p.Legend.Top = true

	return p, nil
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}
	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
