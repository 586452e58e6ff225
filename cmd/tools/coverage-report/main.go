// Command coverage-report renders observation-coverage charts for an
// air-quality data store: per-sensor observed fractions, a sensor-by-month
// coverage heatmap (HTML via go-echarts) and a network-wide daily coverage
// line (PNG via gonum/plot). Test months are flagged in the heatmap axis so
// the evaluation protocol is visible at a glance.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gridsense-data/aqbench/internal/airquality"
	"github.com/gridsense-data/aqbench/internal/frame"
	"github.com/gridsense-data/aqbench/internal/mask"
	"github.com/gridsense-data/aqbench/internal/store"
)

var (
	dbPath = flag.String("db", "airquality.db", "Path to the SQLite data store")
	small  = flag.Bool("small", false, "Use the reduced 36-station variant")
	outDir = flag.String("out", "coverage", "Output directory")
)

func main() {
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store %s: %v", *dbPath, err)
	}
	defer st.Close()

	ds, err := airquality.New(st, airquality.Options{Small: *small})
	if err != nil {
		log.Fatalf("failed to assemble dataset: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	htmlPath := filepath.Join(*outDir, "coverage.html")
	if err := renderHTML(ds, htmlPath); err != nil {
		log.Fatalf("failed to render coverage charts: %v", err)
	}
	pngPath := filepath.Join(*outDir, "daily_coverage.png")
	if err := renderDailyPNG(ds.Frame(), ds.Mask(), pngPath); err != nil {
		log.Fatalf("failed to render daily coverage plot: %v", err)
	}
	log.Printf("coverage report written to %s and %s", htmlPath, pngPath)
}

func renderHTML(ds *airquality.Dataset, path string) error {
	f := ds.Frame()
	obs := ds.Mask()
	rows, cols := obs.Dims()

	// Per-sensor observed fraction.
	x := make([]string, cols)
	y := make([]opts.BarData, cols)
	for j := 0; j < cols; j++ {
		n := 0
		for i := 0; i < rows; i++ {
			n += int(obs.At(i, j))
		}
		x[j] = f.Sensors[j]
		y[j] = opts.BarData{Value: float64(n) / float64(rows)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Observation Coverage", Width: "1200px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-sensor observed fraction", Subtitle: fmt.Sprintf("%d timestamps x %d sensors", rows, cols)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("observed", y)

	// Sensor-by-month coverage heatmap; test months carry a marker in the label.
	months := f.Months()
	testMonth := make(map[int]bool)
	for _, m := range ds.TestMonths() {
		testMonth[m] = true
	}
	yLabels := make([]string, len(months))
	for k, mk := range months {
		yLabels[k] = fmt.Sprintf("%d-%02d", mk.Year, int(mk.Month))
		if testMonth[int(mk.Month)] {
			yLabels[k] += " (test)"
		}
	}
	var cells []opts.HeatMapData
	for k, mk := range months {
		monthRows := f.MonthRows(mk)
		for j := 0; j < cols; j++ {
			n := 0
			for _, i := range monthRows {
				n += int(obs.At(i, j))
			}
			frac := float64(n) / float64(len(monthRows))
			cells = append(cells, opts.HeatMapData{Value: [3]interface{}{j, k, frac}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Monthly coverage by sensor"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: x, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	hm.AddSeries("coverage", cells)

	page := components.NewPage()
	page.AddCharts(bar, hm)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return page.Render(out)
}

// renderDailyPNG plots the fraction of observed cells per day across the
// whole network.
func renderDailyPNG(f *frame.Frame, obs *mask.Mask, path string) error {
	rows, cols := obs.Dims()

	type day struct{ observed, total int }
	days := make(map[string]*day)
	var order []string
	for i := 0; i < rows; i++ {
		key := f.Index[i].Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &day{}
			days[key] = d
			order = append(order, key)
		}
		for j := 0; j < cols; j++ {
			d.total++
			d.observed += int(obs.At(i, j))
		}
	}

	pts := make(plotter.XYs, 0, len(order))
	for k, key := range order {
		d := days[key]
		pts = append(pts, plotter.XY{X: float64(k), Y: float64(d.observed) / float64(d.total)})
	}

	p := plot.New()
	p.Title.Text = "Daily observed fraction (network-wide)"
	p.X.Label.Text = "day"
	p.Y.Label.Text = "fraction observed"
	p.Y.Min, p.Y.Max = 0, 1

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(14*vg.Inch, 4*vg.Inch, path)
}
