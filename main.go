// Command aqbench prepares an air-quality sensor dataset for imputation and
// super-resolution benchmarking: it builds the observation, evaluation and
// training masks, the month-aware train/val/test split and the station
// adjacency matrix, and writes them out as plain artifacts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gonum.org/v1/gonum/stat"

	"github.com/gridsense-data/aqbench/internal/airquality"
	"github.com/gridsense-data/aqbench/internal/config"
	"github.com/gridsense-data/aqbench/internal/export"
	"github.com/gridsense-data/aqbench/internal/fsutil"
	"github.com/gridsense-data/aqbench/internal/mask"
	"github.com/gridsense-data/aqbench/internal/similarity"
	"github.com/gridsense-data/aqbench/internal/split"
	"github.com/gridsense-data/aqbench/internal/store"
	"github.com/gridsense-data/aqbench/internal/timeutil"
	"github.com/gridsense-data/aqbench/internal/units"
	"github.com/gridsense-data/aqbench/internal/version"
)

var (
	dbPath      = flag.String("db", "", "Path to the SQLite data store (default $AQBENCH_DB or airquality.db)")
	configPath  = flag.String("config", "", "Optional prep config JSON")
	outDir      = flag.String("out", "prepared", "Output directory for artifacts")
	small       = flag.Bool("small", false, "Use the reduced 36-station variant")
	imputeNaNs  = flag.Bool("impute", false, "Fill missing readings with weekday-by-hour means")
	masked      = flag.String("masked", "", "Comma-separated sensor columns to fully hold out")
	valLen      = flag.Float64("val-len", 0.1, "Validation size: fraction (<1.0) of non-test samples or absolute count")
	window      = flag.Int("window", 0, "Left shift of each validation window (forecast horizon guard)")
	inSample    = flag.Bool("in-sample", false, "Keep all samples in train and validate on pre-test months")
	windowLen   = flag.Int("window-len", 24, "Input window length in time steps")
	horizon     = flag.Int("horizon", 24, "Target horizon length in time steps")
	sparseAdj   = flag.Bool("sparse", false, "Export the adjacency as COO triples instead of a dense matrix")
	distUnits   = flag.String("units", units.KM, "Distance units for the summary log ("+units.GetValidUnitsString()+")")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("aqbench %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if !units.IsValid(*distUnits) {
		log.Fatalf("invalid units %q, valid values: %s", *distUnits, units.GetValidUnitsString())
	}

	// A .env file can carry AQBENCH_DB; absence is fine.
	_ = godotenv.Load()

	path := *dbPath
	if path == "" {
		path = os.Getenv("AQBENCH_DB")
	}
	if path == "" {
		path = "airquality.db"
	}

	cfg := config.EmptyPrepConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPrepConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	applyFlags(cfg)

	maskedSensors := cfg.MaskedSensors
	if *masked != "" {
		var err error
		maskedSensors, err = parseSensorList(*masked)
		if err != nil {
			log.Fatalf("invalid -masked: %v", err)
		}
	}

	freq, err := time.ParseDuration(cfg.GetFreq())
	if err != nil {
		log.Fatalf("invalid freq %q: %v", cfg.GetFreq(), err)
	}

	clock := timeutil.RealClock{}
	started := clock.Now()

	st, err := store.Open(path)
	if err != nil {
		log.Fatalf("failed to open store %s: %v", path, err)
	}
	defer st.Close()

	ds, err := airquality.New(st, airquality.Options{
		Small:         cfg.GetSmall(),
		ImputeNaNs:    cfg.GetImputeNaNs(),
		MaskedSensors: maskedSensors,
		InferFrom:     mask.InferFrom(cfg.GetInferFrom()),
		Anchors:       mask.EveryNth{N: cfg.GetAnchorStride()},
		TestMonths:    cfg.GetTestMonths(),
		Freq:          freq,
	})
	if err != nil {
		log.Fatalf("failed to assemble dataset: %v", err)
	}

	idx, err := ds.SampleIndex(cfg.GetWindowLen(), cfg.GetHorizon())
	if err != nil {
		log.Fatalf("failed to build sample index: %v", err)
	}
	part, err := ds.Splitter(idx, split.Options{
		ValLen:   cfg.GetValLen(),
		InSample: cfg.GetInSample(),
		Window:   cfg.GetWindow(),
	})
	if err != nil {
		log.Fatalf("failed to split samples: %v", err)
	}

	adj := ds.GetSimilarity(similarity.Options{
		Thr:            cfg.GetSimilarityThr(),
		IncludeSelf:    cfg.GetIncludeSelf(),
		ForceSymmetric: cfg.GetForceSymmetric(),
		Sparse:         cfg.GetSparseAdj(),
	})

	w, err := export.NewWriter(fsutil.OSFileSystem{}, *outDir)
	if err != nil {
		log.Fatalf("failed to prepare output directory: %v", err)
	}
	sensors := ds.Frame().Sensors
	for _, step := range []struct {
		name string
		run  func() error
	}{
		{"mask.csv", func() error { return w.MaskCSV("mask.csv", sensors, ds.Mask()) }},
		{"eval_mask.csv", func() error { return w.MaskCSV("eval_mask.csv", sensors, ds.EvalMask()) }},
		{"training_mask.csv", func() error { return w.MaskCSV("training_mask.csv", sensors, ds.TrainingMask()) }},
		{"splits.json", func() error { return w.SplitsJSON("splits.json", part) }},
		{"adjacency.csv", func() error { return w.AdjacencyCSV("adjacency.csv", adj) }},
	} {
		if err := step.run(); err != nil {
			log.Fatalf("failed to export %s: %v", step.name, err)
		}
	}

	variant := "full437"
	if cfg.GetSmall() {
		variant = "small36"
	}
	runID, err := st.RecordPrepRun(variant, fmt.Sprintf("seed=%d out=%s", airquality.Seed, *outDir))
	if err != nil {
		log.Fatalf("failed to record prep run: %v", err)
	}

	log.Printf("prep run %s: %d timestamps x %d sensors (%s)", runID, ds.Frame().Rows(), ds.Frame().Cols(), variant)
	log.Printf("masks: observed=%d eval=%d training=%d", ds.Mask().Sum(), ds.EvalMask().Sum(), ds.TrainingMask().Sum())
	log.Printf("splits: train=%d val=%d test=%d of %d samples", len(part.Train), len(part.Val), len(part.Test), idx.Len())
	log.Printf("mean station spacing: %.1f %s", units.ConvertDistance(meanSpacing(ds), *distUnits), *distUnits)
	log.Printf("done in %s, artifacts in %s", clock.Since(started).Round(1e6), *outDir)
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cfg *config.PrepConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "small":
			cfg.Small = small
		case "impute":
			cfg.ImputeNaNs = imputeNaNs
		case "val-len":
			cfg.ValLen = valLen
		case "window":
			cfg.Window = window
		case "in-sample":
			cfg.InSample = inSample
		case "window-len":
			cfg.WindowLen = windowLen
		case "horizon":
			cfg.Horizon = horizon
		case "sparse":
			cfg.SparseAdj = sparseAdj
		}
	})
}

func parseSensorList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad sensor index %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// meanSpacing is the average off-diagonal pairwise distance in km.
func meanSpacing(ds *airquality.Dataset) float64 {
	d := ds.Dist()
	n, _ := d.Dims()
	var vals []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			vals = append(vals, d.At(i, j))
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
