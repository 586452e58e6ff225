// Package store is the SQLite-backed home of the raw benchmark data: sensor
// stations, hourly PM2.5 readings and, for the 36-station variant, the
// pre-packaged evaluation mask. It is the only I/O boundary of the prep
// pipeline; everything downstream works on in-memory frames and masks.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/gridsense-data/aqbench/internal/frame"
	"github.com/gridsense-data/aqbench/internal/mask"
	"github.com/gridsense-data/aqbench/internal/timeutil"
)

// ErrNoStations reports a load against an unseeded store.
var ErrNoStations = errors.New("store holds no stations for the requested variant")

// Station is one sensor site.
type Station struct {
	Idx       int
	Code      string
	Latitude  float64
	Longitude float64
	Small     bool // member of the reduced 36-station variant
}

// Store wraps the SQLite handle.
type Store struct {
	*sql.DB
	clock timeutil.Clock
}

// Open opens (or creates) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	s := &Store{DB: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock replaces the clock used for audit timestamps. Tests use this to
// pin created_at values.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// AddStation inserts one station row.
func (s *Store) AddStation(st Station) error {
	small := 0
	if st.Small {
		small = 1
	}
	_, err := s.Exec(
		`INSERT INTO stations (station_idx, code, latitude, longitude, small) VALUES (?, ?, ?, ?, ?)`,
		st.Idx, st.Code, st.Latitude, st.Longitude, small,
	)
	if err != nil {
		return fmt.Errorf("failed to insert station %q: %w", st.Code, err)
	}
	return nil
}

// AddReading inserts one reading. A NaN value is stored as NULL (missing).
func (s *Store) AddReading(stationIdx int, ts time.Time, pm25 float64) error {
	var v interface{}
	if !math.IsNaN(pm25) {
		v = pm25
	}
	_, err := s.Exec(
		`INSERT INTO readings (station_idx, ts, pm25) VALUES (?, ?, ?)`,
		stationIdx, ts.UTC().Format(time.RFC3339), v,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// SetEvalCell records one precomputed evaluation-mask cell for the reduced
// variant.
func (s *Store) SetEvalCell(stationIdx int, ts time.Time, held bool) error {
	h := 0
	if held {
		h = 1
	}
	_, err := s.Exec(
		`INSERT INTO eval_mask (station_idx, ts, held) VALUES (?, ?, ?)`,
		stationIdx, ts.UTC().Format(time.RFC3339), h,
	)
	if err != nil {
		return fmt.Errorf("failed to insert eval mask cell: %w", err)
	}
	return nil
}

// RecordPrepRun stamps an audit row for one preparation run and returns its
// generated run ID.
func (s *Store) RecordPrepRun(variant, note string) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec(
		`INSERT INTO prep_runs (run_id, variant, created_at, note) VALUES (?, ?, ?, ?)`,
		id, variant, s.clock.Now().UTC().Format(time.RFC3339), note,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record prep run: %w", err)
	}
	return id, nil
}

// Stations returns the stations of the requested variant ordered by index.
func (s *Store) Stations(small bool) ([]Station, error) {
	q := `SELECT station_idx, code, latitude, longitude, small FROM stations`
	if small {
		q += ` WHERE small = 1`
	}
	q += ` ORDER BY station_idx`

	rows, err := s.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var out []Station
	for rows.Next() {
		var st Station
		var sm int
		if err := rows.Scan(&st.Idx, &st.Code, &st.Latitude, &st.Longitude, &sm); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		st.Small = sm != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

// LoadRaw returns the observation frame for the requested variant, its
// station metadata and, for the reduced variant only, the precomputed
// evaluation mask (nil otherwise). Readings absent from the table and NULL
// values both surface as NaN cells.
func (s *Store) LoadRaw(small bool) (*frame.Frame, []Station, *mask.Mask, error) {
	stations, err := s.Stations(small)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(stations) == 0 {
		return nil, nil, nil, ErrNoStations
	}

	col := make(map[int]int, len(stations))
	codes := make([]string, len(stations))
	for i, st := range stations {
		col[st.Idx] = i
		codes[i] = st.Code
	}

	index, err := s.timeIndex(small)
	if err != nil {
		return nil, nil, nil, err
	}
	row := make(map[time.Time]int, len(index))
	for i, ts := range index {
		row[ts] = i
	}

	data := mat.NewDense(len(index), len(stations), nil)
	for i := 0; i < len(index); i++ {
		for j := 0; j < len(stations); j++ {
			data.Set(i, j, math.NaN())
		}
	}

	rows, err := s.Query(`SELECT station_idx, ts, pm25 FROM readings`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var idx int
		var raw string
		var pm25 sql.NullFloat64
		if err := rows.Scan(&idx, &raw, &pm25); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		j, ok := col[idx]
		if !ok {
			continue // station outside the requested variant
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to parse reading timestamp %q: %w", raw, err)
		}
		if pm25.Valid {
			data.Set(row[ts], j, pm25.Float64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	f, err := frame.New(index, codes, data)
	if err != nil {
		return nil, nil, nil, err
	}

	var eval *mask.Mask
	if small {
		eval, err = s.loadEvalMask(col, row, len(index), len(stations))
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return f, stations, eval, nil
}

// timeIndex returns the distinct reading timestamps of the variant, sorted.
func (s *Store) timeIndex(small bool) ([]time.Time, error) {
	q := `SELECT DISTINCT r.ts FROM readings r`
	if small {
		q += ` JOIN stations s ON s.station_idx = r.station_idx AND s.small = 1`
	}
	q += ` ORDER BY r.ts`

	rows, err := s.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to query time index: %w", err)
	}
	defer rows.Close()

	var index []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", raw, err)
		}
		index = append(index, ts)
	}
	return index, rows.Err()
}

func (s *Store) loadEvalMask(col map[int]int, row map[time.Time]int, nrows, ncols int) (*mask.Mask, error) {
	rows, err := s.Query(`SELECT station_idx, ts, held FROM eval_mask`)
	if err != nil {
		return nil, fmt.Errorf("failed to query eval mask: %w", err)
	}
	defer rows.Close()

	m := mask.New(nrows, ncols)
	any := false
	for rows.Next() {
		var idx, held int
		var raw string
		if err := rows.Scan(&idx, &raw, &held); err != nil {
			return nil, fmt.Errorf("failed to scan eval mask cell: %w", err)
		}
		j, ok := col[idx]
		if !ok {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse eval mask timestamp %q: %w", raw, err)
		}
		i, ok := row[ts]
		if !ok {
			continue
		}
		m.Set(i, j, uint8(held))
		any = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !any {
		return nil, nil
	}
	return m, nil
}
