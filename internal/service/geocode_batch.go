package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// BatchOptions tunes the offline ward geocoding job.
type BatchOptions struct {
	// CityCode limits the job to one city full code; empty means all.
	CityCode string
	// Interval is the minimum spacing between geocoder calls.
	Interval time.Duration
	Workers  int
	// Timeout bounds each geocoder call.
	Timeout time.Duration
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Total    int `json:"total"`
	Geocoded int `json:"geocoded"`
	Stored   int `json:"stored"`
	Failed   int `json:"failed"`
}

type batchJob struct {
	city, district, ward string
	query                string
	coord                *models.Coordinate
	fromStore            bool
}

// BatchGeocoder builds the ward coordinate table consumed by GeocodeTable.
type BatchGeocoder struct {
	index    *TerritoryIndex
	geocoder Geocoder
	store    GeocodeStore
}

// NewBatchGeocoder creates a batch job. store may be nil.
func NewBatchGeocoder(index *TerritoryIndex, geocoder Geocoder, store GeocodeStore) *BatchGeocoder {
	return &BatchGeocoder{index: index, geocoder: geocoder, store: store}
}

// Build geocodes every selected ward. Wards the geocoder cannot place are
// recorded as nil so the table shows what is missing. Only cancellation of
// ctx aborts the run.
func (b *BatchGeocoder) Build(ctx context.Context, opts BatchOptions) (WardTable, BatchReport, error) {
	var jobs []*batchJob
	b.index.eachWard(func(city models.City, district models.District, ward models.Ward) {
		if opts.CityCode != "" && city.FullCode != opts.CityCode {
			return
		}
		jobs = append(jobs, &batchJob{
			city:     city.Name,
			district: district.Name,
			ward:     ward.Name,
			query:    BuildGeocodeQuery(b.index.Names(models.AdministrativeAddress{WardID: ward.FullCode})),
		})
	})

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var tick <-chan time.Time
	if opts.Interval > 0 {
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log.Info().Int("wards", len(jobs)).Str("city", opts.CityCode).Int("workers", workers).Msg("Batch geocoding started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return b.run(gctx, job, tick, opts.Timeout)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BatchReport{}, err
	}

	table := WardTable{}
	report := BatchReport{Total: len(jobs)}
	for _, job := range jobs {
		table.Set(job.city, job.district, job.ward, job.coord)
		switch {
		case job.coord == nil:
			report.Failed++
		case job.fromStore:
			report.Stored++
		default:
			report.Geocoded++
		}
	}

	log.Info().
		Int("total", report.Total).
		Int("geocoded", report.Geocoded).
		Int("stored", report.Stored).
		Int("failed", report.Failed).
		Msg("Batch geocoding finished")
	return table, report, nil
}

func (b *BatchGeocoder) run(ctx context.Context, job *batchJob, tick <-chan time.Time, timeout time.Duration) error {
	if b.store != nil {
		c, ok, err := b.store.Get(ctx, job.query)
		if err != nil {
			log.Warn().Err(err).Str("query", job.query).Msg("Geocode store read failed")
		} else if ok {
			job.coord, job.fromStore = &c, true
			return nil
		}
	}

	if tick != nil {
		select {
		case <-tick:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	match, err := b.geocoder.Geocode(callCtx, job.query)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("query", job.query).Msg("Ward geocoding failed")
		return nil
	}
	if err := match.Coordinate.Validate(); err != nil {
		log.Warn().Err(err).Str("query", job.query).Msg("Geocoder returned invalid coordinate")
		return nil
	}

	job.coord = &match.Coordinate
	if b.store != nil {
		if err := b.store.Put(ctx, job.query, match); err != nil {
			log.Warn().Err(err).Str("query", job.query).Msg("Geocode store write failed")
		}
	}
	return nil
}
