package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

var errInvalidRoute = errors.New("route returned an invalid distance")

// RouteStage is one network-backed tier of the distance cascade.
type RouteStage interface {
	Method() models.DistanceMethod
	Route(ctx context.Context, origin, destination models.Coordinate) (models.DistanceResult, error)
}

type timedStage struct {
	stage   RouteStage
	timeout time.Duration
}

// DistanceResolver measures origin to destination through a cascade of
// routers ordered from most to least accurate, ending with straight-line
// estimates that cannot fail.
type DistanceResolver struct {
	stages          []timedStage
	roadFactor      float64
	roadFactorMaxKm float64
}

// NewDistanceResolver creates a resolver with no network stages. The road
// factor corrects straight-line distance for road winding and is applied up
// to roadFactorMaxKm of straight-line distance; a factor <= 1 disables it.
func NewDistanceResolver(roadFactor, roadFactorMaxKm float64) *DistanceResolver {
	return &DistanceResolver{roadFactor: roadFactor, roadFactorMaxKm: roadFactorMaxKm}
}

// AddStage registers a network stage with its own timeout. Stages are kept
// sorted by method accuracy regardless of registration order.
func (d *DistanceResolver) AddStage(stage RouteStage, timeout time.Duration) {
	d.stages = append(d.stages, timedStage{stage: stage, timeout: timeout})
	sort.SliceStable(d.stages, func(i, j int) bool {
		return d.stages[i].stage.Method().Rank() < d.stages[j].stage.Method().Rank()
	})
}

// Methods lists the methods the cascade can produce, in attempt order.
func (d *DistanceResolver) Methods() []models.DistanceMethod {
	out := make([]models.DistanceMethod, 0, len(d.stages)+2)
	for _, s := range d.stages {
		out = append(out, s.stage.Method())
	}
	if d.roadFactor > 1 {
		out = append(out, models.MethodAdjustedHaversine)
	}
	return append(out, models.MethodRawHaversine)
}

// Distance never fails. Each network stage is tried once under its own
// timeout; once ctx is done the remaining network stages are skipped.
func (d *DistanceResolver) Distance(ctx context.Context, origin, destination models.Coordinate) models.DistanceResult {
	for _, s := range d.stages {
		method := s.stage.Method()
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Str("method", string(method)).Msg("distance stage skipped, request context done")
			break
		}

		res, err := d.runStage(ctx, s, origin, destination)
		if err == nil {
			res.Method = method
			return res
		}
		log.Warn().Err(err).Str("method", string(method)).Bool("timeout", errors.Is(err, context.DeadlineExceeded)).Msg("distance stage failed, falling back")
	}

	straight := utils.HaversineKm(origin, destination)
	if d.roadFactor > 1 && straight <= d.roadFactorMaxKm {
		return models.DistanceResult{Km: straight * d.roadFactor, Method: models.MethodAdjustedHaversine}
	}
	return models.DistanceResult{Km: straight, Method: models.MethodRawHaversine}
}

func (d *DistanceResolver) runStage(ctx context.Context, s timedStage, origin, destination models.Coordinate) (models.DistanceResult, error) {
	stageCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.stage.Route(stageCtx, origin, destination)
	if err != nil {
		return models.DistanceResult{}, err
	}
	if res.Km < 0 || math.IsNaN(res.Km) || math.IsInf(res.Km, 0) {
		return models.DistanceResult{}, errInvalidRoute
	}
	log.Debug().
		Str("method", string(s.stage.Method())).
		Float64("km", res.Km).
		Dur("latency", time.Since(start)).
		Msg("distance resolved")
	return res, nil
}
