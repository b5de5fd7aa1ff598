package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_ongkir/internal/config"
	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

// TariffEngine prices a distance for a service. It holds only immutable
// configuration, so Price is a pure function of its arguments.
//
// Rounding is half away from zero to whole rupiah, in this order:
//
//	base      = round(BaseRate)
//	distance  = round(distance component)
//	subtotal  = base + distance
//	cost      = round(subtotal * surge * fee)
//	surgeAmt  = round(subtotal * surge) - subtotal
//	feeAmt    = cost - subtotal - surgeAmt
//
// so the breakdown always sums to the cost.
type TariffEngine struct {
	cfg     config.TariffConfig
	peak    map[int]bool
	weekend map[time.Weekday]bool
}

func NewTariffEngine(cfg config.TariffConfig) *TariffEngine {
	e := &TariffEngine{
		cfg:     cfg,
		peak:    make(map[int]bool, len(cfg.PeakHours)),
		weekend: make(map[time.Weekday]bool, len(cfg.WeekendDays)),
	}
	for _, h := range cfg.PeakHours {
		e.peak[h] = true
	}
	for _, d := range cfg.WeekendDays {
		e.weekend[d] = true
	}
	return e
}

// SurgeMultiplier combines the peak-hour and weekend multipliers.
func (e *TariffEngine) SurgeMultiplier(s models.SurgeContext) decimal.Decimal {
	m := decimal.NewFromInt(1)
	if e.peak[s.HourOfDay] {
		m = m.Mul(e.cfg.PeakMultiplier)
	}
	if e.weekend[s.DayOfWeek] {
		m = m.Mul(e.cfg.WeekendMultiplier)
	}
	return m
}

// Price quotes distanceKm for profile p at surge context s. Distances beyond
// the service limit yield an unavailable quote with zero cost.
func (e *TariffEngine) Price(distanceKm float64, p models.ServiceProfile, s models.SurgeContext) models.Quote {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}

	q := models.Quote{
		Service:    p.Name,
		Label:      p.Label,
		DistanceKm: utils.RoundTo(distanceKm, 2),
		Currency:   models.CurrencyIDR,
		MinorUnit:  models.MinorUnitIDR,
	}
	if distanceKm > p.MaxDistanceKm {
		q.Reason = models.ReasonOutOfServiceArea
		return q
	}

	base := p.BaseRate.Round(0)
	distance := distanceCost(distanceKm, p).Round(0)
	subtotal := base.Add(distance)

	surge := e.SurgeMultiplier(s)
	surged := subtotal.Mul(surge).Round(0)
	cost := subtotal.Mul(surge).Mul(e.cfg.FeeMultiplier).Round(0)

	q.Available = true
	q.Cost = cost.IntPart()
	q.EstimatedTimeLabel = e.etaLabel(distanceKm, p, s)
	q.Breakdown = &models.Breakdown{
		BaseRate:        base.IntPart(),
		DistanceCost:    distance.IntPart(),
		Subtotal:        subtotal.IntPart(),
		SurgeMultiplier: surge,
		SurgeAmount:     surged.Sub(subtotal).IntPart(),
		FeeMultiplier:   e.cfg.FeeMultiplier,
		FeeAmount:       cost.Sub(surged).IntPart(),
	}
	return q
}

// distanceCost is the unrounded per-km part. With tiers, tier i bills
// [threshold_i, threshold_i+1) at its own rate and any stretch before the
// first threshold is billed at PricePerKm.
func distanceCost(km float64, p models.ServiceProfile) decimal.Decimal {
	if len(p.TieredRates) == 0 {
		return decimal.NewFromFloat(km).Mul(p.PricePerKm)
	}

	total := decimal.Zero
	if first := p.TieredRates[0].ThresholdKm; first > 0 {
		total = total.Add(segment(0, math.Min(km, first)).Mul(p.PricePerKm))
	}
	for i, t := range p.TieredRates {
		if km <= t.ThresholdKm {
			break
		}
		upper := km
		if i+1 < len(p.TieredRates) && p.TieredRates[i+1].ThresholdKm < km {
			upper = p.TieredRates[i+1].ThresholdKm
		}
		total = total.Add(segment(t.ThresholdKm, upper).Mul(t.RatePerKm))
	}
	return total
}

func segment(from, to float64) decimal.Decimal {
	return decimal.NewFromFloat(to).Sub(decimal.NewFromFloat(from))
}

// etaLabel formats a 15 minute window around handling plus travel time.
func (e *TariffEngine) etaLabel(km float64, p models.ServiceProfile, s models.SurgeContext) string {
	if p.EtaLabel != "" {
		return p.EtaLabel
	}
	if p.AvgSpeedKmh <= 0 {
		return ""
	}

	travel := km / p.AvgSpeedKmh * 60
	if e.peak[s.HourOfDay] && e.cfg.PeakEtaFactor > 0 {
		travel *= e.cfg.PeakEtaFactor
	}
	minutes := p.HandlingMinutes + int(math.Ceil(travel))

	if minutes > 120 {
		hours := minutes / 60
		return fmt.Sprintf("%d-%d jam", hours, hours+1)
	}
	lo := minutes / 15 * 15
	if lo < 15 {
		lo = 15
	}
	return fmt.Sprintf("%d-%d menit", lo, lo+15)
}
