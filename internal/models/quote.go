package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyIDR is the only currency quoted. Rupiah amounts carry no minor unit.
const (
	CurrencyIDR  = "IDR"
	MinorUnitIDR = 0
)

// TierRate is one step of a piecewise per-km tariff. The tier applies from
// ThresholdKm (inclusive) up to the next tier's threshold.
type TierRate struct {
	ThresholdKm float64         `json:"thresholdKm"`
	RatePerKm   decimal.Decimal `json:"ratePerKm"`
}

// ServiceProfile is the static tariff of one courier service.
type ServiceProfile struct {
	Name            string          `json:"name"`
	Label           string          `json:"label"`
	BaseRate        decimal.Decimal `json:"baseRate"`
	PricePerKm      decimal.Decimal `json:"pricePerKm"`
	MaxDistanceKm   float64         `json:"maxDistanceKm"`
	TieredRates     []TierRate      `json:"tieredRates,omitempty"`
	AvgSpeedKmh     float64         `json:"avgSpeedKmh,omitempty"`
	HandlingMinutes int             `json:"handlingMinutes,omitempty"`
	EtaLabel        string          `json:"etaLabel,omitempty"`
}

// UnavailableReason explains why a quote cannot be booked.
type UnavailableReason string

const (
	ReasonOutOfServiceArea UnavailableReason = "OUT_OF_SERVICE_AREA"
	ReasonUnknownService   UnavailableReason = "UNKNOWN_SERVICE"
)

// Breakdown itemizes a quote. BaseRate + DistanceCost + SurgeAmount + FeeAmount
// always equals the quote cost.
type Breakdown struct {
	BaseRate        int64           `json:"baseRate"`
	DistanceCost    int64           `json:"distanceCost"`
	Subtotal        int64           `json:"subtotal"`
	SurgeMultiplier decimal.Decimal `json:"surgeMultiplier"`
	SurgeAmount     int64           `json:"surgeAmount"`
	FeeMultiplier   decimal.Decimal `json:"feeMultiplier"`
	FeeAmount       int64           `json:"feeAmount"`
}

// Total sums the itemized parts.
func (b Breakdown) Total() int64 {
	return b.BaseRate + b.DistanceCost + b.SurgeAmount + b.FeeAmount
}

// Quote is the priced result for one service.
type Quote struct {
	Service            string            `json:"service"`
	Label              string            `json:"label,omitempty"`
	Available          bool              `json:"available"`
	DistanceKm         float64           `json:"distanceKm"`
	DistanceMethod     DistanceMethod    `json:"distanceMethod,omitempty"`
	Cost               int64             `json:"cost"`
	Currency           string            `json:"currency"`
	MinorUnit          int               `json:"minorUnit"`
	EstimatedTimeLabel string            `json:"estimatedTimeLabel,omitempty"`
	Breakdown          *Breakdown        `json:"breakdown,omitempty"`
	Reason             UnavailableReason `json:"reason,omitempty"`
}

// SurgeContext is the clock input of the tariff.
type SurgeContext struct {
	HourOfDay int          `json:"hourOfDay"`
	DayOfWeek time.Weekday `json:"dayOfWeek"`
}

// WIB is Western Indonesia Time, the zone surge hours are defined in.
var WIB = time.FixedZone("WIB", 7*3600)

// SurgeContextAt derives the surge context of t in WIB.
func SurgeContextAt(t time.Time) SurgeContext {
	local := t.In(WIB)
	return SurgeContext{HourOfDay: local.Hour(), DayOfWeek: local.Weekday()}
}

// Estimate is the outcome of quoting one address against a set of services.
type Estimate struct {
	Address  AdministrativeAddress `json:"address"`
	Location ResolvedLocation      `json:"location"`
	Distance DistanceResult        `json:"distance"`
	Quotes   []Quote               `json:"quotes"`
	Cheapest *Quote                `json:"cheapest,omitempty"`
	Surge    SurgeContext          `json:"surge"`
	QuotedAt time.Time             `json:"quotedAt"`
}

// Quote returns the quote of the named service.
func (e *Estimate) Quote(service string) (Quote, bool) {
	for _, q := range e.Quotes {
		if q.Service == service {
			return q, true
		}
	}
	return Quote{}, false
}
