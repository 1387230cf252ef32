// Package rop derives reorder-point, economic-order-quantity and
// max-stock recommendations from the evaluation parameters.
package rop

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"minestock/internal"
)

const (
	DefaultAnnualUsage    = 120
	DefaultLeadTimeDays   = 30
	DefaultUnitPrice      = 250
	DefaultHoldingCostPct = 25
	DefaultOrderingCost   = 55
)

type Inputs struct {
	AnnualUsage      float64
	LeadTimeDays     float64
	Criticality      internal.Criticality
	UnitPrice        float64
	HoldingCostPct   float64
	OrderingCost     float64
	DuplicateStock   float64
	ObsolescenceRisk internal.RiskLevel
}

// serviceFactor pads lead-time demand for critical items.
func serviceFactor(c internal.Criticality) decimal.Decimal {
	switch c {
	case internal.CriticalityA:
		return decimal.NewFromFloat(1.5)
	case internal.CriticalityB:
		return decimal.NewFromFloat(1.2)
	case internal.CriticalityC:
		return decimal.NewFromFloat(1.05)
	default:
		return decimal.NewFromInt(1)
	}
}

func Calculate(in Inputs) internal.ROPCalculation {
	usage := in.AnnualUsage
	if usage <= 0 {
		usage = DefaultAnnualUsage
	}
	lead := in.LeadTimeDays
	if lead <= 0 {
		lead = DefaultLeadTimeDays
	}
	price := in.UnitPrice
	if price <= 0 {
		price = DefaultUnitPrice
	}
	holding := in.HoldingCostPct
	if holding <= 0 {
		holding = DefaultHoldingCostPct
	}
	ordering := in.OrderingCost
	if ordering <= 0 {
		ordering = DefaultOrderingCost
	}
	criticality := internal.NormalizeCriticality(string(in.Criticality))

	annual := decimal.NewFromFloat(usage)
	daily := annual.Div(decimal.NewFromInt(365))
	baseROP := daily.
		Mul(decimal.NewFromFloat(lead)).
		Mul(serviceFactor(criticality)).
		Ceil()

	// EOQ = sqrt(2*D*S / (unit price * holding rate)); the root goes
	// through float64, money stays decimal until then.
	numerator := decimal.NewFromInt(2).Mul(annual).Mul(decimal.NewFromFloat(ordering))
	denominator := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(holding).Div(decimal.NewFromInt(100)))
	ratio, _ := numerator.Div(denominator).Float64()
	baseEOQ := decimal.NewFromFloat(math.Sqrt(ratio)).Ceil()

	baseMAX := baseROP.Add(baseEOQ.Mul(decimal.NewFromInt(2)))

	duplicateDeduction := decimal.Zero
	if in.DuplicateStock > 0 {
		duplicateDeduction = baseROP.Mul(decimal.NewFromFloat(0.15)).Round(0)
	}

	obsolescenceDeduction := decimal.Zero
	switch in.ObsolescenceRisk {
	case internal.RiskHigh:
		obsolescenceDeduction = baseROP.Mul(decimal.NewFromFloat(0.25)).Round(0)
	case internal.RiskMedium:
		obsolescenceDeduction = baseROP.Mul(decimal.NewFromFloat(0.1)).Round(0)
	}

	totalDeduction := duplicateDeduction.Add(obsolescenceDeduction)
	if totalDeduction.GreaterThanOrEqual(baseROP) {
		totalDeduction = baseROP.Sub(decimal.NewFromInt(1))
		if totalDeduction.IsNegative() {
			totalDeduction = decimal.Zero
		}
	}

	suggestedROP := baseROP.Sub(totalDeduction)
	suggestedMAX := baseMAX.Sub(totalDeduction)

	return internal.ROPCalculation{
		SuggestedROP: toFloat(suggestedROP),
		SuggestedMAX: toFloat(suggestedMAX),
		SuggestedEOQ: toFloat(baseEOQ),
		RequestedROP: toFloat(baseROP),
		RequestedMAX: toFloat(baseMAX),
		InputParameters: internal.ROPInputParameters{
			AnnualUsage: usage,
			LeadTime:    lead,
			Criticality: criticality,
			UnitPrice:   price,
		},
		BaseCalculations: internal.ROPBaseCalculations{
			BaseROP: toFloat(baseROP),
			BaseEOQ: toFloat(baseEOQ),
			BaseMAX: toFloat(baseMAX),
		},
		Adjustments: internal.ROPAdjustments{
			Reason:                reason(duplicateDeduction, obsolescenceDeduction),
			DuplicateDeduction:    toFloat(duplicateDeduction),
			ObsolescenceDeduction: toFloat(obsolescenceDeduction),
			TotalDeduction:        toFloat(totalDeduction),
		},
	}
}

// Status classifies on-hand stock against the suggested thresholds.
func Status(onHand, reorderPoint, maxStock float64) internal.StockStatus {
	switch {
	case onHand > maxStock:
		return internal.StatusOverstock
	case onHand <= reorderPoint:
		return internal.StatusReorder
	default:
		return internal.StatusOptimal
	}
}

func reason(duplicate, obsolescence decimal.Decimal) string {
	parts := []string{}
	if duplicate.IsPositive() {
		parts = append(parts, "High duplication detected across sites")
	}
	if obsolescence.IsPositive() {
		parts = append(parts, "Elevated obsolescence risk")
	}
	if len(parts) == 0 {
		return "Standard parameters"
	}
	return strings.Join(parts, "; ")
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
