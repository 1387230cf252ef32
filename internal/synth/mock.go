package synth

import (
	"minestock/internal"
	"minestock/internal/rop"
	"minestock/internal/util"
)

// Fallback builds the offline material profile. It is pure: the same
// code and request always produce the same profile, and derived fields
// (totals, duplicate count, ROP breakdown) stay internally consistent.
func Fallback(code string, req *internal.EvaluationRequest) internal.MaterialProfile {
	name := "Spherical Roller Bearing 22216"
	description := "Heavy duty spherical roller bearing for conveyor pulley"
	partNumber := "22216-E1-K"
	unitPrice := float64(rop.DefaultUnitPrice)
	criticality := internal.CriticalityB
	annualUsage := float64(rop.DefaultAnnualUsage)
	leadTime := float64(rop.DefaultLeadTimeDays)
	holdingCost := 0.0
	orderingCost := 0.0
	equipment := "600000236064"

	if req != nil {
		if req.Description != "" {
			name = req.Description
			description = req.Description
		}
		if req.PartNumber != "" {
			partNumber = req.PartNumber
		}
		unitPrice = util.DerefFloat(req.UnitPrice, unitPrice)
		if _, err := internal.ParseCriticality(string(req.Criticality)); err == nil {
			criticality = req.Criticality
		}
		annualUsage = util.DerefFloat(req.AnnualUsage, annualUsage)
		leadTime = util.DerefFloat(req.LeadTime, leadTime)
		holdingCost = util.DerefFloat(req.HoldingCost, 0)
		orderingCost = util.DerefFloat(req.OrderingCost, 0)
		if req.EquipmentCode != "" {
			equipment = req.EquipmentCode
		}
	}

	duplicates := []internal.DuplicateItem{
		{
			MaterialCode:     "998877665",
			Manufacturer:     "SKF",
			Description:      "Bearing 22216 EK",
			StockInHand:      80,
			AnnualUsage:      5,
			LastUsed:         "2021-01-10",
			Location:         "Site A - Warehouse 1",
			UnitCost:         280,
			ObsolescenceRisk: internal.RiskLow,
		},
		{
			MaterialCode:     "112233445",
			Manufacturer:     "Timken",
			Description:      "Roller Bearing 22216-E1",
			StockInHand:      40,
			AnnualUsage:      12,
			LastUsed:         "2023-11-01",
			Location:         "Site C",
			UnitCost:         240,
			ObsolescenceRisk: internal.RiskMedium,
		},
	}

	obsolescence := internal.ObsolescenceData{
		RiskLevel:          internal.RiskHigh,
		YearsInStock:       2.5,
		MarketAvailability: "Readily Available",
	}

	calc := rop.Calculate(rop.Inputs{
		AnnualUsage:      annualUsage,
		LeadTimeDays:     leadTime,
		Criticality:      criticality,
		UnitPrice:        unitPrice,
		HoldingCostPct:   holdingCost,
		OrderingCost:     orderingCost,
		DuplicateStock:   120,
		ObsolescenceRisk: obsolescence.RiskLevel,
	})

	breakdown := []internal.StockBreakdownItem{
		{PartNumber: partNumber, Manufacturer: "FAG", Location: "Site A - Warehouse 1", Quantity: 20, Condition: internal.ConditionNew},
		{PartNumber: "22216-EK", Manufacturer: "SKF", Location: "Site B - Central", Quantity: 15, Condition: internal.ConditionNew},
		{PartNumber: "22216-CC/W33", Manufacturer: "SKF", Location: "Site B - Central", Quantity: 10, Condition: internal.ConditionNew},
	}
	totalQuantity := 0.0
	for _, row := range breakdown {
		totalQuantity += row.Quantity
	}

	return internal.MaterialProfile{
		MaterialName:           name,
		MaterialCode:           code,
		ManufacturerPartNumber: partNumber,
		Description:            description,
		TotalQuantity:          totalQuantity,
		AverageUnitCost:        unitPrice,
		MaterialType:           "Spare Part",
		StockingStatus:         internal.StockNormally,
		Criticality:            criticality,
		EstimatedAnnualUsage:   annualUsage,
		Locations: []internal.MaterialLocation{
			{Name: "Site A - Warehouse 1", Stock: 20, LastUsed: "2023-10-15"},
			{Name: "Site B - Central", Stock: 25, LastUsed: "2022-05-20"},
		},
		StockBreakdown:  breakdown,
		EquipmentParent: []string{equipment, "600000998877", "500200112233"},
		LastUsedDate:    "2023-10-15",
		DuplicateAnalysis: internal.DuplicateAnalysis{
			TotalDuplicates:            len(duplicates),
			TotalStockAcrossDuplicates: 120,
			PotentialSavings:           30000,
			Duplicates:                 duplicates,
		},
		Obsolescence: obsolescence,
		ROPMax: internal.ROPMax{
			ReorderPoint:  calc.SuggestedROP,
			MaxStock:      calc.SuggestedMAX,
			CurrentStatus: rop.Status(totalQuantity, calc.SuggestedROP, calc.SuggestedMAX),
		},
		ROPCalculation: calc,
	}
}

// DemoProfiles is the canned bulk transform used when no provider is
// configured: at most three codes, padded with placeholders, with
// positional variants so the bulk table has something to filter on.
func DemoProfiles(codes []string) []internal.MaterialProfile {
	demo := codes
	if len(demo) == 0 {
		demo = []string{"401121145", "401121146", "401121147"}
	}
	if len(demo) > 3 {
		demo = demo[:3]
	}

	out := make([]internal.MaterialProfile, 0, len(demo))
	for i, code := range demo {
		profile := Fallback(code, nil)
		switch i {
		case 1:
			profile.MaterialType = "Consumable"
			profile.Criticality = internal.CriticalityC
			profile.StockingStatus = internal.DoNotStock
			profile.StockBreakdown = []internal.StockBreakdownItem{
				{PartNumber: "CONS-001", Manufacturer: "Generic", Location: "Site A", Quantity: 1200, Condition: internal.ConditionNew},
			}
			profile.TotalQuantity = 1200
			profile.DuplicateAnalysis = internal.DuplicateAnalysis{}
		case 2:
			profile.MaterialType = "Hydraulic"
			profile.Criticality = internal.CriticalityA
			profile.StockingStatus = internal.StockMinimal
			profile.StockBreakdown = []internal.StockBreakdownItem{
				{PartNumber: "HYD-VAL-X", Manufacturer: "Bosch Rexroth", Location: "Site B", Quantity: 3, Condition: internal.ConditionNew},
				{PartNumber: "HYD-VAL-X", Manufacturer: "Bosch Rexroth", Location: "Site A", Quantity: 2, Condition: internal.ConditionNew},
			}
			profile.TotalQuantity = 5
		}
		profile.ROPMax.CurrentStatus = rop.Status(profile.TotalQuantity, profile.ROPMax.ReorderPoint, profile.ROPMax.MaxStock)
		out = append(out, profile)
	}
	return out
}
