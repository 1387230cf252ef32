package synth

import (
	"fmt"
	"strings"

	"minestock/internal"
)

// BuildPrompt embeds every supplied request field in the instruction the
// model receives alongside the response schema.
func BuildPrompt(req internal.EvaluationRequest) string {
	b := strings.Builder{}
	b.WriteString("Generate a realistic material profile for a mining company inventory item based on the following request.\n\n")
	b.WriteString("REQUEST DETAILS:\n")
	fmt.Fprintf(&b, "- Material Code (Internal ID): %q\n", req.MaterialCode)
	partNumber := req.PartNumber
	if strings.TrimSpace(partNumber) == "" {
		partNumber = "N/A"
	}
	fmt.Fprintf(&b, "- Manufacturer Part Number: %q\n", partNumber)
	fmt.Fprintf(&b, "- Description: %q\n", req.Description)
	fmt.Fprintf(&b, "- Equipment Code: %q\n", req.EquipmentCode)
	fmt.Fprintf(&b, "- Criticality: %q\n", req.Criticality)
	if req.LeadTime != nil {
		fmt.Fprintf(&b, "- Lead Time: %g days\n", *req.LeadTime)
	}
	if req.UnitPrice != nil {
		fmt.Fprintf(&b, "- Unit Price: $%g\n", *req.UnitPrice)
	}
	if req.AnnualUsage != nil {
		fmt.Fprintf(&b, "- Estimated Annual Usage: %g\n", *req.AnnualUsage)
	}
	if req.HoldingCost != nil {
		fmt.Fprintf(&b, "- Holding Cost: %g%%\n", *req.HoldingCost)
	}
	if req.OrderingCost != nil {
		fmt.Fprintf(&b, "- Ordering Cost: $%g\n", *req.OrderingCost)
	}

	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Use the provided description and code as the source of truth.\n")
	b.WriteString("2. If a manufacturer part number is provided, include it in the response. If not, generate a plausible one.\n")
	b.WriteString("3. 'equipmentParent' MUST include the provided Equipment Code plus 1-2 others.\n")
	b.WriteString("4. 'stockingStatus' MUST be determined based on criticality and usage.\n")
	fmt.Fprintf(&b, "5. 'criticality' MUST match the request (%q).\n", req.Criticality)
	b.WriteString("6. 'estimatedAnnualUsage' MUST match the request if provided, otherwise estimate.\n")
	b.WriteString("7. CREATE DATA about POTENTIAL DUPLICATES in 'duplicateAnalysis' considering the description.\n")
	b.WriteString("8. GENERATE DETAILED ROP CALCULATIONS in 'ropCalculation' using the provided parameters (Lead Time, Price, etc) if available.\n")
	b.WriteString("9. GENERATE 'stockBreakdown' listing the manufacturer part numbers that make up the total stock. Ensure the sum of quantities equals totalQuantity.\n")
	b.WriteString("\nReturn ONLY valid JSON matching the schema.\n")
	return b.String()
}

// ResponseSchema is the structured-output schema sent with every
// generateContent call. Field names and enumerations mirror
// MaterialProfile exactly.
func ResponseSchema() map[string]any {
	str := map[string]any{"type": "STRING"}
	num := map[string]any{"type": "NUMBER"}
	enum := func(values ...string) map[string]any {
		return map[string]any{"type": "STRING", "enum": values}
	}
	object := func(props map[string]any) map[string]any {
		return map[string]any{"type": "OBJECT", "properties": props}
	}
	array := func(items map[string]any) map[string]any {
		return map[string]any{"type": "ARRAY", "items": items}
	}

	return object(map[string]any{
		"materialName":           str,
		"materialCode":           str,
		"manufacturerPartNumber": str,
		"description":            str,
		"totalQuantity":          num,
		"averageUnitCost":        num,
		"materialType":           str,
		"stockingStatus":         enum("Stock Normally", "Do not Stock", "Stock Minimal"),
		"criticality":            enum("A", "B", "C", "D"),
		"estimatedAnnualUsage":   num,
		"locations": array(object(map[string]any{
			"name":     str,
			"stock":    num,
			"lastUsed": str,
		})),
		"stockBreakdown": array(object(map[string]any{
			"partNumber":   str,
			"manufacturer": str,
			"location":     str,
			"quantity":     num,
			"condition":    enum("New", "Refurbished", "Used"),
		})),
		"equipmentParent": array(str),
		"lastUsedDate":    str,
		"duplicateAnalysis": object(map[string]any{
			"totalDuplicates":            num,
			"totalStockAcrossDuplicates": num,
			"potentialSavings":           num,
			"duplicates": array(object(map[string]any{
				"materialCode":     str,
				"manufacturer":     str,
				"description":      str,
				"stockInHand":      num,
				"annualUsage":      num,
				"lastUsed":         str,
				"location":         str,
				"unitCost":         num,
				"obsolescenceRisk": enum("Low", "Medium", "High"),
			})),
		}),
		"obsolescence": object(map[string]any{
			"riskLevel":          enum("Low", "Medium", "High"),
			"yearsInStock":       num,
			"marketAvailability": str,
		}),
		"ropMax": object(map[string]any{
			"reorderPoint":  num,
			"maxStock":      num,
			"currentStatus": enum("Reorder", "Overstock", "Optimal"),
		}),
		"ropCalculation": object(map[string]any{
			"suggestedROP": num,
			"suggestedMAX": num,
			"suggestedEOQ": num,
			"requestedROP": num,
			"requestedMAX": num,
			"inputParameters": object(map[string]any{
				"annualUsage": num,
				"leadTime":    num,
				"criticality": str,
				"unitPrice":   num,
			}),
			"baseCalculations": object(map[string]any{
				"baseROP": num,
				"baseEOQ": num,
				"baseMAX": num,
			}),
			"adjustments": object(map[string]any{
				"reason":                str,
				"duplicateDeduction":    num,
				"obsolescenceDeduction": num,
				"totalDeduction":        num,
			}),
		}),
	})
}
