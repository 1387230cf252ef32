package internal

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Criticality string

const (
	CriticalityA Criticality = "A"
	CriticalityB Criticality = "B"
	CriticalityC Criticality = "C"
	CriticalityD Criticality = "D"
)

func ParseCriticality(input string) (Criticality, error) {
	switch c := Criticality(strings.ToUpper(strings.TrimSpace(input))); c {
	case CriticalityA, CriticalityB, CriticalityC, CriticalityD:
		return c, nil
	default:
		return "", fmt.Errorf("invalid criticality: %q", input)
	}
}

// NormalizeCriticality clamps unrecognized values to B, the neutral class.
func NormalizeCriticality(input string) Criticality {
	if c, err := ParseCriticality(input); err == nil {
		return c
	}
	return CriticalityB
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

func NormalizeRiskLevel(input string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "low":
		return RiskLow
	case "high":
		return RiskHigh
	default:
		return RiskMedium
	}
}

type StockStatus string

const (
	StatusReorder   StockStatus = "Reorder"
	StatusOverstock StockStatus = "Overstock"
	StatusOptimal   StockStatus = "Optimal"
)

func NormalizeStockStatus(input string) StockStatus {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "reorder":
		return StatusReorder
	case "overstock":
		return StatusOverstock
	default:
		return StatusOptimal
	}
}

type StockingStatus string

const (
	StockNormally StockingStatus = "Stock Normally"
	DoNotStock    StockingStatus = "Do not Stock"
	StockMinimal  StockingStatus = "Stock Minimal"
)

func NormalizeStockingStatus(input string) StockingStatus {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "do not stock", "do_not_stock":
		return DoNotStock
	case "stock minimal", "stock_minimal":
		return StockMinimal
	default:
		return StockNormally
	}
}

type StockCondition string

const (
	ConditionNew         StockCondition = "New"
	ConditionRefurbished StockCondition = "Refurbished"
	ConditionUsed        StockCondition = "Used"
)

func NormalizeStockCondition(input string) StockCondition {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "refurbished":
		return ConditionRefurbished
	case "used":
		return ConditionUsed
	default:
		return ConditionNew
	}
}

type EvaluationRequest struct {
	MaterialCode  string      `json:"materialCode"`
	PartNumber    string      `json:"partNumber,omitempty"`
	Description   string      `json:"description"`
	EquipmentCode string      `json:"equipmentCode"`
	Criticality   Criticality `json:"criticality"`
	LeadTime      *float64    `json:"leadTime,omitempty"`
	UnitPrice     *float64    `json:"unitPrice,omitempty"`
	HoldingCost   *float64    `json:"holdingCost,omitempty"`
	OrderingCost  *float64    `json:"orderingCost,omitempty"`
	AnnualUsage   *float64    `json:"annualUsage,omitempty"`
}

func (r EvaluationRequest) Validate() error {
	if strings.TrimSpace(r.MaterialCode) == "" {
		return fmt.Errorf("materialCode is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(r.EquipmentCode) == "" {
		return fmt.Errorf("equipmentCode is required")
	}
	if _, err := ParseCriticality(string(r.Criticality)); err != nil {
		return err
	}
	for name, v := range map[string]*float64{
		"leadTime":     r.LeadTime,
		"unitPrice":    r.UnitPrice,
		"holdingCost":  r.HoldingCost,
		"orderingCost": r.OrderingCost,
		"annualUsage":  r.AnnualUsage,
	} {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			return fmt.Errorf("%s must be a finite number >= 0", name)
		}
	}
	return nil
}

// CodeRequest wraps a bare material code the way the search box does when
// the user supplies nothing but the code itself.
func CodeRequest(code string) EvaluationRequest {
	return EvaluationRequest{
		MaterialCode:  strings.TrimSpace(code),
		Description:   "Unknown",
		EquipmentCode: "Unknown",
		Criticality:   CriticalityB,
	}
}

type MaterialLocation struct {
	Name     string  `json:"name"`
	Stock    float64 `json:"stock"`
	LastUsed string  `json:"lastUsed"`
}

type StockBreakdownItem struct {
	PartNumber   string         `json:"partNumber"`
	Manufacturer string         `json:"manufacturer"`
	Location     string         `json:"location"`
	Quantity     float64        `json:"quantity"`
	Condition    StockCondition `json:"condition"`
}

type DuplicateItem struct {
	MaterialCode     string    `json:"materialCode"`
	Manufacturer     string    `json:"manufacturer"`
	Description      string    `json:"description"`
	StockInHand      float64   `json:"stockInHand"`
	AnnualUsage      float64   `json:"annualUsage"`
	LastUsed         string    `json:"lastUsed"`
	Location         string    `json:"location"`
	UnitCost         float64   `json:"unitCost"`
	ObsolescenceRisk RiskLevel `json:"obsolescenceRisk"`
}

type DuplicateAnalysis struct {
	TotalDuplicates            int             `json:"totalDuplicates"`
	TotalStockAcrossDuplicates float64         `json:"totalStockAcrossDuplicates"`
	PotentialSavings           float64         `json:"potentialSavings"`
	Duplicates                 []DuplicateItem `json:"duplicates"`
}

type ObsolescenceData struct {
	RiskLevel          RiskLevel `json:"riskLevel"`
	YearsInStock       float64   `json:"yearsInStock"`
	MarketAvailability string    `json:"marketAvailability"`
}

type ROPMax struct {
	ReorderPoint  float64     `json:"reorderPoint"`
	MaxStock      float64     `json:"maxStock"`
	CurrentStatus StockStatus `json:"currentStatus"`
}

type ROPInputParameters struct {
	AnnualUsage float64     `json:"annualUsage"`
	LeadTime    float64     `json:"leadTime"`
	Criticality Criticality `json:"criticality"`
	UnitPrice   float64     `json:"unitPrice"`
}

type ROPBaseCalculations struct {
	BaseROP float64 `json:"baseROP"`
	BaseEOQ float64 `json:"baseEOQ"`
	BaseMAX float64 `json:"baseMAX"`
}

type ROPAdjustments struct {
	Reason                string  `json:"reason"`
	DuplicateDeduction    float64 `json:"duplicateDeduction"`
	ObsolescenceDeduction float64 `json:"obsolescenceDeduction"`
	TotalDeduction        float64 `json:"totalDeduction"`
}

type ROPCalculation struct {
	SuggestedROP     float64             `json:"suggestedROP"`
	SuggestedMAX     float64             `json:"suggestedMAX"`
	SuggestedEOQ     float64             `json:"suggestedEOQ"`
	RequestedROP     float64             `json:"requestedROP"`
	RequestedMAX     float64             `json:"requestedMAX"`
	InputParameters  ROPInputParameters  `json:"inputParameters"`
	BaseCalculations ROPBaseCalculations `json:"baseCalculations"`
	Adjustments      ROPAdjustments      `json:"adjustments"`
}

type MaterialProfile struct {
	MaterialName           string               `json:"materialName"`
	MaterialCode           string               `json:"materialCode"`
	ManufacturerPartNumber string               `json:"manufacturerPartNumber,omitempty"`
	Description            string               `json:"description"`
	TotalQuantity          float64              `json:"totalQuantity"`
	AverageUnitCost        float64              `json:"averageUnitCost"`
	MaterialType           string               `json:"materialType"`
	StockingStatus         StockingStatus       `json:"stockingStatus"`
	Criticality            Criticality          `json:"criticality"`
	EstimatedAnnualUsage   float64              `json:"estimatedAnnualUsage"`
	Locations              []MaterialLocation   `json:"locations"`
	StockBreakdown         []StockBreakdownItem `json:"stockBreakdown"`
	EquipmentParent        []string             `json:"equipmentParent"`
	LastUsedDate           string               `json:"lastUsedDate"`
	DuplicateAnalysis      DuplicateAnalysis    `json:"duplicateAnalysis"`
	Obsolescence           ObsolescenceData     `json:"obsolescence"`
	ROPMax                 ROPMax               `json:"ropMax"`
	ROPCalculation         ROPCalculation       `json:"ropCalculation"`
}

func (p MaterialProfile) HasEquipmentParent(code string) bool {
	for _, parent := range p.EquipmentParent {
		if parent == code {
			return true
		}
	}
	return false
}

func (p MaterialProfile) BreakdownTotal() float64 {
	total := 0.0
	for _, row := range p.StockBreakdown {
		total += row.Quantity
	}
	return total
}

type HistoryKind string

const (
	HistorySearch HistoryKind = "SEARCH"
	HistoryUpload HistoryKind = "UPLOAD"
)

type HistoryEntry struct {
	ID        string             `json:"id"`
	Kind      HistoryKind        `json:"type"`
	Label     string             `json:"label"`
	CreatedAt time.Time          `json:"timestamp"`
	Search    *EvaluationRequest `json:"search,omitempty"`
	Codes     []string           `json:"codes,omitempty"`
}

// EvaluationSource records which path produced a stored profile.
type EvaluationSource string

const (
	SourceProvider EvaluationSource = "provider"
	SourceFallback EvaluationSource = "fallback"
)
