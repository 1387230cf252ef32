package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"minestock/internal"
)

// ExportProfilesXLSX writes a one-row-per-material summary of the given
// profiles, the same sheet the bulk view offers for download.
func ExportProfilesXLSX(profiles []internal.MaterialProfile, outputPath string) error {
	f := buildProfilesSheet(profiles)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// WriteProfilesXLSX streams the same workbook, used by the download
// endpoint.
func WriteProfilesXLSX(profiles []internal.MaterialProfile, w io.Writer) error {
	_, err := buildProfilesSheet(profiles).WriteTo(w)
	return err
}

func buildProfilesSheet(profiles []internal.MaterialProfile) *excelize.File {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"material_code", "material_name", "material_type", "criticality",
		"stocking_status", "total_quantity", "average_unit_cost",
		"duplicates", "duplicate_stock", "potential_savings",
		"obsolescence_risk", "reorder_point", "max_stock", "status",
		"last_used",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range profiles {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.MaterialCode)
		set(2, p.MaterialName)
		set(3, p.MaterialType)
		set(4, string(p.Criticality))
		set(5, string(p.StockingStatus))
		set(6, p.TotalQuantity)
		set(7, p.AverageUnitCost)
		set(8, p.DuplicateAnalysis.TotalDuplicates)
		set(9, p.DuplicateAnalysis.TotalStockAcrossDuplicates)
		set(10, p.DuplicateAnalysis.PotentialSavings)
		set(11, string(p.Obsolescence.RiskLevel))
		set(12, p.ROPMax.ReorderPoint)
		set(13, p.ROPMax.MaxStock)
		set(14, string(p.ROPMax.CurrentStatus))
		set(15, p.LastUsedDate)
	}

	return f
}
