package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"minestock/internal"
	"minestock/internal/config"
	"minestock/internal/ingest"
	"minestock/internal/report"
	"minestock/internal/storage"
	"minestock/internal/synth"
	"minestock/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()
	db.SetHistoryLimit(cfg.HistoryLimit)

	svc := synth.NewService(db, cfg)

	cmd := os.Args[1]
	switch cmd {
	case "evaluate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		code := fs.String("code", "", "material code (internal ERP id)")
		description := fs.String("description", "", "material description")
		equipment := fs.String("equipment", "", "parent equipment code")
		criticality := fs.String("criticality", "B", "criticality A|B|C|D")
		partNumber := fs.String("part", "", "manufacturer part number")
		leadTime := fs.Float64("lead-time", -1, "lead time in days")
		unitPrice := fs.Float64("unit-price", -1, "unit price")
		holdingCost := fs.Float64("holding-cost", -1, "holding cost percent")
		orderingCost := fs.Float64("ordering-cost", -1, "ordering cost")
		annualUsage := fs.Float64("annual-usage", -1, "estimated annual usage")
		record := fs.Bool("record", true, "write a history entry")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*code) == "" {
			must(fmt.Errorf("--code is required"))
		}

		req := internal.CodeRequest(*code)
		if *description != "" {
			req.Description = *description
		}
		if *equipment != "" {
			req.EquipmentCode = *equipment
		}
		req.Criticality = internal.Criticality(strings.ToUpper(*criticality))
		req.PartNumber = *partNumber
		req.LeadTime = optional(*leadTime)
		req.UnitPrice = optional(*unitPrice)
		req.HoldingCost = optional(*holdingCost)
		req.OrderingCost = optional(*orderingCost)
		req.AnnualUsage = optional(*annualUsage)

		profile, err := svc.Evaluate(context.Background(), req)
		must(err)
		if *record {
			_, err = db.RecordSearch(req)
			must(err)
		}
		must(printJSON(profile))
	case "bulk":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "bulk file (csv, txt, xlsx, html, pdf)")
		format := fs.String("format", "", "override format: csv|xlsx|html|pdf")
		out := fs.String("out", "", "optional xlsx output path")
		record := fs.Bool("record", true, "write a history entry")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		content, err := os.ReadFile(*input)
		must(err)
		f := ingest.DetectFormat(*input)
		if *format != "" {
			f = ingest.Format(*format)
		}
		codes, err := ingest.ExtractCodes(f, content)
		must(err)

		profiles, err := svc.EvaluateBulk(context.Background(), codes)
		must(err)
		if *record {
			_, err = db.RecordUpload(storage.UploadLabel(*input, len(codes)), codes)
			must(err)
		}
		if *out != "" {
			must(report.ExportProfilesXLSX(profiles, *out))
			fmt.Printf("bulk done codes=%d profiles=%d output=%s\n", len(codes), len(profiles), *out)
			return
		}
		must(printJSON(profiles))
	case "history:list":
		entries, err := db.History()
		must(err)
		for _, e := range entries {
			fmt.Printf("%s  %-6s  %s  %s\n", e.ID, e.Kind, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Label)
		}
	case "history:replay":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "history entry id")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*id) == "" {
			must(fmt.Errorf("--id is required"))
		}

		entry, err := db.GetHistory(*id)
		must(err)
		if entry == nil {
			must(fmt.Errorf("history entry not found: %s", *id))
		}
		switch entry.Kind {
		case internal.HistorySearch:
			if entry.Search == nil {
				must(fmt.Errorf("history entry %s has no stored request", *id))
			}
			profile, err := svc.Evaluate(context.Background(), *entry.Search)
			must(err)
			must(printJSON(profile))
		case internal.HistoryUpload:
			profiles, err := svc.EvaluateBulk(context.Background(), entry.Codes)
			must(err)
			must(printJSON(profiles))
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		limit := fs.Int("limit", 10, "number of recent evaluations")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		profiles, err := db.ListLatestProfiles(*limit)
		must(err)
		if len(profiles) == 0 {
			must(fmt.Errorf("no stored evaluations to export"))
		}
		must(report.ExportProfilesXLSX(profiles, *out))
		fmt.Printf("exported %d profiles to %s\n", len(profiles), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func optional(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return util.FloatPtr(v)
}

func printJSON(v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}

func usage() {
	fmt.Println("usage: minestock <command>")
	fmt.Println("commands:")
	fmt.Println("  evaluate --code=401121145 --description=... --equipment=... [--criticality=B] [--lead-time=30] [--unit-price=250]")
	fmt.Println("  bulk --input=codes.csv [--format=csv|xlsx|html|pdf] [--out=./out/bulk.xlsx]")
	fmt.Println("  history:list")
	fmt.Println("  history:replay --id=...")
	fmt.Println("  export:xlsx --out=./out/evaluations.xlsx [--limit=10]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
