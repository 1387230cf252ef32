package server

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minestock/internal"
	"minestock/internal/ingest"
	"minestock/internal/report"
	"minestock/internal/rop"
	"minestock/internal/session"
	"minestock/internal/storage"
	"minestock/internal/synth"
)

// Failure messages shown verbatim by the dashboard, one per operation.
const (
	searchFailedMessage = "Failed to fetch material data. Please try again."
	bulkFailedMessage   = "Error processing file."
)

type Handler struct {
	db    *storage.DB
	svc   *synth.Service
	state *session.State
}

func NewHandler(db *storage.DB, svc *synth.Service, state *session.State) *Handler {
	return &Handler{db: db, svc: svc, state: state}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type searchResponse struct {
	Profile internal.MaterialProfile `json:"profile"`
	History []internal.HistoryEntry  `json:"history"`
}

func (h *Handler) Search(c *gin.Context) {
	var req internal.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": searchFailedMessage, "detail": err.Error()})
		return
	}

	profile, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": searchFailedMessage, "detail": err.Error()})
		return
	}

	h.state.ShowProfile(profile)
	history := h.recordSearch(req)
	c.JSON(http.StatusOK, searchResponse{Profile: profile, History: history})
}

type bulkRequest struct {
	Codes []string `json:"codes"`
}

type bulkResponse struct {
	Profiles []internal.MaterialProfile `json:"profiles"`
	History  []internal.HistoryEntry    `json:"history"`
}

func (h *Handler) BulkUpload(c *gin.Context) {
	codes, fileName, err := h.bulkCodes(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bulkFailedMessage, "detail": err.Error()})
		return
	}

	profiles, err := h.svc.EvaluateBulk(c.Request.Context(), codes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bulkFailedMessage, "detail": err.Error()})
		return
	}

	h.state.ShowBulk(profiles)
	history := h.recordUpload(storage.UploadLabel(fileName, len(codes)), codes)
	c.JSON(http.StatusOK, bulkResponse{Profiles: profiles, History: history})
}

func (h *Handler) bulkCodes(c *gin.Context) ([]string, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		codes, err := ingest.ExtractCodes(ingest.DetectFormat(header.Filename), content)
		return codes, header.Filename, err
	}

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, "", err
	}
	return req.Codes, "", nil
}

func (h *Handler) BulkExport(c *gin.Context) {
	profiles := h.state.BulkResults()
	if len(profiles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no bulk results to export"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="bulk-analysis.xlsx"`)
	if err := report.WriteProfilesXLSX(profiles, c.Writer); err != nil {
		log.Printf("bulk export failed: %v", err)
	}
}

func (h *Handler) HistoryList(c *gin.Context) {
	history, err := h.db.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// HistoryReplay re-runs the stored operation without writing a new
// history entry.
func (h *Handler) HistoryReplay(c *gin.Context) {
	entry, err := h.db.GetHistory(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
		return
	}

	switch entry.Kind {
	case internal.HistorySearch:
		if entry.Search == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": searchFailedMessage})
			return
		}
		profile, err := h.svc.Evaluate(c.Request.Context(), *entry.Search)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": searchFailedMessage, "detail": err.Error()})
			return
		}
		h.state.ShowProfile(profile)
		c.JSON(http.StatusOK, gin.H{"profile": profile})
	case internal.HistoryUpload:
		profiles, err := h.svc.EvaluateBulk(c.Request.Context(), entry.Codes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bulkFailedMessage, "detail": err.Error()})
			return
		}
		h.state.ShowBulk(profiles)
		c.JSON(http.StatusOK, gin.H{"profiles": profiles})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown history kind"})
	}
}

func (h *Handler) StateSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Snapshot())
}

func (h *Handler) StateBack(c *gin.Context) {
	h.state.Back()
	c.JSON(http.StatusOK, h.state.Snapshot())
}

func (h *Handler) StateHome(c *gin.Context) {
	h.state.Home()
	c.JSON(http.StatusOK, h.state.Snapshot())
}

type selectRequest struct {
	MaterialCode string `json:"materialCode"`
}

func (h *Handler) StateSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.state.SelectBulkRow(req.MaterialCode) {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not in bulk results"})
		return
	}
	c.JSON(http.StatusOK, h.state.Snapshot())
}

type sheetRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) StateSheet(c *gin.Context) {
	var req sheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.state.SetSheet(session.SheetMode(req.Mode)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sheet mode"})
		return
	}
	c.JSON(http.StatusOK, h.state.Snapshot())
}

type ropRequest struct {
	AnnualUsage      float64 `json:"annualUsage"`
	LeadTime         float64 `json:"leadTime"`
	Criticality      string  `json:"criticality"`
	UnitPrice        float64 `json:"unitPrice"`
	HoldingCostPct   float64 `json:"holdingCostPct"`
	OrderingCost     float64 `json:"orderingCost"`
	DuplicateStock   float64 `json:"duplicateStock"`
	ObsolescenceRisk string  `json:"obsolescenceRisk"`
}

// Recalculate backs the dashboard's editable reorder parameters.
func (h *Handler) Recalculate(c *gin.Context) {
	var req ropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	risk := internal.RiskLevel("")
	if strings.TrimSpace(req.ObsolescenceRisk) != "" {
		risk = internal.NormalizeRiskLevel(req.ObsolescenceRisk)
	}
	calc := rop.Calculate(rop.Inputs{
		AnnualUsage:      req.AnnualUsage,
		LeadTimeDays:     req.LeadTime,
		Criticality:      internal.Criticality(req.Criticality),
		UnitPrice:        req.UnitPrice,
		HoldingCostPct:   req.HoldingCostPct,
		OrderingCost:     req.OrderingCost,
		DuplicateStock:   req.DuplicateStock,
		ObsolescenceRisk: risk,
	})
	c.JSON(http.StatusOK, calc)
}

func (h *Handler) recordSearch(req internal.EvaluationRequest) []internal.HistoryEntry {
	history, err := h.db.RecordSearch(req)
	if err != nil {
		log.Printf("history write failed: %v", err)
	}
	return history
}

func (h *Handler) recordUpload(label string, codes []string) []internal.HistoryEntry {
	history, err := h.db.RecordUpload(label, codes)
	if err != nil {
		log.Printf("history write failed: %v", err)
	}
	return history
}
