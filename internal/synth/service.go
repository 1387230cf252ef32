package synth

import (
	"context"
	"errors"
	"log"
	"strings"

	"minestock/internal"
	"minestock/internal/config"
	"minestock/internal/storage"
)

// ErrNoCodes is returned when a bulk upload yields nothing to evaluate.
var ErrNoCodes = errors.New("no material codes supplied")

// Service produces material profiles, degrading to the deterministic
// fallback whenever the provider cannot deliver a usable profile.
type Service struct {
	db       *storage.DB
	cfg      config.Config
	provider Provider
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	var provider Provider
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		provider = NewGeminiClient(cfg)
	}
	return &Service{db: db, cfg: cfg, provider: provider}
}

func NewServiceWithProvider(db *storage.DB, cfg config.Config, provider Provider) *Service {
	return &Service{db: db, cfg: cfg, provider: provider}
}

// Evaluate returns a profile for the request. Provider failures of any
// kind (transport, status, empty body, malformed JSON) are recovered
// by substituting the fallback profile; only an invalid request is an
// error.
func (s *Service) Evaluate(ctx context.Context, req internal.EvaluationRequest) (internal.MaterialProfile, error) {
	if err := req.Validate(); err != nil {
		return internal.MaterialProfile{}, err
	}

	source := internal.SourceFallback
	var profile internal.MaterialProfile
	if s.provider != nil {
		remote, err := s.provider.Synthesize(ctx, req)
		if err == nil && remote != nil {
			profile = *remote
			source = internal.SourceProvider
		} else if err != nil {
			log.Printf("synthesis degraded to fallback for %s: %v", req.MaterialCode, err)
		}
	}
	if source == internal.SourceFallback {
		profile = Fallback(req.MaterialCode, &req)
	}

	normalize(&profile, &req)
	s.logEvaluation(profile, source)
	return profile, nil
}

// EvaluateCode wraps a bare code search in a minimal request.
func (s *Service) EvaluateCode(ctx context.Context, code string) (internal.MaterialProfile, error) {
	return s.Evaluate(ctx, internal.CodeRequest(code))
}

// EvaluateBulk evaluates every submitted code; the result list tracks
// the input in length and order. Without a configured provider the
// canned demo transform is used instead, which pads to three items.
func (s *Service) EvaluateBulk(ctx context.Context, codes []string) ([]internal.MaterialProfile, error) {
	if len(codes) == 0 {
		return nil, ErrNoCodes
	}

	if s.provider == nil {
		profiles := DemoProfiles(codes)
		for _, p := range profiles {
			s.logEvaluation(p, internal.SourceFallback)
		}
		return profiles, nil
	}

	out := make([]internal.MaterialProfile, 0, len(codes))
	for _, code := range codes {
		profile, err := s.Evaluate(ctx, internal.CodeRequest(code))
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, nil
}

func (s *Service) logEvaluation(profile internal.MaterialProfile, source internal.EvaluationSource) {
	if s.db == nil {
		return
	}
	if err := s.db.InsertEvaluation(profile, source); err != nil {
		log.Printf("evaluation log write failed: %v", err)
	}
}

// normalize enforces the synthesis contract on whatever came back:
// request echoes, closed enumerations, reconciled duplicate count.
func normalize(p *internal.MaterialProfile, req *internal.EvaluationRequest) {
	if req != nil {
		p.MaterialCode = req.MaterialCode
		p.Criticality = internal.NormalizeCriticality(string(req.Criticality))
		if !p.HasEquipmentParent(req.EquipmentCode) {
			p.EquipmentParent = append([]string{req.EquipmentCode}, p.EquipmentParent...)
		}
	} else {
		p.Criticality = internal.NormalizeCriticality(string(p.Criticality))
	}

	p.StockingStatus = internal.NormalizeStockingStatus(string(p.StockingStatus))
	p.Obsolescence.RiskLevel = internal.NormalizeRiskLevel(string(p.Obsolescence.RiskLevel))
	p.ROPMax.CurrentStatus = internal.NormalizeStockStatus(string(p.ROPMax.CurrentStatus))
	for i := range p.StockBreakdown {
		p.StockBreakdown[i].Condition = internal.NormalizeStockCondition(string(p.StockBreakdown[i].Condition))
	}
	for i := range p.DuplicateAnalysis.Duplicates {
		p.DuplicateAnalysis.Duplicates[i].ObsolescenceRisk = internal.NormalizeRiskLevel(string(p.DuplicateAnalysis.Duplicates[i].ObsolescenceRisk))
	}
	p.DuplicateAnalysis.TotalDuplicates = len(p.DuplicateAnalysis.Duplicates)
}
