package synth

import (
	"context"
	"errors"
	"testing"

	"minestock/internal"
	"minestock/internal/config"
)

type stubProvider struct {
	profile *internal.MaterialProfile
	err     error
	calls   int
}

func (s *stubProvider) Synthesize(_ context.Context, _ internal.EvaluationRequest) (*internal.MaterialProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.profile
	return &out, nil
}

func testRequest() internal.EvaluationRequest {
	return internal.EvaluationRequest{
		MaterialCode:  "X1",
		Description:   "Test Bearing",
		EquipmentCode: "EQ1",
		Criticality:   internal.CriticalityA,
	}
}

func TestEvaluateFallsBackOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("network down")}
	svc := NewServiceWithProvider(nil, config.Config{}, provider)

	profile, err := svc.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("evaluate should not surface provider failure: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times", provider.calls)
	}
	if profile.MaterialCode != "X1" {
		t.Fatalf("materialCode = %q", profile.MaterialCode)
	}
	if profile.Criticality != internal.CriticalityA {
		t.Fatalf("criticality = %s", profile.Criticality)
	}
	if !profile.HasEquipmentParent("EQ1") {
		t.Fatalf("equipmentParent %v missing EQ1", profile.EquipmentParent)
	}
}

func TestEvaluateNormalizesProviderOutput(t *testing.T) {
	remote := Fallback("WRONG-CODE", nil)
	remote.Criticality = "Z"
	remote.StockingStatus = "whatever"
	remote.EquipmentParent = []string{"OTHER"}
	remote.Obsolescence.RiskLevel = "severe"
	remote.DuplicateAnalysis.TotalDuplicates = 99
	provider := &stubProvider{profile: &remote}
	svc := NewServiceWithProvider(nil, config.Config{}, provider)

	profile, err := svc.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if profile.MaterialCode != "X1" {
		t.Fatalf("materialCode not echoed: %q", profile.MaterialCode)
	}
	if profile.Criticality != internal.CriticalityA {
		t.Fatalf("criticality not echoed: %s", profile.Criticality)
	}
	if !profile.HasEquipmentParent("EQ1") {
		t.Fatalf("equipmentParent not enforced: %v", profile.EquipmentParent)
	}
	if profile.StockingStatus != internal.StockNormally {
		t.Fatalf("stockingStatus not clamped: %s", profile.StockingStatus)
	}
	if profile.Obsolescence.RiskLevel != internal.RiskMedium {
		t.Fatalf("riskLevel not clamped: %s", profile.Obsolescence.RiskLevel)
	}
	if profile.DuplicateAnalysis.TotalDuplicates != len(profile.DuplicateAnalysis.Duplicates) {
		t.Fatalf("duplicate count not reconciled: %d vs %d",
			profile.DuplicateAnalysis.TotalDuplicates, len(profile.DuplicateAnalysis.Duplicates))
	}
}

func TestEvaluateRejectsInvalidRequest(t *testing.T) {
	svc := NewServiceWithProvider(nil, config.Config{}, &stubProvider{err: errors.New("unused")})
	_, err := svc.Evaluate(context.Background(), internal.EvaluationRequest{MaterialCode: "X1"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestEvaluateBulkTracksInput(t *testing.T) {
	provider := &stubProvider{err: errors.New("offline")}
	svc := NewServiceWithProvider(nil, config.Config{}, provider)

	codes := []string{"C1", "C2", "C2", "C3", "C4"}
	profiles, err := svc.EvaluateBulk(context.Background(), codes)
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(profiles) != len(codes) {
		t.Fatalf("result length %d != input length %d", len(profiles), len(codes))
	}
	for i, code := range codes {
		if profiles[i].MaterialCode != code {
			t.Fatalf("position %d: got %q want %q", i, profiles[i].MaterialCode, code)
		}
	}
}

func TestEvaluateBulkRejectsEmptyList(t *testing.T) {
	svc := NewServiceWithProvider(nil, config.Config{}, nil)
	if _, err := svc.EvaluateBulk(context.Background(), nil); !errors.Is(err, ErrNoCodes) {
		t.Fatalf("expected ErrNoCodes, got %v", err)
	}
}

func TestEvaluateBulkDemoModeWithoutProvider(t *testing.T) {
	svc := NewServiceWithProvider(nil, config.Config{}, nil)
	profiles, err := svc.EvaluateBulk(context.Background(), []string{"ONLY-ONE"})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("demo mode should pad to 3 profiles, got %d", len(profiles))
	}
	if profiles[0].MaterialCode != "ONLY-ONE" {
		t.Fatalf("first demo profile should keep the submitted code, got %q", profiles[0].MaterialCode)
	}
}
