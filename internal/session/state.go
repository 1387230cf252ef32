// Package session tracks which screen the dashboard shows and which
// profile is selected. One long-lived state per process; overlapping
// submissions resolve last-write-wins under the mutex.
package session

import (
	"sync"

	"minestock/internal"
)

type View string

const (
	ViewHome    View = "HOME"
	ViewProfile View = "PROFILE"
	ViewBulk    View = "BULK"
)

type SheetMode string

const (
	SheetHidden  SheetMode = "hidden"
	SheetPartial SheetMode = "partial"
	SheetFull    SheetMode = "full"
)

type State struct {
	mu      sync.Mutex
	view    View
	sheet   SheetMode
	current *internal.MaterialProfile
	bulk    []internal.MaterialProfile
}

// Snapshot is the JSON shape the dashboard polls.
type Snapshot struct {
	View    View                       `json:"view"`
	Sheet   SheetMode                  `json:"sheet"`
	Current *internal.MaterialProfile  `json:"current,omitempty"`
	Bulk    []internal.MaterialProfile `json:"bulk,omitempty"`
}

func New() *State {
	return &State{view: ViewHome, sheet: SheetHidden}
}

// ShowProfile lands a single-search result: PROFILE view, sheet forced
// hidden.
func (s *State) ShowProfile(profile internal.MaterialProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &profile
	s.view = ViewProfile
	s.sheet = SheetHidden
}

// ShowBulk lands a bulk result set: BULK view, sheet forced hidden.
// The previous bulk list is overwritten, not merged.
func (s *State) ShowBulk(results []internal.MaterialProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulk = results
	s.view = ViewBulk
	s.sheet = SheetHidden
}

// Back routes PROFILE to BULK when a bulk result set is in memory and
// to HOME otherwise; BULK goes to HOME and drops its results.
func (s *State) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.view {
	case ViewProfile:
		if len(s.bulk) > 0 {
			s.view = ViewBulk
		} else {
			s.view = ViewHome
			s.current = nil
		}
	case ViewBulk:
		s.view = ViewHome
		s.bulk = nil
		s.sheet = SheetHidden
	}
}

// Home resets to the initial screen.
func (s *State) Home() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewHome
	s.sheet = SheetHidden
	s.current = nil
	s.bulk = nil
}

// SelectBulkRow opens a bulk row as the partial side sheet. The primary
// view stays BULK; selecting an unknown code is a no-op.
func (s *State) SelectBulkRow(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewBulk {
		return false
	}
	for i := range s.bulk {
		if s.bulk[i].MaterialCode == code {
			profile := s.bulk[i]
			s.current = &profile
			s.sheet = SheetPartial
			return true
		}
	}
	return false
}

// SetSheet changes the overlay mode. partial/full are only meaningful
// on the BULK view; hidden is always allowed and leaves the bulk
// results untouched.
func (s *State) SetSheet(mode SheetMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case SheetHidden:
		s.sheet = SheetHidden
		return true
	case SheetPartial, SheetFull:
		if s.view != ViewBulk {
			return false
		}
		s.sheet = mode
		return true
	default:
		return false
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{View: s.view, Sheet: s.sheet}
	if s.current != nil {
		profile := *s.current
		snap.Current = &profile
	}
	if len(s.bulk) > 0 {
		snap.Bulk = append([]internal.MaterialProfile{}, s.bulk...)
	}
	return snap
}

// BulkResults returns a copy of the current bulk result set.
func (s *State) BulkResults() []internal.MaterialProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]internal.MaterialProfile{}, s.bulk...)
}
