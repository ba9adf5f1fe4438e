package api

import (
	"context"
	"sync"
	"time"

	"weather-widget/models"

	"github.com/rs/zerolog/log"
)

// ForecastState is the widget state of a single visitor session
type ForecastState struct {
	City       string       `json:"city"`
	Location   string       `json:"location"`
	Days       []models.Day `json:"days"`     // replaced wholesale, never edited in place
	Selected   int          `json:"selected"` // index into Days
	Message    string       `json:"message,omitempty"`
	Generation uint64       `json:"generation"` // latest search started for this session
	Updated    time.Time    `json:"updated"`
}

// ForecastStore holds forecast state organized by session id
type ForecastStore struct {
	data  map[string]*ForecastState
	mutex sync.RWMutex
}

// NewForecastStore creates a new in-memory session store
func NewForecastStore() *ForecastStore {
	return &ForecastStore{
		data: make(map[string]*ForecastState),
	}
}

// Get returns a copy of the state for a session
func (s *ForecastStore) Get(id string) (ForecastState, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	state, exists := s.data[id]
	if !exists {
		return ForecastState{}, false
	}
	return *state, true
}

// Begin records that a search for city started and returns its generation.
// Only the latest generation of a session may later commit.
func (s *ForecastStore) Begin(id, city string) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := s.stateLocked(id)
	state.Generation++
	state.City = city
	state.Updated = time.Now()
	return state.Generation
}

// Commit replaces the session forecast if gen is still the latest search.
// It reports whether the forecast was applied.
func (s *ForecastStore) Commit(id string, gen uint64, forecast models.Forecast) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, exists := s.data[id]
	if !exists || state.Generation != gen {
		return false
	}

	state.Days = forecast.Days
	state.Location = forecast.Location
	state.Selected = 0
	state.Message = ""
	state.Updated = time.Now()
	return true
}

// Fail stores an error message for the display area if gen is still the
// latest search. Previously held days are kept.
func (s *ForecastStore) Fail(id string, gen uint64, message string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, exists := s.data[id]
	if !exists || state.Generation != gen {
		return false
	}

	state.Message = message
	state.Updated = time.Now()
	return true
}

// Select switches the displayed day. Indices outside the held forecast
// leave the state untouched.
func (s *ForecastStore) Select(id string, index int) (ForecastState, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, exists := s.data[id]
	if !exists {
		return ForecastState{}, false
	}

	forecast := models.Forecast{Days: state.Days}
	if !forecast.ValidDay(index) {
		return *state, false
	}

	state.Selected = index
	state.Message = ""
	state.Updated = time.Now()
	return *state, true
}

// Len returns the number of live sessions
func (s *ForecastStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// PruneOldForecasts removes sessions idle for longer than maxAge
func (s *ForecastStore) PruneOldForecasts(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	prunedCount := 0

	for id, state := range s.data {
		if state.Updated.Before(cutoff) {
			delete(s.data, id)
			prunedCount++
		}
	}

	return prunedCount
}

// PruneEvery runs PruneOldForecasts on every tick until ctx is done
func (s *ForecastStore) PruneEvery(ctx context.Context, interval, maxAge time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.PruneOldForecasts(maxAge); n > 0 {
				log.Info().Int("pruned", n).Int("remaining", s.Len()).Msg("Pruned idle sessions")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *ForecastStore) stateLocked(id string) *ForecastState {
	state, exists := s.data[id]
	if !exists {
		state = &ForecastState{}
		s.data[id] = state
	}
	return state
}
