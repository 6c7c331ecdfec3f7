package testutil

import (
	"context"
	"strings"
	"sync"

	"street-name-validation/internal/models"
)

// MockLookup implements engine.Lookup for tests.
type MockLookup struct {
	Mu    sync.Mutex
	Resp  map[string]*models.StreetRecord // keyed by upper-cased name
	Err   error
	Calls int
}

func NewMockLookup() *MockLookup {
	return &MockLookup{Resp: map[string]*models.StreetRecord{}}
}

func (m *MockLookup) LookupExact(ctx context.Context, name string) (*models.StreetRecord, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Resp[strings.ToUpper(strings.TrimSpace(name))], nil
}

// MockChecker implements engine.SimilarityChecker for tests.
type MockChecker struct {
	Mu    sync.Mutex
	Resp  map[string]*models.SimilarStreet // keyed by candidate name
	Err   error
	Calls []string
}

func NewMockChecker() *MockChecker {
	return &MockChecker{Resp: map[string]*models.SimilarStreet{}}
}

func (m *MockChecker) Check(ctx context.Context, candidateName string) (*models.SimilarStreet, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Calls = append(m.Calls, candidateName)
	if m.Err != nil {
		return nil, m.Err
	}
	if r, ok := m.Resp[candidateName]; ok {
		return r, nil
	}
	// default: no phonetic neighbor
	return &models.SimilarStreet{Similar: false, NormalizedDistance: 1}, nil
}
