package profile

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/patterns"
)

const instrumentationName = "github.com/inkwelllabs/styleprofd/internal/profile"

// Store owns the aggregate profile. A single mutex serializes complete Merge
// invocations, so no two merges ever interleave their reads and writes of the
// same category's stored list. Extraction has no shared state and stays
// outside the lock.
type Store struct {
	mu     sync.RWMutex
	p      *Profile
	logger *zap.Logger
	tracer trace.Tracer
}

// NewStore creates an empty store. The profile lives only for the process
// lifetime; there is no persistence.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		p:      newProfile(),
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
	}
}

// Merge folds one document's snapshot into the aggregate and increments the
// document count by exactly one. A nil snapshot is a no-op contribution but
// still counts the document.
func (s *Store) Merge(ctx context.Context, snap *patterns.Snapshot) {
	_, span := s.tracer.Start(ctx, "profile.Merge")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.p.Count++
	if snap == nil {
		span.SetAttributes(attribute.Int("profile.count", s.p.Count))
		return
	}

	for cat, vals := range snap.Numbers {
		s.mergeNumeric(cat, vals)
	}
	for cat, vals := range snap.Strings {
		s.mergeStrings(cat, vals)
	}

	s.p.Layouts = append(s.p.Layouts, snap.Layouts)
	if len(s.p.Layouts) > layoutHistoryLimit {
		s.p.Layouts = s.p.Layouts[len(s.p.Layouts)-layoutHistoryLimit:]
	}

	for k, v := range snap.CommonStyles.CSSVariables {
		s.p.CommonStyles.CSSVariables[k] = v
	}

	for arch, props := range snap.ComponentStyles {
		stored, ok := s.p.ComponentStyles[arch]
		if !ok {
			stored = make(map[string][]string, len(props))
			s.p.ComponentStyles[arch] = stored
		}
		for prop, vals := range props {
			stored[prop] = unionCapped(stored[prop], vals, componentValueLimit)
		}
	}

	span.SetAttributes(attribute.Int("profile.count", s.p.Count))
	s.logger.Debug("merged snapshot", zap.Int("count", s.p.Count))
}

// componentValueLimit mirrors the extractor's per-property sample bound.
const componentValueLimit = 5

// mergeNumeric applies tolerance dedup, then re-sorts and truncates at
// capacity. Truncation after sort drops the largest values; eviction is
// insertion-order dependent rather than frequency-aware, which is the
// documented behavior.
func (s *Store) mergeNumeric(cat patterns.Category, vals []float64) {
	spec := patterns.Specs[cat]
	stored := s.p.Numbers[cat]
	for _, v := range vals {
		if !withinTolerance(stored, v, spec.Tolerance) {
			stored = append(stored, v)
		}
	}
	sort.Float64s(stored)
	if len(stored) > spec.Capacity {
		stored = stored[:spec.Capacity]
	}
	s.p.Numbers[cat] = stored
}

// withinTolerance reports whether an existing entry lies strictly closer than
// tol to v. An empty stored list always resolves to "treat as new".
func withinTolerance(stored []float64, v, tol float64) bool {
	for _, e := range stored {
		if math.Abs(e-v) < tol {
			return true
		}
	}
	return false
}

// mergeStrings appends values not already present, then truncates keeping the
// first capacity entries in accumulated order.
func (s *Store) mergeStrings(cat patterns.Category, vals []string) {
	spec := patterns.Specs[cat]
	stored := s.p.Strings[cat]
	for _, v := range vals {
		if !containsString(stored, v) {
			stored = append(stored, v)
		}
	}
	if len(stored) > spec.Capacity {
		stored = stored[:spec.Capacity]
	}
	s.p.Strings[cat] = stored
}

func containsString(vals []string, v string) bool {
	for _, e := range vals {
		if e == v {
			return true
		}
	}
	return false
}

// unionCapped appends unseen values up to the limit.
func unionCapped(stored, vals []string, limit int) []string {
	for _, v := range vals {
		if len(stored) >= limit {
			break
		}
		if !containsString(stored, v) {
			stored = append(stored, v)
		}
	}
	return stored
}

// Reset replaces the aggregate with a fresh empty profile.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = newProfile()
	s.logger.Info("profile reset")
}

// Profile returns a deep-copied read-only snapshot of the aggregate.
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.clone()
}

// Count returns the number of documents merged since the last reset.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.Count
}
