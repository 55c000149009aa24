// Package text orchestrates analysis, storage and querying of string records.
package text

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/analysis"
	"github.com/kailas-cloud/textdex/internal/domain/identity"
	"github.com/kailas-cloud/textdex/internal/domain/query/filter"
	"github.com/kailas-cloud/textdex/internal/domain/query/nl"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/metrics"
)

// Service handles string record operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a text service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the timestamp source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create analyzes value and stores a new immutable record keyed by its content
// digest. Reinserting identical text fails with ErrAlreadyExists; the store is
// unchanged on failure.
func (s *Service) Create(ctx context.Context, value string) (record.Record, error) {
	props := analysis.Analyze(value)

	rec, err := record.New(value, props, s.now())
	if err != nil {
		return record.Record{}, fmt.Errorf("validate value: %w", domain.NewValidation("value", "%s", err))
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("insert record: %w", err)
	}

	metrics.RecordsCreatedTotal.Inc()
	return rec, nil
}

// Get returns the record whose digest matches the supplied original text.
func (s *Service) Get(ctx context.Context, value string) (record.Record, error) {
	rec, err := s.repo.Get(ctx, identity.Digest(value))
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete removes the record whose digest matches the supplied original text.
func (s *Service) Delete(ctx context.Context, value string) error {
	if err := s.repo.Delete(ctx, identity.Digest(value)); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	metrics.RecordsDeletedTotal.Inc()
	return nil
}

// List parses raw filter tokens and returns the matching records in insertion
// order, together with the validated spec for the filters_applied echo. An
// invalid filter fails the whole operation; it never degrades to "no filter".
func (s *Service) List(ctx context.Context, raw filter.Raw) ([]record.Record, filter.Spec, error) {
	spec, err := filter.Parse(raw)
	if err != nil {
		return nil, filter.Spec{}, fmt.Errorf("parse filters: %w", err)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, filter.Spec{}, fmt.Errorf("list records: %w", err)
	}

	return filter.Apply(records, spec), spec, nil
}

// Query classifies a natural-language query and evaluates the resulting filter.
// An unrecognized phrasing fails with ErrQueryNotUnderstood and returns no
// records — never a fallback to the full collection.
func (s *Service) Query(ctx context.Context, query string) ([]record.Record, nl.Classification, error) {
	cls, err := nl.Classify(query)
	if err != nil {
		metrics.ClassifierQueriesTotal.WithLabelValues("unmatched").Inc()
		return nil, nl.Classification{}, fmt.Errorf("classify %q: %w: %w", query, domain.ErrQueryNotUnderstood, err)
	}
	metrics.ClassifierQueriesTotal.WithLabelValues(cls.Rule).Inc()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, nl.Classification{}, fmt.Errorf("list records: %w", err)
	}

	return filter.Apply(records, cls.Spec), cls, nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
