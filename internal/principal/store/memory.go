package store

import (
	"context"
	"fmt"
	"sync"

	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	"consultly/pkg/platform/sentinel"
)

// InMemory keeps cloned records in a map. Safe for concurrent use.
type InMemory[T models.Record[T]] struct {
	mu      sync.RWMutex
	records map[id.PrincipalID]T
}

func NewInMemory[T models.Record[T]]() *InMemory[T] {
	return &InMemory[T]{records: make(map[id.PrincipalID]T)}
}

func NewIndividualsInMemory() *InMemory[*models.Individual] {
	return NewInMemory[*models.Individual]()
}

func NewOrganizationsInMemory() *InMemory[*models.Organization] {
	return NewInMemory[*models.Organization]()
}

func (s *InMemory[T]) Create(_ context.Context, p T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := p.Base()
	if _, ok := s.records[base.ID]; ok {
		return fmt.Errorf("principal %s: %w", base.ID, sentinel.ErrAlreadyUsed)
	}
	if err := s.checkUnique(p); err != nil {
		return err
	}
	s.records[base.ID] = p.Clone()
	return nil
}

func (s *InMemory[T]) Update(_ context.Context, p T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(p)
}

func (s *InMemory[T]) update(p T) error {
	base := p.Base()
	existing, ok := s.records[base.ID]
	if !ok {
		return fmt.Errorf("principal %s: %w", base.ID, sentinel.ErrNotFound)
	}
	if err := s.checkUnique(p); err != nil {
		return err
	}
	next := p.Clone()
	next.Base().DisplayID = existing.Base().DisplayID
	s.records[base.ID] = next
	return nil
}

func (s *InMemory[T]) FindByID(_ context.Context, principalID id.PrincipalID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.records[principalID]; ok {
		return p.Clone(), nil
	}
	var zero T
	return zero, fmt.Errorf("principal %s: %w", principalID, sentinel.ErrNotFound)
}

func (s *InMemory[T]) FindByField(_ context.Context, field models.Field, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if value == "" {
		return zero, fmt.Errorf("%s: %w", field, sentinel.ErrNotFound)
	}
	for _, p := range s.records {
		if p.IdentityValue(field) == value {
			return p.Clone(), nil
		}
	}
	return zero, fmt.Errorf("%s: %w", field, sentinel.ErrNotFound)
}

func (s *InMemory[T]) Execute(_ context.Context, principalID id.PrincipalID, validate func(T) error, mutate func(T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	existing, ok := s.records[principalID]
	if !ok {
		return zero, fmt.Errorf("principal %s: %w", principalID, sentinel.ErrNotFound)
	}
	working := existing.Clone()
	if err := validate(working); err != nil {
		return zero, err
	}
	mutate(working)
	if err := s.update(working); err != nil {
		return zero, err
	}
	return working.Clone(), nil
}

// checkUnique mirrors the unique indexes of the SQL schema, reporting the
// highest-priority colliding field. Must hold mu.
func (s *InMemory[T]) checkUnique(p T) error {
	base := p.Base()
	if base.DisplayID != "" {
		for _, other := range s.records {
			if other.Base().ID != base.ID && other.Base().DisplayID == base.DisplayID {
				return &sentinel.UniqueViolation{Field: "displayId"}
			}
		}
	}
	for _, pair := range models.IdentityValues(p) {
		for _, other := range s.records {
			if other.Base().ID != base.ID && other.IdentityValue(pair.Field) == pair.Value {
				return &sentinel.UniqueViolation{Field: pair.Field.String()}
			}
		}
	}
	return nil
}
