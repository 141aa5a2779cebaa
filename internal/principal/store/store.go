// Package store persists principals. Both variants share one generic
// implementation per backend; uniqueness is enforced on every write and
// surfaced as *sentinel.UniqueViolation naming the colliding field.
package store

import (
	"context"

	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
)

// Store is the CredentialStore of one variant.
type Store[T models.Record[T]] interface {
	Create(ctx context.Context, p T) error
	Update(ctx context.Context, p T) error
	FindByID(ctx context.Context, principalID id.PrincipalID) (T, error)
	FindByField(ctx context.Context, field models.Field, value string) (T, error)
	// Execute loads the record under lock, runs validate, then mutate, and
	// persists the result. Nothing is written when validate fails.
	Execute(ctx context.Context, principalID id.PrincipalID, validate func(T) error, mutate func(T)) (T, error)
}

type (
	IndividualStore   = Store[*models.Individual]
	OrganizationStore = Store[*models.Organization]
)
