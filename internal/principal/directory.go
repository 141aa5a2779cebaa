// Package principal resolves principals of either kind behind one
// capability interface so callers do not branch on a type string.
package principal

import (
	"context"
	"errors"
	"fmt"

	"consultly/internal/principal/models"
	"consultly/internal/principal/store"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/sentinel"
)

// Directory dispatches to the store of each variant.
type Directory struct {
	individuals   store.IndividualStore
	organizations store.OrganizationStore
}

func NewDirectory(individuals store.IndividualStore, organizations store.OrganizationStore) *Directory {
	return &Directory{individuals: individuals, organizations: organizations}
}

// LoginField is the identity field a principal of kind logs in with.
func LoginField(k models.Kind) models.Field {
	if k == models.KindOrganization {
		return models.FieldBusinessEmail
	}
	return models.FieldEmail
}

// FindByID returns sentinel.ErrNotFound when absent.
func (d *Directory) FindByID(ctx context.Context, kind models.Kind, principalID id.PrincipalID) (models.Principal, error) {
	switch kind {
	case models.KindIndividual:
		return principalOf(d.individuals.FindByID(ctx, principalID))
	case models.KindOrganization:
		return principalOf(d.organizations.FindByID(ctx, principalID))
	}
	return nil, unknownKind(kind)
}

// FindByField returns sentinel.ErrNotFound when absent.
func (d *Directory) FindByField(ctx context.Context, kind models.Kind, field models.Field, value string) (models.Principal, error) {
	switch kind {
	case models.KindIndividual:
		return principalOf(d.individuals.FindByField(ctx, field, value))
	case models.KindOrganization:
		return principalOf(d.organizations.FindByField(ctx, field, value))
	}
	return nil, unknownKind(kind)
}

// FindByIdentity matches value against the email then the phone of kind.
func (d *Directory) FindByIdentity(ctx context.Context, kind models.Kind, value string) (models.Principal, error) {
	for _, field := range []models.Field{LoginField(kind), models.FieldPhone} {
		p, err := d.FindByField(ctx, kind, field, value)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s %q: %w", kind, value, sentinel.ErrNotFound)
}

// FindAnyByEmail searches individuals first, then organizations. It backs
// clients that do not send a type discriminator.
func (d *Directory) FindAnyByEmail(ctx context.Context, email string) (models.Principal, error) {
	for _, kind := range []models.Kind{models.KindIndividual, models.KindOrganization} {
		p, err := d.FindByField(ctx, kind, LoginField(kind), email)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("email %q: %w", email, sentinel.ErrNotFound)
}

// FindMatches returns, in priority order, each existing principal of kind
// that shares a unique field value with candidate.
func (d *Directory) FindMatches(ctx context.Context, candidate models.Principal) ([]Match, error) {
	var out []Match
	for _, pair := range models.IdentityValues(candidate) {
		p, err := d.FindByField(ctx, candidate.Kind(), pair.Field, pair.Value)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Match{Field: pair.Field, Principal: p})
	}
	return out, nil
}

// Match is an existing principal colliding with a candidate on Field.
type Match struct {
	Field     models.Field
	Principal models.Principal
}

func (d *Directory) Create(ctx context.Context, p models.Principal) error {
	switch v := p.(type) {
	case *models.Individual:
		return d.individuals.Create(ctx, v)
	case *models.Organization:
		return d.organizations.Create(ctx, v)
	}
	return unknownKind(p.Kind())
}

func (d *Directory) Update(ctx context.Context, p models.Principal) error {
	switch v := p.(type) {
	case *models.Individual:
		return d.individuals.Update(ctx, v)
	case *models.Organization:
		return d.organizations.Update(ctx, v)
	}
	return unknownKind(p.Kind())
}

// Execute runs validate then mutate on the locked record of kind.
func (d *Directory) Execute(
	ctx context.Context,
	kind models.Kind,
	principalID id.PrincipalID,
	validate func(models.Principal) error,
	mutate func(models.Principal),
) (models.Principal, error) {
	switch kind {
	case models.KindIndividual:
		return principalOf(d.individuals.Execute(ctx, principalID,
			func(p *models.Individual) error { return validate(p) },
			func(p *models.Individual) { mutate(p) },
		))
	case models.KindOrganization:
		return principalOf(d.organizations.Execute(ctx, principalID,
			func(p *models.Organization) error { return validate(p) },
			func(p *models.Organization) { mutate(p) },
		))
	}
	return nil, unknownKind(kind)
}

// RequiresVerification reports whether p must finish OTP verification
// before it may log in.
func (d *Directory) RequiresVerification(p models.Principal) bool {
	return p.Base().RequiresVerification()
}

// CheckAccess re-loads the principal behind a token and denies it when its
// current status blocks access. It returns the roles stored now.
func (d *Directory) CheckAccess(ctx context.Context, kind string, principalID id.PrincipalID) ([]string, error) {
	k, err := models.ParseKind(kind)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}
	p, err := d.FindByID(ctx, k, principalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	status := p.Base().Status
	if status.DeniesAccess() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, status.DenialReason())
	}
	return p.Base().Roles, nil
}

// principalOf keeps a typed nil out of the interface on error.
func principalOf[T models.Principal](p T, err error) (models.Principal, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func unknownKind(k models.Kind) error {
	return dErrors.NewField(dErrors.CodeValidation, "type", "unknown principal type "+string(k))
}
