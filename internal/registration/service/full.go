package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"consultly/internal/notify"
	"consultly/internal/platform/tracing"
	"consultly/internal/principal"
	"consultly/internal/principal/models"
	regmodels "consultly/internal/registration/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/requestcontext"
)

const fullRegisteredMessage = "Registration submitted. Your profile is pending review."

// RegisterIndividual records a complete consultant profile with its
// supporting documents. A quick record with the same email is promoted.
func (s *Service) RegisterIndividual(ctx context.Context, req *regmodels.IndividualRequest) (*regmodels.RegistrationResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	candidate := &models.Individual{
		Account:                models.NewQuickAccount(id.NewPrincipalID(), req.Email, req.Phone, hash, models.RoleConsultant, now),
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		NationalID:             req.NationalID,
		TaxID:                  req.TaxID,
		Gender:                 req.Gender,
		DateOfBirth:            req.DateOfBirth,
		County:                 req.County,
		Address:                req.Address,
		Profession:             req.Profession,
		Specialization:         req.Specialization,
		YearsOfExperience:      req.YearsOfExperience,
		Skills:                 req.Skills,
		Education:              req.Education,
		CVURL:                  req.CVURL,
		AcademicCertificateURL: req.AcademicCertificateURL,
	}
	return s.fullRegister(ctx, candidate, hash, func(existing models.Principal) {
		if ind, ok := existing.(*models.Individual); ok {
			ind.ApplyProfile(candidate)
		}
	})
}

// RegisterOrganization records a complete organization profile with its
// four certificates. A quick record with the same business email is promoted.
func (s *Service) RegisterOrganization(ctx context.Context, req *regmodels.OrganizationRequest) (*regmodels.RegistrationResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	candidate := &models.Organization{
		Account:            models.NewQuickAccount(id.NewPrincipalID(), req.BusinessEmail, req.Phone, hash, models.RoleOrganization, now),
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		TaxID:              req.TaxID,
		OrganizationType:   req.OrganizationType,
		Industry:           req.Industry,
		Address:            req.Address,
		County:             req.County,
		Website:            req.Website,
		ContactPerson:      req.ContactPerson,
		Documents:          req.Documents,
	}
	return s.fullRegister(ctx, candidate, hash, func(existing models.Principal) {
		if org, ok := existing.(*models.Organization); ok {
			org.ApplyProfile(candidate)
		}
	})
}

func (s *Service) fullRegister(ctx context.Context, candidate models.Principal, passwordHash string, applyProfile func(models.Principal)) (result *regmodels.RegistrationResult, err error) {
	defer s.metrics.ObserveRegistration(pathFull, time.Now())
	kind := candidate.Kind()
	ctx, span := tracing.Start(ctx, "Registration.Register", attribute.String("kind", kind.String()))
	defer func() { tracing.End(span, err) }()

	matches, err := s.checkUnique(ctx, candidate)
	if err != nil {
		return nil, err
	}
	target, err := resolveMatches(kind, matches, (*models.Account).IsQuick)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var stored models.Principal
	outcome := regmodels.OutcomeCreated
	event := audit.EventPrincipalRegistered
	if target != nil {
		outcome = regmodels.OutcomePromoted
		event = audit.EventPrincipalCompleted
		stored, err = s.directory.Execute(ctx, kind, target.Base().ID,
			func(p models.Principal) error {
				if !p.Base().IsQuick() {
					return conflict(p.UniqueFields()[0].String())
				}
				return nil
			},
			func(p models.Principal) {
				applyProfile(p)
				p.Base().ApplyCompletion(passwordHash, now)
			},
		)
		if err != nil {
			return nil, translateWriteErr(err, "failed to complete registration")
		}
	} else {
		candidate.Base().ApplyCompletion(passwordHash, now)
		if err = s.create(ctx, candidate); err != nil {
			return nil, err
		}
		stored = candidate
	}

	span.SetAttributes(attribute.String("outcome", string(outcome)))
	s.notifications.Enqueue(ctx, notify.RegistrationReceived(stored.Base().Email, stored.DisplayName()))
	s.emitAudit(ctx, event, stored, "full registration "+string(outcome))
	s.metrics.IncrementRegistration(kind.String(), pathFull, string(outcome))
	return regmodels.NewRegistrationResult(stored, outcome, fullRegisteredMessage), nil
}

// checkUnique looks up every identity value of candidate concurrently.
// Matches come back in field priority order; any lookup failure cancels
// the rest and fails the registration.
func (s *Service) checkUnique(ctx context.Context, candidate models.Principal) ([]principal.Match, error) {
	pairs := models.IdentityValues(candidate)
	found := make([]models.Principal, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		g.Go(func() error {
			p, err := s.directory.FindByField(gctx, candidate.Kind(), pair.Field, pair.Value)
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing accounts")
	}

	var matches []principal.Match
	for i, p := range found {
		if p != nil {
			matches = append(matches, principal.Match{Field: pairs[i].Field, Principal: p})
		}
	}
	return matches, nil
}
