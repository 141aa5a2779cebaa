package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"consultly/internal/platform/tracing"
	"consultly/internal/principal/models"
	regmodels "consultly/internal/registration/models"
	id "consultly/pkg/domain"
	"consultly/pkg/email"
	"consultly/pkg/platform/audit"
	"consultly/pkg/requestcontext"
)

const quickRegisteredMessage = "Registration successful. Verification codes have been sent to your phone and email."

// QuickRegisterIndividual creates a consultant awaiting verification, or
// refreshes an unverified quick record sharing its email or phone.
func (s *Service) QuickRegisterIndividual(ctx context.Context, req *regmodels.QuickIndividualRequest) (*regmodels.RegistrationResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	firstName, lastName := req.FirstName, req.LastName
	if firstName == "" && lastName == "" {
		firstName, lastName = email.DeriveNameFromEmail(req.Email)
	}

	now := requestcontext.Now(ctx)
	candidate := &models.Individual{
		Account:   models.NewQuickAccount(id.NewPrincipalID(), req.Email, req.Phone, hash, models.RoleConsultant, now),
		FirstName: firstName,
		LastName:  lastName,
	}
	return s.quickRegister(ctx, candidate, func(existing models.Principal) {
		if ind, ok := existing.(*models.Individual); ok {
			ind.FirstName = firstName
			ind.LastName = lastName
		}
	})
}

// QuickRegisterOrganization creates an organization awaiting verification,
// or refreshes an unverified quick record sharing its business email or
// phone.
func (s *Service) QuickRegisterOrganization(ctx context.Context, req *regmodels.QuickOrganizationRequest) (*regmodels.RegistrationResult, error) {
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
		Account: models.NewQuickAccount(id.NewPrincipalID(), req.BusinessEmail, req.Phone, hash, models.RoleOrganization, now),
		Name:    req.Name,
	}
	return s.quickRegister(ctx, candidate, func(existing models.Principal) {
		if org, ok := existing.(*models.Organization); ok && req.Name != "" {
			org.Name = req.Name
		}
	})
}

// quickRegister persists candidate, or retries the matching unverified
// quick record in place, then sends both verification codes.
func (s *Service) quickRegister(ctx context.Context, candidate models.Principal, refresh func(models.Principal)) (result *regmodels.RegistrationResult, err error) {
	defer s.metrics.ObserveRegistration(pathQuick, time.Now())
	kind := candidate.Kind()
	ctx, span := tracing.Start(ctx, "Registration.QuickRegister", attribute.String("kind", kind.String()))
	defer func() { tracing.End(span, err) }()

	matches, err := s.directory.FindMatches(ctx, candidate)
	if err != nil {
		return nil, translateWriteErr(err, "failed to check existing accounts")
	}
	target, err := resolveQuickRetry(matches)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	codes, err := s.issueCodes(now, []models.Channel{models.ChannelPhone, models.ChannelEmail})
	if err != nil {
		return nil, err
	}

	var stored models.Principal
	outcome := regmodels.OutcomeCreated
	if target != nil {
		outcome = regmodels.OutcomeRetried
		fresh := candidate.Base()
		stored, err = s.directory.Execute(ctx, kind, target.Base().ID,
			func(p models.Principal) error {
				if !p.Base().CanRetryQuick() {
					return conflict(target.UniqueFields()[0].String())
				}
				return nil
			},
			func(p models.Principal) {
				p.Base().ApplyQuickRetry(fresh.Email, fresh.Phone, fresh.PasswordHash, now)
				codes.apply(p.Base(), now)
				refresh(p)
			},
		)
		if err != nil {
			return nil, translateWriteErr(err, "failed to update registration")
		}
	} else {
		codes.apply(candidate.Base(), now)
		if err = s.create(ctx, candidate); err != nil {
			return nil, err
		}
		stored = candidate
	}

	span.SetAttributes(attribute.String("outcome", string(outcome)))
	s.send(ctx, stored, codes)
	s.emitAudit(ctx, audit.EventPrincipalRegistered, stored, "quick registration "+string(outcome))
	s.metrics.IncrementRegistration(kind.String(), pathQuick, string(outcome))
	return regmodels.NewRegistrationResult(stored, outcome, quickRegisteredMessage), nil
}
