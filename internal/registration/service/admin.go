package service

import (
	"context"
	"errors"

	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/email"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/platform/validation"
	"consultly/pkg/requestcontext"
)

// BootstrapAdmin makes sure the configured operator account exists, is
// active and holds the admin role. An existing individual with the same
// email is promoted in place; its password is left untouched.
func (s *Service) BootstrapAdmin(ctx context.Context, adminEmail, phone, password string) (models.Principal, error) {
	adminEmail = validation.NormalizeEmail(adminEmail)
	phone = validation.NormalizePhone(phone)
	if adminEmail == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "admin email and password are required")
	}
	now := requestcontext.Now(ctx)

	existing, err := s.directory.FindByField(ctx, models.KindIndividual, models.FieldEmail, adminEmail)
	switch {
	case err == nil:
		if existing.Base().HasRole(models.RoleAdmin) {
			return existing, nil
		}
		updated, err := s.directory.Execute(ctx, models.KindIndividual, existing.Base().ID,
			func(models.Principal) error { return nil },
			func(p models.Principal) { p.Base().GrantRole(models.RoleAdmin, now) },
		)
		if err != nil {
			return nil, translateWriteErr(err, "failed to grant admin role")
		}
		s.emitAudit(ctx, audit.EventRoleGranted, updated, "role "+models.RoleAdmin+" granted at startup")
		return updated, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load admin account")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	firstName, lastName := email.DeriveNameFromEmail(adminEmail)
	admin := &models.Individual{
		Account:   models.NewQuickAccount(id.NewPrincipalID(), adminEmail, phone, hash, models.RoleConsultant, now),
		FirstName: firstName,
		LastName:  lastName,
	}
	a := admin.Base()
	a.Status = models.StatusActive
	a.RegistrationStatus = models.RegistrationComplete
	a.EmailVerified = true
	a.PhoneVerified = true
	a.GrantRole(models.RoleAdmin, now)

	if err := s.create(ctx, admin); err != nil {
		return nil, err
	}
	s.emitAudit(ctx, audit.EventRoleGranted, admin, "admin account created at startup")
	return admin, nil
}
