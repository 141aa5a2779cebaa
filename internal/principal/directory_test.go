package principal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consultly/internal/principal/models"
	"consultly/internal/principal/store"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/sentinel"
)

type DirectorySuite struct {
	suite.Suite
	dir *Directory
	ctx context.Context
	now time.Time
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.dir = NewDirectory(store.NewIndividualsInMemory(), store.NewOrganizationsInMemory())
	s.ctx = context.Background()
	s.now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
}

func (s *DirectorySuite) individual(email, phone string) *models.Individual {
	p := &models.Individual{Account: models.NewQuickAccount(id.NewPrincipalID(), email, phone, "hash", models.RoleConsultant, s.now)}
	s.Require().NoError(s.dir.Create(s.ctx, p))
	return p
}

func (s *DirectorySuite) organization(email, phone string) *models.Organization {
	p := &models.Organization{Account: models.NewQuickAccount(id.NewPrincipalID(), email, phone, "hash", models.RoleOrganization, s.now)}
	s.Require().NoError(s.dir.Create(s.ctx, p))
	return p
}

func (s *DirectorySuite) TestFindByIdentity() {
	p := s.individual("a@x.com", "254700000001")

	byEmail, err := s.dir.FindByIdentity(s.ctx, models.KindIndividual, "a@x.com")
	s.Require().NoError(err)
	s.Equal(p.ID, byEmail.Base().ID)

	byPhone, err := s.dir.FindByIdentity(s.ctx, models.KindIndividual, "254700000001")
	s.Require().NoError(err)
	s.Equal(p.ID, byPhone.Base().ID)

	_, err = s.dir.FindByIdentity(s.ctx, models.KindOrganization, "a@x.com")
	s.ErrorIs(err, sentinel.ErrNotFound, "variants do not share identity")
}

func (s *DirectorySuite) TestFindAnyByEmailPrefersIndividuals() {
	ind := s.individual("shared@x.com", "254700000001")
	s.organization("shared@x.com", "254711000001")
	org := s.organization("biz@x.com", "254711000002")

	found, err := s.dir.FindAnyByEmail(s.ctx, "shared@x.com")
	s.Require().NoError(err)
	s.Equal(models.KindIndividual, found.Kind())
	s.Equal(ind.ID, found.Base().ID)

	found, err = s.dir.FindAnyByEmail(s.ctx, "biz@x.com")
	s.Require().NoError(err)
	s.Equal(org.ID, found.Base().ID)

	_, err = s.dir.FindAnyByEmail(s.ctx, "nobody@x.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *DirectorySuite) TestFindMatchesInPriorityOrder() {
	byEmail := s.individual("a@x.com", "254700000001")
	byPhone := s.individual("b@x.com", "254700000002")

	candidate := &models.Individual{Account: models.Account{Email: "a@x.com", Phone: "254700000002"}}
	matches, err := s.dir.FindMatches(s.ctx, candidate)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(models.FieldEmail, matches[0].Field)
	s.Equal(byEmail.ID, matches[0].Principal.Base().ID)
	s.Equal(models.FieldPhone, matches[1].Field)
	s.Equal(byPhone.ID, matches[1].Principal.Base().ID)
}

func (s *DirectorySuite) TestExecuteDispatchesByKind() {
	org := s.organization("biz@x.com", "254711000001")

	updated, err := s.dir.Execute(s.ctx, models.KindOrganization, org.ID,
		func(models.Principal) error { return nil },
		func(p models.Principal) { p.Base().ApplySuspension(s.now) },
	)
	s.Require().NoError(err)
	s.Equal(models.StatusSuspended, updated.Base().Status)

	_, err = s.dir.Execute(s.ctx, models.KindIndividual, org.ID,
		func(models.Principal) error { return nil },
		func(models.Principal) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *DirectorySuite) TestCheckAccess() {
	p := s.individual("a@x.com", "254700000001")

	s.Run("active principal gets stored roles", func() {
		_, err := s.dir.Execute(s.ctx, models.KindIndividual, p.ID,
			func(models.Principal) error { return nil },
			func(p models.Principal) { p.Base().ApplyActivation(s.now) },
		)
		s.Require().NoError(err)

		roles, err := s.dir.CheckAccess(s.ctx, "individual", p.ID)
		s.Require().NoError(err)
		s.Equal([]string{models.RoleConsultant}, roles)
	})

	s.Run("suspended principal is denied with reason", func() {
		_, err := s.dir.Execute(s.ctx, models.KindIndividual, p.ID,
			func(models.Principal) error { return nil },
			func(p models.Principal) { p.Base().ApplySuspension(s.now) },
		)
		s.Require().NoError(err)

		_, err = s.dir.CheckAccess(s.ctx, "individual", p.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.ErrorContains(err, "suspended")
	})

	s.Run("missing principal is denied", func() {
		_, err := s.dir.CheckAccess(s.ctx, "organization", p.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown kind is denied", func() {
		_, err := s.dir.CheckAccess(s.ctx, "robot", p.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
