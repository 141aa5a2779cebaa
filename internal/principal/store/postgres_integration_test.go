//go:build integration

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg            *containers.PostgresContainer
	individuals   *PostgresStore[*models.Individual]
	organizations *PostgresStore[*models.Organization]
	ctx           context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.individuals = NewIndividualsPostgres(s.pg.DB)
	s.organizations = NewOrganizationsPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx, "individuals", "organizations"))
}

func (s *PostgresStoreSuite) newIndividual(displayID, email, phone string) *models.Individual {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &models.Individual{
		Account:   models.NewQuickAccount(id.NewPrincipalID(), email, phone, "hash", models.RoleConsultant, now),
		FirstName: "Amina",
	}
	p.DisplayID = displayID
	return p
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	p := s.newIndividual("CON-001", "a@x.com", "254700000001")
	p.Education = []models.Education{{Institution: "UoN", Qualification: "BSc"}}
	s.Require().NoError(s.individuals.Create(s.ctx, p))

	found, err := s.individuals.FindByField(s.ctx, models.FieldPhone, "254700000001")
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("CON-001", found.DisplayID)
	s.Equal(p.Education, found.Education)
	s.Equal(p.Permissions, found.Permissions)
}

func (s *PostgresStoreSuite) TestWriteTimeConflicts() {
	s.Require().NoError(s.individuals.Create(s.ctx, s.newIndividual("CON-001", "a@x.com", "254700000001")))

	err := s.individuals.Create(s.ctx, s.newIndividual("CON-002", "a@x.com", "254700000002"))
	field, ok := sentinel.ViolatedField(err)
	s.True(ok)
	s.Equal("email", field)

	err = s.individuals.Create(s.ctx, s.newIndividual("CON-001", "c@x.com", "254700000003"))
	field, _ = sentinel.ViolatedField(err)
	s.Equal("displayId", field)

	org := &models.Organization{
		Account:            models.NewQuickAccount(id.NewPrincipalID(), "biz@x.com", "254711000001", "", models.RoleOrganization, time.Now()),
		RegistrationNumber: "PVT-9",
	}
	org.DisplayID = "ORG-001"
	s.Require().NoError(s.organizations.Create(s.ctx, org))

	dup := &models.Organization{
		Account:            models.NewQuickAccount(id.NewPrincipalID(), "x@x.com", "254711000002", "", models.RoleOrganization, time.Now()),
		RegistrationNumber: "PVT-9",
	}
	dup.DisplayID = "ORG-002"
	field, _ = sentinel.ViolatedField(s.organizations.Create(s.ctx, dup))
	s.Equal("registrationNumber", field)
}

func (s *PostgresStoreSuite) TestConcurrentExecuteSerializes() {
	p := s.newIndividual("CON-001", "a@x.com", "254700000001")
	s.Require().NoError(s.individuals.Create(s.ctx, p))

	var wg sync.WaitGroup
	for _, ch := range []models.Channel{models.ChannelPhone, models.ChannelEmail} {
		wg.Add(1)
		go func(ch models.Channel) {
			defer wg.Done()
			_, err := s.individuals.Execute(s.ctx, p.ID,
				func(i *models.Individual) error { return i.CanVerify(ch) },
				func(i *models.Individual) { i.ApplyVerification(ch, time.Now()) },
			)
			s.NoError(err)
		}(ch)
	}
	wg.Wait()

	found, err := s.individuals.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(found.PhoneVerified)
	s.True(found.EmailVerified)
	s.Equal(models.StatusPending, found.Status)
}
