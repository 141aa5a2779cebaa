package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
)

type AccountSuite struct {
	suite.Suite
	now time.Time
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountSuite))
}

func (s *AccountSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *AccountSuite) newQuick() *Individual {
	return &Individual{
		Account:   NewQuickAccount(id.NewPrincipalID(), "a@x.com", "254700000001", "hash", RoleConsultant, s.now),
		FirstName: "A",
	}
}

// -----------------------------------------------------------------------------
// Verification
// -----------------------------------------------------------------------------

func (s *AccountSuite) TestQuickAccountStartsUnverified() {
	p := s.newQuick()
	s.Equal(StatusPendingVerification, p.Status)
	s.Equal(RegistrationQuick, p.RegistrationStatus)
	s.True(p.RequiresVerification())
	s.Equal([]Channel{ChannelPhone, ChannelEmail}, p.UnverifiedChannels())
	s.Equal([]string{RoleConsultant}, p.Roles)
	s.True(p.Permissions.Allows("/profile", ActionWrite))
}

func (s *AccountSuite) TestVerificationAdvancesOnlyWhenBothChannelsVerified() {
	p := s.newQuick()
	p.SetPin(ChannelPhone, &Secret{Hash: "h", ExpiresAt: s.now.Add(time.Minute)}, s.now)

	s.Require().NoError(p.CanVerify(ChannelPhone))
	p.ApplyVerification(ChannelPhone, s.now)
	s.Nil(p.PhonePin, "consumed pin is cleared")
	s.Equal(StatusPendingVerification, p.Status)

	p.ApplyVerification(ChannelEmail, s.now)
	s.Equal(StatusPending, p.Status)
	s.False(p.RequiresVerification())
	s.Equal(RegistrationQuick, p.RegistrationStatus, "verification never completes the profile")
}

func (s *AccountSuite) TestCanVerifyRejectsVerifiedChannel() {
	p := s.newQuick()
	p.ApplyVerification(ChannelEmail, s.now)

	err := p.CanVerify(ChannelEmail)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AccountSuite) TestSecretExpiry() {
	secret := &Secret{ExpiresAt: s.now}
	s.False(secret.Expired(s.now), "expiry is exclusive")
	s.True(secret.Expired(s.now.Add(time.Second)))
}

// -----------------------------------------------------------------------------
// Completion and review
// -----------------------------------------------------------------------------

func (s *AccountSuite) TestCompletionSetsProofAndClearsPins() {
	p := s.newQuick()
	p.SetPin(ChannelEmail, &Secret{Hash: "h"}, s.now)

	p.ApplyCompletion("", s.now)

	s.Equal(RegistrationComplete, p.RegistrationStatus)
	s.Equal(StatusPending, p.Status)
	s.True(p.PhoneVerified)
	s.True(p.EmailVerified)
	s.Nil(p.EmailPin)
	s.False(p.HasPassword(), "password cleared when none resupplied")
}

func (s *AccountSuite) TestReviewRequiresPending() {
	p := s.newQuick()
	err := p.CanReview()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	p.ApplyCompletion("hash", s.now)
	s.Require().NoError(p.CanReview())
	p.ApplyApproval(s.now)
	s.Equal(StatusActive, p.Status)
}

func (s *AccountSuite) TestRejectedStatusPerKind() {
	s.Equal(StatusRejected, (&Individual{}).RejectedStatus())
	s.Equal(StatusInactive, (&Organization{}).RejectedStatus())
}

func (s *AccountSuite) TestSuspendAndActivateFromAnyStatus() {
	p := s.newQuick()
	p.ApplySuspension(s.now)
	p.ApplySuspension(s.now)
	s.Equal(StatusSuspended, p.Status)
	p.ApplyActivation(s.now)
	s.Equal(StatusActive, p.Status)
}

// -----------------------------------------------------------------------------
// Identity and cloning
// -----------------------------------------------------------------------------

func (s *AccountSuite) TestIdentityValuesFollowPriority() {
	org := &Organization{
		Account:            Account{Email: "biz@x.com", Phone: "254700000002"},
		RegistrationNumber: "PVT-1",
	}
	s.Equal([]IdentityPair{
		{Field: FieldBusinessEmail, Value: "biz@x.com"},
		{Field: FieldPhone, Value: "254700000002"},
		{Field: FieldRegistrationNumber, Value: "PVT-1"},
	}, IdentityValues(org))
}

func (s *AccountSuite) TestCloneIsDeep() {
	p := s.newQuick()
	p.Skills = []string{"go"}
	p.SetPin(ChannelPhone, &Secret{Hash: "h"}, s.now)

	c := p.Clone()
	c.Skills[0] = "rust"
	c.PhonePin.Hash = "other"
	c.Roles[0] = RoleAdmin
	c.Permissions["/profile"][0] = ActionDelete

	s.Equal("go", p.Skills[0])
	s.Equal("h", p.PhonePin.Hash)
	s.Equal(RoleConsultant, p.Roles[0])
	s.Equal(ActionRead, p.Permissions["/profile"][0])
}

func (s *AccountSuite) TestGrantRoleMergesPermissions() {
	p := s.newQuick()
	p.GrantRole(RoleAdmin, s.now)
	p.GrantRole(RoleAdmin, s.now)

	s.Equal([]string{RoleConsultant, RoleAdmin}, p.Roles)
	s.True(p.Permissions.Allows("/consultants", ActionDelete))
	s.True(p.Permissions.Allows("/profile", ActionRead))
}

func (s *AccountSuite) TestParseHelpers() {
	k, err := ParseKind(" Organization ")
	s.Require().NoError(err)
	s.Equal(KindOrganization, k)

	_, err = ParseKind("robot")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	ch, err := ParseChannel("EMAIL")
	s.Require().NoError(err)
	s.Equal(ChannelEmail, ch)

	s.Equal("CON", DisplayIDPrefix(KindIndividual))
	s.Equal("ORG", DisplayIDPrefix(KindOrganization))
}

func (s *AccountSuite) TestApplyProfileKeepsAccountState() {
	p := s.newQuick()
	p.DisplayID = "CON-001"
	p.PhoneVerified = true

	src := &Individual{
		Account:    NewQuickAccount(id.NewPrincipalID(), "a@x.com", "254700000009", "other", RoleConsultant, s.now),
		FirstName:  "Ada",
		LastName:   "Lovelace",
		NationalID: "12345678",
		Skills:     []string{"audit"},
	}
	p.ApplyProfile(src)

	s.Equal("CON-001", p.DisplayID)
	s.True(p.PhoneVerified)
	s.Equal("hash", p.PasswordHash)
	s.Equal("254700000009", p.Phone)
	s.Equal("Ada", p.FirstName)
	s.Equal("12345678", p.NationalID)

	src.Skills[0] = "changed"
	s.Equal("audit", p.Skills[0])
}
