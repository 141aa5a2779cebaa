package models

import (
	"strings"

	principal "consultly/internal/principal/models"
	platformstrings "consultly/pkg/platform/strings"
	"consultly/pkg/platform/validation"
)

const (
	maxNameLength    = 100
	maxFieldLength   = 255
	maxSkills        = 50
	maxEducation     = 20
	maxIdentityValue = 64
)

// QuickIndividualRequest is the minimal consultant sign-up.
type QuickIndividualRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (r *QuickIndividualRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = validation.NormalizeEmail(r.Email)
	r.Phone = validation.NormalizePhone(r.Phone)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Validate checks size, then required fields, then syntax.
func (r *QuickIndividualRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	return validation.First(
		validation.MaxLength("firstName", r.FirstName, maxNameLength),
		validation.MaxLength("lastName", r.LastName, maxNameLength),
		validation.Email("email", r.Email),
		validation.Phone("phone", r.Phone),
		validation.Password("password", r.Password),
	)
}

// QuickOrganizationRequest is the minimal organization sign-up.
type QuickOrganizationRequest struct {
	BusinessEmail string `json:"businessEmail"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	Name          string `json:"name,omitempty"`
}

func (r *QuickOrganizationRequest) Normalize() {
	if r == nil {
		return
	}
	r.BusinessEmail = validation.NormalizeEmail(r.BusinessEmail)
	r.Phone = validation.NormalizePhone(r.Phone)
	r.Name = strings.TrimSpace(r.Name)
}

func (r *QuickOrganizationRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	return validation.First(
		validation.MaxLength("name", r.Name, maxFieldLength),
		validation.Email("businessEmail", r.BusinessEmail),
		validation.Phone("phone", r.Phone),
		validation.Password("password", r.Password),
	)
}

// IndividualRequest is the full consultant profile. CVURL and
// AcademicCertificateURL are the uploaded document locations and are
// filled by the transport layer.
type IndividualRequest struct {
	Email                  string                `json:"email"`
	Phone                  string                `json:"phone"`
	Password               string                `json:"password,omitempty"`
	FirstName              string                `json:"firstName"`
	LastName               string                `json:"lastName"`
	NationalID             string                `json:"nationalId"`
	TaxID                  string                `json:"taxId,omitempty"`
	Gender                 string                `json:"gender,omitempty"`
	DateOfBirth            string                `json:"dateOfBirth,omitempty"`
	County                 string                `json:"county,omitempty"`
	Address                string                `json:"address,omitempty"`
	Profession             string                `json:"profession,omitempty"`
	Specialization         string                `json:"specialization,omitempty"`
	YearsOfExperience      int                   `json:"yearsOfExperience,omitempty"`
	Skills                 []string              `json:"skills,omitempty"`
	Education              []principal.Education `json:"education,omitempty"`
	CVURL                  string                `json:"cvUrl,omitempty"`
	AcademicCertificateURL string                `json:"academicCertificateUrl,omitempty"`
}

func (r *IndividualRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = validation.NormalizeEmail(r.Email)
	r.Phone = validation.NormalizePhone(r.Phone)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.TaxID = strings.ToUpper(strings.TrimSpace(r.TaxID))
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.County = strings.TrimSpace(r.County)
	r.Address = strings.TrimSpace(r.Address)
	r.Profession = strings.TrimSpace(r.Profession)
	r.Specialization = strings.TrimSpace(r.Specialization)
	r.Skills = platformstrings.DedupeFold(r.Skills)
}

func (r *IndividualRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	// Size
	if len(r.Skills) > maxSkills {
		return tooMany("skills")
	}
	if len(r.Education) > maxEducation {
		return tooMany("education")
	}
	if err := validation.First(
		validation.MaxLength("firstName", r.FirstName, maxNameLength),
		validation.MaxLength("lastName", r.LastName, maxNameLength),
		validation.MaxLength("nationalId", r.NationalID, maxIdentityValue),
		validation.MaxLength("taxId", r.TaxID, maxIdentityValue),
		validation.MaxLength("address", r.Address, maxFieldLength),
		validation.MaxLength("profession", r.Profession, maxFieldLength),
		validation.MaxLength("specialization", r.Specialization, maxFieldLength),
	); err != nil {
		return err
	}
	// Required
	if err := validation.First(
		validation.Required("firstName", r.FirstName),
		validation.Required("lastName", r.LastName),
		validation.Required("nationalId", r.NationalID),
		validation.Required("cv", r.CVURL),
		validation.Required("academicCertificate", r.AcademicCertificateURL),
	); err != nil {
		return err
	}
	// Syntax
	if err := validation.First(
		validation.Email("email", r.Email),
		validation.Phone("phone", r.Phone),
		validation.OptionalPassword("password", r.Password),
	); err != nil {
		return err
	}
	// Semantic
	if r.YearsOfExperience < 0 {
		return invalid("yearsOfExperience", "yearsOfExperience cannot be negative")
	}
	for _, e := range r.Education {
		if strings.TrimSpace(e.Institution) == "" {
			return invalid("education", "each education entry needs an institution")
		}
	}
	return nil
}

// OrganizationRequest is the full organization profile. Documents are
// filled by the transport layer from the uploaded certificates.
type OrganizationRequest struct {
	BusinessEmail      string                          `json:"businessEmail"`
	Phone              string                          `json:"phone"`
	Password           string                          `json:"password,omitempty"`
	Name               string                          `json:"name"`
	RegistrationNumber string                          `json:"registrationNumber"`
	TaxID              string                          `json:"taxId,omitempty"`
	OrganizationType   string                          `json:"organizationType,omitempty"`
	Industry           string                          `json:"industry,omitempty"`
	Address            string                          `json:"address,omitempty"`
	County             string                          `json:"county,omitempty"`
	Website            string                          `json:"website,omitempty"`
	ContactPerson      principal.ContactPerson         `json:"contactPerson"`
	Documents          principal.OrganizationDocuments `json:"-"`
}

func (r *OrganizationRequest) Normalize() {
	if r == nil {
		return
	}
	r.BusinessEmail = validation.NormalizeEmail(r.BusinessEmail)
	r.Phone = validation.NormalizePhone(r.Phone)
	r.Name = strings.TrimSpace(r.Name)
	r.RegistrationNumber = strings.ToUpper(strings.TrimSpace(r.RegistrationNumber))
	r.TaxID = strings.ToUpper(strings.TrimSpace(r.TaxID))
	r.OrganizationType = strings.TrimSpace(r.OrganizationType)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Address = strings.TrimSpace(r.Address)
	r.County = strings.TrimSpace(r.County)
	r.Website = strings.TrimSpace(r.Website)
	r.ContactPerson.Name = strings.TrimSpace(r.ContactPerson.Name)
	r.ContactPerson.Email = validation.NormalizeEmail(r.ContactPerson.Email)
	r.ContactPerson.Phone = validation.NormalizePhone(r.ContactPerson.Phone)
	r.ContactPerson.Position = strings.TrimSpace(r.ContactPerson.Position)
}

func (r *OrganizationRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	if err := validation.First(
		validation.MaxLength("name", r.Name, maxFieldLength),
		validation.MaxLength("registrationNumber", r.RegistrationNumber, maxIdentityValue),
		validation.MaxLength("taxId", r.TaxID, maxIdentityValue),
		validation.MaxLength("address", r.Address, maxFieldLength),
		validation.MaxLength("website", r.Website, maxFieldLength),
	); err != nil {
		return err
	}
	docs := r.Documents
	if err := validation.First(
		validation.Required("name", r.Name),
		validation.Required("registrationNumber", r.RegistrationNumber),
		validation.Required("incorporationCertificate", docs.IncorporationCertificateURL),
		validation.Required("taxComplianceCertificate", docs.TaxComplianceCertificateURL),
		validation.Required("businessPermit", docs.BusinessPermitURL),
		validation.Required("directorsList", docs.DirectorsListURL),
	); err != nil {
		return err
	}
	if err := validation.First(
		validation.Email("businessEmail", r.BusinessEmail),
		validation.Phone("phone", r.Phone),
		validation.OptionalPassword("password", r.Password),
		validation.OptionalURL("website", r.Website),
	); err != nil {
		return err
	}
	if r.ContactPerson.Email != "" {
		if err := validation.Email("contactPerson.email", r.ContactPerson.Email); err != nil {
			return err
		}
	}
	return nil
}

// VerifyOtpRequest submits the code sent to one channel. Identity is the
// email or phone the principal registered with.
type VerifyOtpRequest struct {
	Identity string `json:"identity"`
	Code     string `json:"otp"`
	Channel  string `json:"type"`
}

func (r *VerifyOtpRequest) Normalize() {
	if r == nil {
		return
	}
	r.Identity = normalizeIdentity(r.Identity)
	r.Code = strings.TrimSpace(r.Code)
	r.Channel = strings.ToLower(strings.TrimSpace(r.Channel))
}

func (r *VerifyOtpRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	if err := validation.First(
		validation.MaxLength("identity", r.Identity, maxFieldLength),
		validation.MaxLength("otp", r.Code, 10),
		validation.Required("identity", r.Identity),
		validation.Numeric("otp", r.Code),
	); err != nil {
		return err
	}
	_, err := principal.ParseChannel(r.Channel)
	return err
}

// ResendOtpRequest asks for fresh codes on every unverified channel.
type ResendOtpRequest struct {
	Identity string `json:"identity"`
}

func (r *ResendOtpRequest) Normalize() {
	if r == nil {
		return
	}
	r.Identity = normalizeIdentity(r.Identity)
}

func (r *ResendOtpRequest) Validate() error {
	if r == nil {
		return validation.Required("body", "")
	}
	return validation.First(
		validation.MaxLength("identity", r.Identity, maxFieldLength),
		validation.Required("identity", r.Identity),
	)
}

// normalizeIdentity applies email rules to anything with an @ and phone
// rules otherwise.
func normalizeIdentity(s string) string {
	if strings.Contains(s, "@") {
		return validation.NormalizeEmail(s)
	}
	return validation.NormalizePhone(s)
}

// RegisterRequest is the generic quick registration body of
// POST /auth/register. Type selects the variant; individual by default.
type RegisterRequest struct {
	Type          string `json:"type,omitempty"`
	Email         string `json:"email,omitempty"`
	BusinessEmail string `json:"businessEmail,omitempty"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Name          string `json:"name,omitempty"`
}

// Kind resolves the requested variant.
func (r *RegisterRequest) Kind() (principal.Kind, error) {
	if strings.TrimSpace(r.Type) == "" {
		return principal.KindIndividual, nil
	}
	return principal.ParseKind(r.Type)
}

func (r *RegisterRequest) Individual() *QuickIndividualRequest {
	return &QuickIndividualRequest{
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// Organization accepts the business email under either key.
func (r *RegisterRequest) Organization() *QuickOrganizationRequest {
	businessEmail := r.BusinessEmail
	if businessEmail == "" {
		businessEmail = r.Email
	}
	return &QuickOrganizationRequest{
		BusinessEmail: businessEmail,
		Phone:         r.Phone,
		Password:      r.Password,
		Name:          r.Name,
	}
}
