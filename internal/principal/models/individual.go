package models

import (
	"slices"
	"strings"
)

// Education is one entry of an individual's academic history.
type Education struct {
	Institution   string `json:"institution"`
	Qualification string `json:"qualification"`
	FieldOfStudy  string `json:"fieldOfStudy,omitempty"`
	YearCompleted int    `json:"yearCompleted,omitempty"`
}

// Individual is a consultant account.
type Individual struct {
	Account

	FirstName              string      `json:"first_name"`
	LastName               string      `json:"last_name"`
	NationalID             string      `json:"national_id,omitempty"`
	TaxID                  string      `json:"tax_id,omitempty"`
	Gender                 string      `json:"gender,omitempty"`
	DateOfBirth            string      `json:"date_of_birth,omitempty"`
	County                 string      `json:"county,omitempty"`
	Address                string      `json:"address,omitempty"`
	Profession             string      `json:"profession,omitempty"`
	Specialization         string      `json:"specialization,omitempty"`
	YearsOfExperience      int         `json:"years_of_experience,omitempty"`
	Skills                 []string    `json:"skills,omitempty"`
	Education              []Education `json:"education,omitempty"`
	CVURL                  string      `json:"cv_url,omitempty"`
	AcademicCertificateURL string      `json:"academic_certificate_url,omitempty"`
}

var individualFields = []Field{FieldEmail, FieldPhone, FieldNationalID, FieldTaxID}

func (i *Individual) Base() *Account { return &i.Account }

func (i *Individual) Kind() Kind { return KindIndividual }

func (i *Individual) UniqueFields() []Field { return individualFields }

func (i *Individual) IdentityValue(f Field) string {
	switch f {
	case FieldEmail:
		return i.Email
	case FieldPhone:
		return i.Phone
	case FieldNationalID:
		return i.NationalID
	case FieldTaxID:
		return i.TaxID
	}
	return ""
}

func (i *Individual) DisplayName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

func (i *Individual) RejectedStatus() Status { return StatusRejected }

func (i *Individual) Snapshot() map[string]any {
	return map[string]any{
		"employeeId":         i.DisplayID,
		"firstName":          i.FirstName,
		"lastName":           i.LastName,
		"phone":              i.Phone,
		"status":             string(i.Status),
		"registrationStatus": string(i.RegistrationStatus),
		"profession":         i.Profession,
		"permissions":        i.Permissions,
	}
}

func (i *Individual) Clone() *Individual {
	out := *i
	out.Account = i.Account.clone()
	out.Skills = slices.Clone(i.Skills)
	out.Education = slices.Clone(i.Education)
	return &out
}

// ApplyProfile copies the profile fields of src onto a record being
// promoted by full registration. Account state is kept except the phone.
func (i *Individual) ApplyProfile(src *Individual) {
	account := i.Account
	*i = *src.Clone()
	i.Account = account
	i.Phone = src.Phone
}
