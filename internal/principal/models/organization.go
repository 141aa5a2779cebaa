package models

// ContactPerson is the organization's named point of contact.
type ContactPerson struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position,omitempty"`
}

// OrganizationDocuments are the URLs of the uploaded certificates.
type OrganizationDocuments struct {
	IncorporationCertificateURL string `json:"incorporation_certificate_url,omitempty"`
	TaxComplianceCertificateURL string `json:"tax_compliance_certificate_url,omitempty"`
	BusinessPermitURL           string `json:"business_permit_url,omitempty"`
	DirectorsListURL            string `json:"directors_list_url,omitempty"`
}

// Organization is a client company account. Account.Email holds the
// business email.
type Organization struct {
	Account

	Name               string                `json:"name"`
	RegistrationNumber string                `json:"registration_number,omitempty"`
	TaxID              string                `json:"tax_id,omitempty"`
	OrganizationType   string                `json:"organization_type,omitempty"`
	Industry           string                `json:"industry,omitempty"`
	Address            string                `json:"address,omitempty"`
	County             string                `json:"county,omitempty"`
	Website            string                `json:"website,omitempty"`
	ContactPerson      ContactPerson         `json:"contact_person"`
	Documents          OrganizationDocuments `json:"documents"`
}

var organizationFields = []Field{FieldBusinessEmail, FieldPhone, FieldRegistrationNumber, FieldTaxID}

func (o *Organization) Base() *Account { return &o.Account }

func (o *Organization) Kind() Kind { return KindOrganization }

func (o *Organization) UniqueFields() []Field { return organizationFields }

func (o *Organization) IdentityValue(f Field) string {
	switch f {
	case FieldBusinessEmail, FieldEmail:
		return o.Email
	case FieldPhone:
		return o.Phone
	case FieldRegistrationNumber:
		return o.RegistrationNumber
	case FieldTaxID:
		return o.TaxID
	}
	return ""
}

func (o *Organization) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Email
}

func (o *Organization) RejectedStatus() Status { return StatusInactive }

func (o *Organization) Snapshot() map[string]any {
	return map[string]any{
		"organizationId":     o.DisplayID,
		"name":               o.Name,
		"registrationNumber": o.RegistrationNumber,
		"phone":              o.Phone,
		"status":             string(o.Status),
		"registrationStatus": string(o.RegistrationStatus),
		"industry":           o.Industry,
		"permissions":        o.Permissions,
	}
}

func (o *Organization) Clone() *Organization {
	out := *o
	out.Account = o.Account.clone()
	return &out
}

// ApplyProfile copies the profile fields of src onto a record being
// promoted by full registration. Account state is kept except the phone.
func (o *Organization) ApplyProfile(src *Organization) {
	account := o.Account
	*o = *src.Clone()
	o.Account = account
	o.Phone = src.Phone
}
