package models

// Principal is the capability shared by both variants. Callers branch on
// Kind only when they need variant-specific profile fields.
type Principal interface {
	Base() *Account
	Kind() Kind
	// UniqueFields lists the identity fields in conflict-reporting priority.
	UniqueFields() []Field
	IdentityValue(f Field) string
	DisplayName() string
	// RejectedStatus is the status a review rejection moves the principal to.
	RejectedStatus() Status
	// Snapshot is the denormalized profile embedded in session tokens.
	Snapshot() map[string]any
}

// Record is a Principal that stores can copy in and out.
type Record[T any] interface {
	Principal
	Clone() T
}

// IdentityPair is one non-empty unique field value.
type IdentityPair struct {
	Field Field
	Value string
}

// IdentityValues returns the non-empty unique field values of p in priority order.
func IdentityValues(p Principal) []IdentityPair {
	var out []IdentityPair
	for _, f := range p.UniqueFields() {
		if v := p.IdentityValue(f); v != "" {
			out = append(out, IdentityPair{Field: f, Value: v})
		}
	}
	return out
}

// DisplayIDPrefix returns the prefix of display IDs for kind.
func DisplayIDPrefix(k Kind) string {
	if k == KindOrganization {
		return "ORG"
	}
	return "CON"
}

// BaselineRole is the single role a new principal of kind receives.
func BaselineRole(k Kind) string {
	if k == KindOrganization {
		return RoleOrganization
	}
	return RoleConsultant
}
