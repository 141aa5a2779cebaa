package models

// Actions on a resource.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// Permissions maps a resource path to its allowed actions.
type Permissions map[string][]string

// Allows reports whether action is granted on resource.
func (p Permissions) Allows(resource, action string) bool {
	for _, a := range p[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Merge adds the grants of other, keeping existing ones.
func (p Permissions) Merge(other Permissions) Permissions {
	out := p.Clone()
	if out == nil {
		out = Permissions{}
	}
	for resource, actions := range other {
		for _, a := range actions {
			if !out.Allows(resource, a) {
				out[resource] = append(out[resource], a)
			}
		}
	}
	return out
}

func (p Permissions) Clone() Permissions {
	if p == nil {
		return nil
	}
	out := make(Permissions, len(p))
	for k, v := range p {
		out[k] = append([]string(nil), v...)
	}
	return out
}

var defaultPermissions = map[string]Permissions{
	RoleConsultant: {
		"/profile":   {ActionRead, ActionWrite},
		"/projects":  {ActionRead},
		"/contracts": {ActionRead},
		"/invoices":  {ActionRead, ActionWrite},
	},
	RoleOrganization: {
		"/profile":   {ActionRead, ActionWrite},
		"/projects":  {ActionRead, ActionWrite},
		"/contracts": {ActionRead, ActionWrite},
		"/budgets":   {ActionRead, ActionWrite},
		"/invoices":  {ActionRead},
	},
	RoleAdmin: {
		"/consultants":   {ActionRead, ActionWrite, ActionDelete},
		"/organizations": {ActionRead, ActionWrite, ActionDelete},
		"/projects":      {ActionRead, ActionWrite, ActionDelete},
		"/contracts":     {ActionRead, ActionWrite, ActionDelete},
		"/budgets":       {ActionRead, ActionWrite, ActionDelete},
		"/invoices":      {ActionRead, ActionWrite, ActionDelete},
	},
}

// DefaultPermissions returns a fresh copy of the grants for role.
func DefaultPermissions(role string) Permissions {
	return defaultPermissions[role].Clone()
}
