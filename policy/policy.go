// Package policy decides which actor roles may perform which disciplinary case actions.
package policy

import (
	"strings"

	"github.com/linesmerrill/party-cms-api/models"
)

// Role is the clearance of an actor. Roles are ordered, a higher role holds every
// permission of the lower ones.
type Role int

// Role values, lowest first
const (
	Anonymous Role = iota
	User
	Admin
	SuperAdmin
)

var roleNames = map[Role]string{
	Anonymous:  "ANONYMOUS",
	User:       "USER",
	Admin:      "ADMIN",
	SuperAdmin: "SUPER_ADMIN",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[Anonymous]
}

// ParseRole maps a role claim to a Role. Unknown names are Anonymous.
func ParseRole(s string) Role {
	name := strings.ToUpper(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return r
		}
	}
	return Anonymous
}

// HighestRole returns the strongest role among the given claims
func HighestRole(claims []string) Role {
	best := Anonymous
	for _, c := range claims {
		if r := ParseRole(c); r > best {
			best = r
		}
	}
	return best
}

// IsPrivileged reports whether r may see internal cases and internal notes
func (r Role) IsPrivileged() bool {
	return r >= Admin
}

// Actor is the principal performing an operation
type Actor struct {
	ID   string
	Role Role
}

// AnonymousActor is used for requests without credentials
var AnonymousActor = Actor{Role: Anonymous}

// Action is an operation guarded by the policy
type Action string

// Action values
const (
	ListCases         Action = "LIST_CASES"
	GetCase           Action = "GET_CASE"
	CreateCase        Action = "CREATE_CASE"
	TransitionStatus  Action = "TRANSITION_STATUS"
	RecordDecision    Action = "RECORD_DECISION"
	ChangeVisibility  Action = "CHANGE_VISIBILITY"
	AppendNote        Action = "APPEND_NOTE"
	AppendImages      Action = "APPEND_IMAGES"
	GenerateSignature Action = "GENERATE_SIGNATURE"
)

// minimumRole is the single source of truth for who may do what. Reads are further gated
// by case visibility in Allow.
var minimumRole = map[Action]Role{
	ListCases:         Anonymous,
	GetCase:           Anonymous,
	CreateCase:        Admin,
	TransitionStatus:  Admin,
	RecordDecision:    Admin,
	ChangeVisibility:  SuperAdmin,
	AppendNote:        Admin,
	AppendImages:      Admin,
	GenerateSignature: Admin,
}

// Allow reports whether role may perform action on a case with the given visibility.
// Unknown actions are denied.
func Allow(role Role, action Action, visibility models.Visibility) bool {
	required, ok := minimumRole[action]
	if !ok || role < required {
		return false
	}
	if action == GetCase {
		return CanRead(role, visibility)
	}
	return true
}

// CanRead reports whether role may see a case with the given visibility
func CanRead(role Role, visibility models.Visibility) bool {
	return role.IsPrivileged() || visibility == models.VisibilityPublic
}

// ScopeVisibility returns the visibility filter a listing must run with. Non-privileged
// actors only ever list public cases whatever they asked for.
func ScopeVisibility(role Role, requested models.Visibility) models.Visibility {
	if role.IsPrivileged() {
		return requested
	}
	return models.VisibilityPublic
}
