package policy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/party-cms-api/models"
)

var (
	allRoles        = []Role{Anonymous, User, Admin, SuperAdmin}
	allVisibilities = []models.Visibility{models.VisibilityInternalOnly, models.VisibilityPublic, models.VisibilityRestricted}
	writeActions    = []Action{CreateCase, TransitionStatus, RecordDecision, AppendNote, AppendImages}
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"SUPER_ADMIN", SuperAdmin},
		{"admin", Admin},
		{" USER ", User},
		{"ANONYMOUS", Anonymous},
		{"", Anonymous},
		{"ROOT", Anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestHighestRole(t *testing.T) {
	assert.Equal(t, Admin, HighestRole([]string{"USER", "ADMIN", "bogus"}))
	assert.Equal(t, Anonymous, HighestRole(nil))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "SUPER_ADMIN", SuperAdmin.String())
	assert.Equal(t, "ANONYMOUS", Role(42).String())
}

func TestAllowWrites(t *testing.T) {
	for _, action := range writeActions {
		assert.False(t, Allow(Anonymous, action, ""), action)
		assert.False(t, Allow(User, action, ""), action)
		assert.True(t, Allow(Admin, action, ""), action)
		assert.True(t, Allow(SuperAdmin, action, ""), action)
	}
}

func TestAllowChangeVisibility(t *testing.T) {
	assert.False(t, Allow(User, ChangeVisibility, ""))
	assert.False(t, Allow(Admin, ChangeVisibility, ""))
	assert.True(t, Allow(SuperAdmin, ChangeVisibility, ""))
}

func TestAllowGetCase(t *testing.T) {
	assert.True(t, Allow(Anonymous, GetCase, models.VisibilityPublic))
	assert.False(t, Allow(Anonymous, GetCase, models.VisibilityInternalOnly))
	assert.False(t, Allow(User, GetCase, models.VisibilityRestricted))
	assert.True(t, Allow(Admin, GetCase, models.VisibilityRestricted))
	assert.True(t, Allow(SuperAdmin, GetCase, models.VisibilityInternalOnly))
}

func TestAllowUnknownAction(t *testing.T) {
	assert.False(t, Allow(SuperAdmin, Action("DELETE_CASE"), models.VisibilityPublic))
}

func TestScopeVisibility(t *testing.T) {
	assert.Equal(t, models.VisibilityPublic, ScopeVisibility(User, models.VisibilityRestricted))
	assert.Equal(t, models.VisibilityPublic, ScopeVisibility(Anonymous, ""))
	assert.Equal(t, models.VisibilityRestricted, ScopeVisibility(Admin, models.VisibilityRestricted))
	assert.Equal(t, models.Visibility(""), ScopeVisibility(SuperAdmin, ""))
}

func TestPolicyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	roleGen := gen.IntRange(0, len(allRoles)-1).Map(func(i int) Role { return allRoles[i] })
	visibilityGen := gen.IntRange(0, len(allVisibilities)-1).Map(func(i int) models.Visibility { return allVisibilities[i] })

	properties.Property("a higher role never loses a permission held by a lower one", prop.ForAll(
		func(low, high Role, v models.Visibility) bool {
			if low > high {
				low, high = high, low
			}
			for action := range minimumRole {
				if Allow(low, action, v) && !Allow(high, action, v) {
					return false
				}
			}
			return true
		},
		roleGen, roleGen, visibilityGen,
	))

	properties.Property("non-privileged actors only read public cases", prop.ForAll(
		func(r Role, v models.Visibility) bool {
			if r.IsPrivileged() {
				return Allow(r, GetCase, v)
			}
			return Allow(r, GetCase, v) == (v == models.VisibilityPublic)
		},
		roleGen, visibilityGen,
	))

	properties.Property("non-privileged listings are always scoped to public", prop.ForAll(
		func(r Role, v models.Visibility) bool {
			scoped := ScopeVisibility(r, v)
			if r.IsPrivileged() {
				return scoped == v
			}
			return scoped == models.VisibilityPublic
		},
		roleGen, visibilityGen,
	))

	properties.TestingRun(t)
}
