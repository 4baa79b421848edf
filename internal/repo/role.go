package repo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Role is the closed set of staff roles a clinic user can hold.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleDoctor     Role = "DOCTOR"
	RoleReception  Role = "RECEPTION"
	RoleFinance    Role = "FINANCE"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleReception, RoleFinance}

var roleAliases = map[string]Role{
	"SUPER_ADMIN":  RoleSuperAdmin,
	"SUPERADMIN":   RoleSuperAdmin,
	"ADMIN":        RoleAdmin,
	"YONETICI":     RoleAdmin,
	"DOCTOR":       RoleDoctor,
	"DOKTOR":       RoleDoctor,
	"RECEPTION":    RoleReception,
	"RECEPTIONIST": RoleReception,
	"SECRETARY":    RoleReception,
	"SEKRETER":     RoleReception,
	"FINANCE":      RoleFinance,
	"ACCOUNTING":   RoleFinance,
	"MUHASEBE":     RoleFinance,
}

// ParseRole normalizes free-form role input. Case, surrounding space and
// '-'/' ' separators are ignored and a handful of legacy labels map onto
// the canonical roles.
func ParseRole(s string) (Role, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if r, ok := roleAliases[key]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// IsAdmin is true for roles that see every enabled task.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

func (r Role) String() string { return string(r) }

// UnmarshalText lets roles arrive as aliases in JSON bodies and query params.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// scanRole converts a stored role column. The column carries a CHECK
// constraint so anything else is a data defect.
func scanRole(s string) (Role, error) {
	r, err := ParseRole(s)
	if err != nil {
		return "", fmt.Errorf("stored role: %w", err)
	}
	return r, nil
}
