package authorize

import (
	"fmt"
	"regexp"
	"strings"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// ActionManage grants every action on the resource.
	ActionManage Action = "manage"

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {},
	ActionGrant:  {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceUser Resource = "user"

	// Clinic settings: working hours, overrides, doctor list
	ResourceClinic         Resource = "clinic"
	ResourceClinicSettings Resource = "clinic_settings"

	ResourcePatient Resource = "patient"

	// Scheduling
	ResourceSchedule    Resource = "schedule"
	ResourceAppointment Resource = "appointment"

	ResourcePayment Resource = "payment"

	// Attention list and its task catalog
	ResourceControl    Resource = "control"
	ResourceTaskConfig Resource = "task_config"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser:   {},
	ResourceClinic: {}, ResourceClinicSettings: {},
	ResourcePatient:  {},
	ResourceSchedule: {}, ResourceAppointment: {},
	ResourcePayment: {},
	ResourceControl: {}, ResourceTaskConfig: {},
	ResourceSystem: {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform role (domain = sys)
	RolePlatformSuperAdmin Role = "role:platform:superadmin"

	// Clinic roles (domain = clinic:<uuid>)
	RoleClinicSuperAdmin Role = "role:clinic:super_admin"
	RoleClinicAdmin      Role = "role:clinic:admin"
	RoleClinicDoctor     Role = "role:clinic:doctor"
	RoleClinicReception  Role = "role:clinic:reception"
	RoleClinicFinance    Role = "role:clinic:finance"
)

var KnownRoles = map[Role]struct{}{
	RolePlatformSuperAdmin: {},
	RoleClinicSuperAdmin:   {},
	RoleClinicAdmin:        {},
	RoleClinicDoctor:       {},
	RoleClinicReception:    {},
	RoleClinicFinance:      {},
}

// ClinicRoles lists the roles a staff member can hold inside a clinic.
var ClinicRoles = []Role{
	RoleClinicSuperAdmin, RoleClinicAdmin, RoleClinicDoctor, RoleClinicReception, RoleClinicFinance,
}

// Staff role strings as stored in users.role
const (
	StaffRoleSuperAdmin = "SUPER_ADMIN"
	StaffRoleAdmin      = "ADMIN"
	StaffRoleDoctor     = "DOCTOR"
	StaffRoleReception  = "RECEPTION"
	StaffRoleFinance    = "FINANCE"
)

// StaffRoleToRBACRole maps DB role values to Casbin roles
var StaffRoleToRBACRole = map[string]Role{
	StaffRoleSuperAdmin: RoleClinicSuperAdmin,
	StaffRoleAdmin:      RoleClinicAdmin,
	StaffRoleDoctor:     RoleClinicDoctor,
	StaffRoleReception:  RoleClinicReception,
	StaffRoleFinance:    RoleClinicFinance,
}

// RoleForStaff returns the clinic role for a stored staff role.
func RoleForStaff(staffRole string) (Role, error) {
	r, ok := StaffRoleToRBACRole[strings.ToUpper(staffRole)]
	if !ok {
		return "", fmt.Errorf("%w: unknown staff role %q", ErrInvalidArgs, staffRole)
	}
	return r, nil
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

const (
	DomainPrefixClinic Domain = "clinic:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

func ClinicDomain(clinicID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixClinic, clinicID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	if rest, ok := strings.CutPrefix(s, string(DomainPrefixClinic)); ok {
		return reUUID.MatchString(rest)
	}
	return false
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
