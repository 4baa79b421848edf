package authorize

import (
	"context"
	"log/slog"
	"slices"
)

// DefaultPolicies is the baseline permission table for clinic staff. Every
// clinic role applies in every clinic domain.
func DefaultPolicies() []PermissionPolicy {
	allow := func(r Role, obj Resource, act Action) PermissionPolicy {
		return PermissionPolicy{r, WildcardDomain, obj, act, EffectAllow}
	}

	return []PermissionPolicy{
		// Platform superadmin: god mode
		{RolePlatformSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

		// Clinic super admin: everything inside the clinic
		allow(RoleClinicSuperAdmin, WildcardResource, WildcardAction),

		// Admin: runs the clinic, including staff roles and the task catalog
		allow(RoleClinicAdmin, ResourceClinic, ActionRead),
		allow(RoleClinicAdmin, ResourceClinicSettings, ActionManage),
		allow(RoleClinicAdmin, ResourceSchedule, ActionRead),
		allow(RoleClinicAdmin, ResourceAppointment, ActionManage),
		allow(RoleClinicAdmin, ResourcePatient, ActionManage),
		allow(RoleClinicAdmin, ResourcePayment, ActionManage),
		allow(RoleClinicAdmin, ResourceControl, ActionRead),
		allow(RoleClinicAdmin, ResourceTaskConfig, ActionManage),
		allow(RoleClinicAdmin, ResourceUser, ActionManage),
		allow(RoleClinicAdmin, ResourceRBAC, ActionGrant),

		// Doctor: own day, notes and patients
		allow(RoleClinicDoctor, ResourceClinic, ActionRead),
		allow(RoleClinicDoctor, ResourceClinicSettings, ActionRead),
		allow(RoleClinicDoctor, ResourceSchedule, ActionRead),
		allow(RoleClinicDoctor, ResourceAppointment, ActionRead),
		allow(RoleClinicDoctor, ResourceAppointment, ActionUpdate),
		allow(RoleClinicDoctor, ResourcePatient, ActionRead),
		allow(RoleClinicDoctor, ResourcePatient, ActionUpdate),
		allow(RoleClinicDoctor, ResourcePayment, ActionRead),
		allow(RoleClinicDoctor, ResourceControl, ActionRead),
		allow(RoleClinicDoctor, ResourceTaskConfig, ActionRead),
		allow(RoleClinicDoctor, ResourceUser, ActionRead),

		// Reception: books and tracks appointments
		allow(RoleClinicReception, ResourceClinic, ActionRead),
		allow(RoleClinicReception, ResourceClinicSettings, ActionRead),
		allow(RoleClinicReception, ResourceSchedule, ActionRead),
		allow(RoleClinicReception, ResourceAppointment, ActionManage),
		allow(RoleClinicReception, ResourcePatient, ActionManage),
		allow(RoleClinicReception, ResourcePayment, ActionRead),
		allow(RoleClinicReception, ResourcePayment, ActionCreate),
		allow(RoleClinicReception, ResourceControl, ActionRead),
		allow(RoleClinicReception, ResourceTaskConfig, ActionRead),
		allow(RoleClinicReception, ResourceUser, ActionRead),

		// Finance: payments
		allow(RoleClinicFinance, ResourceClinic, ActionRead),
		allow(RoleClinicFinance, ResourceSchedule, ActionRead),
		allow(RoleClinicFinance, ResourceAppointment, ActionRead),
		allow(RoleClinicFinance, ResourcePatient, ActionRead),
		allow(RoleClinicFinance, ResourcePayment, ActionManage),
		allow(RoleClinicFinance, ResourceControl, ActionRead),
		allow(RoleClinicFinance, ResourceTaskConfig, ActionRead),
		allow(RoleClinicFinance, ResourceUser, ActionRead),
	}
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	policies := DefaultPolicies()
	for _, p := range policies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(policies))
	return nil
}

// SetClinicRole makes role the user's only clinic role in clinicID.
func SetClinicRole(ctx context.Context, auth IAuthorization, userID, clinicID string, role Role) error {
	if !slices.Contains(ClinicRoles, role) {
		return ErrInvalidArgs
	}

	domain := ClinicDomain(clinicID)
	subject := GroupSubject(userID)

	current, err := auth.GetRolesForUserInDomain(ctx, subject, domain)
	if err != nil {
		return err
	}
	for _, r := range current {
		if r == role {
			continue
		}
		if _, err := auth.RemoveRoleForUserInDomain(ctx, subject, r, domain); err != nil {
			return err
		}
	}

	_, err = auth.AddRoleForUserInDomain(ctx, subject, role, domain)
	return err
}

// GetClinicRoles returns all roles a user has in a specific clinic.
func GetClinicRoles(ctx context.Context, auth IAuthorization, userID, clinicID string) ([]Role, error) {
	return auth.GetRolesForUserInDomain(ctx, GroupSubject(userID), ClinicDomain(clinicID))
}

// AssignPlatformSuperAdmin grants the platform superadmin role in the sys domain.
func AssignPlatformSuperAdmin(ctx context.Context, auth IAuthorization, userID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RolePlatformSuperAdmin, DomainSys)
	return err
}
