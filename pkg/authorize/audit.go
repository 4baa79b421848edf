package authorize

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

// auditedAuthorization logs every decision and policy change. Denials log at
// warn so they stand out next to request logs for the same clinic.
type auditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditedAuthorization{inner: inner, logger: logger.With("component", "authz")}
}

func (a *auditedAuthorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, domain, object, action)

	attrs := []any{
		"subject", string(subject),
		"domain", string(domain),
		"resource", string(object),
		"action", string(action),
		"allowed", allowed,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	attrs = append(attrs, reqctx.LogAttrs(ctx)...)

	switch {
	case err != nil:
		a.logger.Error("authz_decision", append(attrs, "error", err)...)
	case allowed:
		a.logger.Debug("authz_decision", attrs...)
	default:
		a.logger.Warn("authz_decision", attrs...)
	}
	return allowed, err
}

func (a *auditedAuthorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	return mustEnforce(ctx, a, subject, domain, object, action)
}

func (a *auditedAuthorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	added, err := a.inner.AddRoleForUserInDomain(ctx, subject, role, domain)
	a.change("add_role", err, "subject", string(subject), "role", string(role), "domain", string(domain), "changed", added)
	return added, err
}

func (a *auditedAuthorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	removed, err := a.inner.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	a.change("remove_role", err, "subject", string(subject), "role", string(role), "domain", string(domain), "changed", removed)
	return removed, err
}

func (a *auditedAuthorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	return a.inner.GetRolesForUserInDomain(ctx, subject, domain)
}

func (a *auditedAuthorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	added, err := a.inner.AddPermission(ctx, role, domain, object, action, effect)
	a.change("add_permission", err, "role", string(role), "domain", string(domain),
		"resource", string(object), "action", string(action), "effect", string(effect), "changed", added)
	return added, err
}

func (a *auditedAuthorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	removed, err := a.inner.RemovePermission(ctx, role, domain, object, action, effect)
	a.change("remove_permission", err, "role", string(role), "domain", string(domain),
		"resource", string(object), "action", string(action), "effect", string(effect), "changed", removed)
	return removed, err
}

func (a *auditedAuthorization) change(op string, err error, attrs ...any) {
	attrs = append([]any{"operation", op}, attrs...)
	if err != nil {
		a.logger.Error("authz_policy_change", append(attrs, "error", err)...)
		return
	}
	a.logger.Info("authz_policy_change", attrs...)
}
