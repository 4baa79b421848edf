package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is what middleware and services depend on. Policies are
// p, role, domain, resource, action, effect and groupings g, user, role, domain.
type IAuthorization interface {
	Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error)
	// MustEnforce returns ErrForbidden on deny.
	MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error

	AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error)

	AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
}

type Authorization struct {
	enforcer *casbin.DistributedEnforcer
	// bypassRole, when set, is a sys-domain role that passes every check.
	bypassRole Role
}

// NewAuthorization loads policy into e and wraps it. With bypass set,
// platform superadmins in the sys domain pass every check.
func NewAuthorization(e *casbin.DistributedEnforcer, bypass bool) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	a := &Authorization{enforcer: e}
	if bypass {
		a.bypassRole = RolePlatformSuperAdmin
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func checkDomain(d Domain) error {
	if d == "" || !IsValidDomain(d) {
		return fmt.Errorf("%w: invalid domain: %q", ErrInvalidArgs, d)
	}
	return nil
}

func checkRole(r Role) error {
	if _, ok := KnownRoles[r]; !ok && r != WildcardRole {
		return fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, r)
	}
	return nil
}

func checkTarget(object Resource, action Action) error {
	if _, ok := KnownResources[object]; !ok && object != WildcardResource {
		return fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok && action != WildcardAction {
		return fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}
	return nil
}

func checkRule(role Role, domain Domain, object Resource, action Action, effect PolicyEffect) error {
	if err := checkRole(role); err != nil {
		return err
	}
	if err := checkDomain(domain); err != nil {
		return err
	}
	if err := checkTarget(object, action); err != nil {
		return err
	}
	if effect != EffectAllow && effect != EffectDeny {
		return fmt.Errorf("%w: invalid effect: %q", ErrInvalidArgs, effect)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Decisions
// ---------------------------------------------------------------------------

func (a *Authorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	_, span := otel.Tracer("klinik/authorize").Start(ctx, "authorize.Enforce")
	defer span.End()
	span.SetAttributes(
		attribute.String("authz.domain", string(domain)),
		attribute.String("authz.resource", string(object)),
		attribute.String("authz.action", string(action)),
	)

	if subject == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if err := checkTarget(object, action); err != nil {
		return false, err
	}

	if a.bypassRole != "" && a.enforcer.HasGroupingPolicy(string(subject), string(a.bypassRole), string(DomainSys)) {
		span.SetAttributes(attribute.Bool("authz.bypass", true))
		return true, nil
	}

	allowed, err := a.enforcer.Enforce(string(subject), string(domain), string(object), string(action))
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("authz.allowed", allowed))
	return allowed, nil
}

func (a *Authorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	return mustEnforce(ctx, a, subject, domain, object, action)
}

func mustEnforce(ctx context.Context, auth IAuthorization, subject GroupSubject, domain Domain, object Resource, action Action) error {
	allowed, err := auth.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// ---------------------------------------------------------------------------
// Groupings
// ---------------------------------------------------------------------------

func (a *Authorization) AddRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, fmt.Errorf("%w: empty subject/role", ErrInvalidArgs)
	}
	if err := checkRole(role); err != nil {
		return false, err
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.AddGroupingPolicy(string(subject), string(role), string(domain))
}

func (a *Authorization) RemoveRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, fmt.Errorf("%w: empty subject/role", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.RemoveGroupingPolicy(string(subject), string(role), string(domain))
}

func (a *Authorization) GetRolesForUserInDomain(_ context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	names := a.enforcer.GetRolesForUserInDomain(string(subject), string(domain))
	out := make([]Role, len(names))
	for i, n := range names {
		out[i] = Role(n)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Permissions
// ---------------------------------------------------------------------------

func (a *Authorization) AddPermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if err := checkRule(role, domain, object, action, effect); err != nil {
		return false, err
	}
	return a.enforcer.AddPolicy(string(role), string(domain), string(object), string(action), string(effect))
}

func (a *Authorization) RemovePermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if role == "" || object == "" || action == "" || effect == "" {
		return false, fmt.Errorf("%w: empty permission fields", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.RemovePolicy(string(role), string(domain), string(object), string(action), string(effect))
}
