package authorize

import "github.com/Alijeyrad/klinik_backend/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath is the path to a Casbin model file. Empty uses DefaultModel.
	CasbinModelPath string

	// EnableAudit enables audit logging for all authorization decisions
	EnableAudit bool

	// SuperadminBypass allows platform superadmins to bypass all checks
	SuperadminBypass bool

	// PolicySyncEnabled attaches the Postgres watcher so policy edits reach every instance
	PolicySyncEnabled bool

	HealthCheckEnabled bool
}

func DefaultConfig() Config {
	return Config{
		EnableAudit:        true,
		SuperadminBypass:   true,
		PolicySyncEnabled:  false,
		HealthCheckEnabled: true,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		CasbinModelPath:    c.CasbinModelPath,
		EnableAudit:        c.EnableAudit,
		SuperadminBypass:   c.SuperadminBypass,
		PolicySyncEnabled:  c.PolicySyncEnabled,
		HealthCheckEnabled: c.HealthCheckEnabled,
	}
}

// DefaultModel is the domain-scoped RBAC model. "manage" on a resource
// implies every action on it.
const DefaultModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub, r.dom) && (p.dom == "*" || p.dom == r.dom) && (p.obj == "*" || p.obj == r.obj) && (p.act == "*" || p.act == r.act || p.act == "manage")
`
