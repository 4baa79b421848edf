package task

import (
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/util/override"
)

// Viewer is the identity a dashboard is rendered for.
type Viewer struct {
	UserID   uuid.UUID
	ClinicID uuid.UUID
	Role     repo.Role
}

func (v Viewer) IsAdmin() bool { return v.Role.IsAdmin() }

// Assignment is a task's effective owner role and switch for one clinic.
type Assignment struct {
	Role    repo.Role `json:"role"`
	Enabled bool      `json:"enabled"`
}

// Gate answers visibility questions for one clinic's task catalog.
type Gate struct {
	effective map[repo.TaskCode]Assignment
}

// NewGate resolves each definition against the clinic's config rows. A
// config row replaces the definition default; without one the task goes to
// the default role and is enabled.
func NewGate(defs []*repo.TaskDefinition, configs []*repo.TaskConfig) Gate {
	effective := make(map[repo.TaskCode]Assignment, len(defs))
	for _, d := range defs {
		if d == nil {
			continue
		}
		base := Assignment{Role: d.DefaultRole, Enabled: true}
		row := override.Find(configs, func(c *repo.TaskConfig) bool {
			return c != nil && c.TaskDefinitionID == d.ID
		})
		effective[d.Code] = override.Resolve(base, override.Map(row, func(c *repo.TaskConfig) Assignment {
			return Assignment{Role: c.AssignedRole, Enabled: c.IsEnabled}
		}))
	}
	return Gate{effective: effective}
}

// Assignment returns the resolved assignment. ok is false for a code with
// no definition.
func (g Gate) Assignment(code repo.TaskCode) (Assignment, bool) {
	a, ok := g.effective[code]
	return a, ok
}

// Visible reports whether viewer should see a task of the given code raised
// for an appointment of apptDoctorID.
func (g Gate) Visible(code repo.TaskCode, viewer Viewer, apptDoctorID *uuid.UUID) bool {
	a, ok := g.effective[code]
	if !ok || !a.Enabled {
		return false
	}
	if viewer.IsAdmin() {
		return true
	}
	if a.Role == repo.RoleDoctor && apptDoctorID != nil && *apptDoctorID == viewer.UserID {
		return true
	}
	return a.Role == viewer.Role
}

// IsVisible is the one-shot form of NewGate(defs, configs).Visible.
func IsVisible(code repo.TaskCode, configs []*repo.TaskConfig, defs []*repo.TaskDefinition, viewer Viewer, apptDoctorID *uuid.UUID) bool {
	return NewGate(defs, configs).Visible(code, viewer, apptDoctorID)
}
