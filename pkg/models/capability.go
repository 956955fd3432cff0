package models

import "golang.org/x/exp/slices"

// Capability names a gated action. Handlers and services ask the acting user
// whether it holds a capability instead of comparing role names.
type Capability string

const (
	CapabilityEditAnyAccident    Capability = "accidents:edit-any"
	CapabilityDeleteAccident     Capability = "accidents:delete"
	CapabilityVerifyAccident     Capability = "accidents:verify"
	CapabilityViewAdminDashboard Capability = "admin:dashboard"
	CapabilityManageUsers        Capability = "users:manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapabilityEditAnyAccident,
		CapabilityDeleteAccident,
		CapabilityVerifyAccident,
		CapabilityViewAdminDashboard,
		CapabilityManageUsers,
	},
	RoleOfficer: {},
	RoleUser:    {},
}

func (u *User) Can(capability Capability) bool {
	if u == nil {
		return false
	}

	return slices.Contains(roleCapabilities[u.Role], capability)
}

// CanModifyAccident allows the original reporter and anyone who may edit any
// report.
func (u *User) CanModifyAccident(accident *Accident) bool {
	return accident.ReportedByUser(u) || u.Can(CapabilityEditAnyAccident)
}
