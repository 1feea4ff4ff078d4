package domain

// Capability names a privileged operation. Role checks go through Allows
// rather than ad-hoc string comparisons scattered across handlers.
type Capability string

const (
	CapManageDirectory     Capability = "directory:manage"
	CapViewAllPatients     Capability = "patients:list"
	CapDeclareAvailability Capability = "availability:declare"
	CapBookAppointment     Capability = "appointments:book"
	CapRecordTreatment     Capability = "treatments:record"
	CapViewAdminDashboard  Capability = "dashboard:admin"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageDirectory:    true,
		CapViewAllPatients:    true,
		CapBookAppointment:    true,
		CapRecordTreatment:    true,
		CapViewAdminDashboard: true,
	},
	RoleDoctor: {
		CapDeclareAvailability: true,
		CapRecordTreatment:     true,
	},
	RolePatient: {
		CapBookAppointment: true,
	},
}

func (r Role) Allows(c Capability) bool {
	return roleCapabilities[r][c]
}
