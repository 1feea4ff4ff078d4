package domain

import "testing"

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapManageDirectory, true},
		{RoleAdmin, CapViewAllPatients, true},
		{RoleAdmin, CapRecordTreatment, true},
		{RoleAdmin, CapViewAdminDashboard, true},
		{RoleAdmin, CapDeclareAvailability, false},
		{RoleDoctor, CapDeclareAvailability, true},
		{RoleDoctor, CapRecordTreatment, true},
		{RoleDoctor, CapManageDirectory, false},
		{RoleDoctor, CapViewAdminDashboard, false},
		{RolePatient, CapBookAppointment, true},
		{RolePatient, CapRecordTreatment, false},
		{RolePatient, CapViewAllPatients, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			if got := tt.role.Allows(tt.cap); got != tt.want {
				t.Errorf("Allows(%s) for %s = %v, want %v", tt.cap, tt.role, got, tt.want)
			}
		})
	}
}

func TestUnknownRoleAllowsNothing(t *testing.T) {
	if Role("auditor").Allows(CapBookAppointment) {
		t.Error("unknown role must not be granted any capability")
	}
}
