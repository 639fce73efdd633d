package user

type Permission string

const (
	// Self service
	PermissionAttendanceMark Permission = "attendance.mark"
	PermissionEODSubmit      Permission = "eod.submit"
	PermissionLeaveApply     Permission = "leave.apply"

	// Team views
	PermissionAttendanceViewTeam Permission = "attendance.view_team"
	PermissionAttendanceExport   Permission = "attendance.export"
	PermissionEODViewTeam        Permission = "eod.view_team"
	PermissionLeaveApprove       Permission = "leave.approve"
	PermissionUserView           Permission = "user.view"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// Administration
	PermissionAttendanceLock Permission = "attendance.lock"
	PermissionUserManage     Permission = "user.manage"
)

var selfService = []Permission{
	PermissionAttendanceMark,
	PermissionEODSubmit,
	PermissionLeaveApply,
}

var teamViews = []Permission{
	PermissionAttendanceViewTeam,
	PermissionAttendanceExport,
	PermissionEODViewTeam,
	PermissionLeaveApprove,
	PermissionUserView,
	PermissionReportsView,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin:    concat(selfService, teamViews, []Permission{PermissionAttendanceLock, PermissionUserManage}),
	RoleManager:  concat(selfService, teamViews),
	RoleEmployee: selfService,
}

func concat(groups ...[]Permission) []Permission {
	var out []Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
