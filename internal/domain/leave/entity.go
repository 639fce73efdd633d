package leave

import "time"

type Type string

const (
	TypeSickLeave   Type = "Sick Leave"
	TypeCasualLeave Type = "Casual Leave"
	TypeWFH         Type = "WFH"
	TypePermission  Type = "Permission"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type LeaveRequest struct {
	ID             string
	UserID         string
	Type           Type
	StartDate      time.Time
	EndDate        time.Time
	Reason         string
	Status         Status
	ManagerRemarks *string
	ReviewedBy     *string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO / Join
	Requester *Requester
}

type Requester struct {
	ID          string
	Name        string
	Avatar      *string
	Designation *string
}

// DayCount is the inclusive number of calendar days covered.
func (l LeaveRequest) DayCount() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
