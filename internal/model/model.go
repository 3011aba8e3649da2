package model

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleTeamLead Role = "Team Lead"
	RoleEmployee Role = "Employee"
)

type Domain string

const (
	DomainFrontend Domain = "Frontend"
	DomainBackend  Domain = "Backend"
	DomainUIUX     Domain = "UI/UX"
	DomainQA       Domain = "QA"
	DomainDevOps   Domain = "DevOps"

	// DomainAdmin is a sentinel for Admin-role employees, not a work domain.
	DomainAdmin Domain = "Admin"
)

// WorkDomains are the domains tasks can belong to, in display order.
var WorkDomains = []Domain{DomainFrontend, DomainBackend, DomainUIUX, DomainQA, DomainDevOps}

type Task struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Hours      int64    `json:"hours"`
	Priority   Priority `json:"priority"`
	Status     Status   `json:"status"`
	Domain     Domain   `json:"domain"`
	Deadline   string   `json:"deadline,omitempty"`
	AssignedTo *int64   `json:"assignedTo,omitempty"`
	CreatedBy  int64    `json:"createdBy"`
}

type Employee struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	Domain        Domain `json:"domain"`
	AssignedHours int64  `json:"assignedHours"`
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Permission is the coarse authorization tier derived from a role. Every
// role check in the application routes through PermissionTier.
type Permission struct {
	CanManage      bool
	CanViewReports bool
}

func PermissionTier(role Role) Permission {
	return Permission{
		CanManage:      role == RoleAdmin || role == RoleManager,
		CanViewReports: role == RoleAdmin || role == RoleManager || role == RoleTeamLead,
	}
}
