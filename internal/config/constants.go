package config

import "time"

const (
	// Feedback complaint statuses
	ComplaintPending    = "Pending"
	ComplaintInProgress = "In Progress"
	ComplaintResolved   = "Resolved"
	ComplaintExpired    = "Expired"
	ComplaintOpen       = "Open"

	// Job slip statuses
	JobSlipPending        = "Pending"
	JobSlipResolved       = "Resolved"
	JobSlipVerifiedClosed = "Verified & Closed"
	JobSlipCompleted      = "Completed"

	// Roles
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleSupervisor = "Supervisor"
	RoleBookkeeper = "Bookkeeper"
	RoleTechnician = "Technician"
	RoleTenant     = "Tenant"

	// Notification templates
	TemplateJobSlipCreated    = "Added Jobslip"
	TemplateJanitorialCreated = "Added Janitorial Report"

	// Pagination
	PageSize = 10

	// Auth
	TokenIssuer     = "facilitydesk"
	DefaultTokenTTL = time.Hour

	// Notification fan-out
	EmailConcurrency = 4
	NotifyQueueKey   = "notify:events"
	NotifyChannel    = "notify:live"
)

// Departments whose supervisors receive janitorial report notifications.
var JanitorialDepartments = []string{"Building", "Janitorial"}

var ComplaintStatuses = []string{
	ComplaintPending,
	ComplaintInProgress,
	ComplaintResolved,
	ComplaintExpired,
	ComplaintOpen,
}

var JobSlipStatuses = []string{
	JobSlipPending,
	JobSlipResolved,
	JobSlipVerifiedClosed,
	JobSlipCompleted,
}
