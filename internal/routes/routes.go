package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthSignup = "/api/v1/auth/signup"
	AuthLogin  = "/api/v1/auth/login"
	AuthMe     = "/api/v1/auth/me"

	// Issues
	Issues           = "/api/v1/issues"
	IssueByID        = "/api/v1/issues/{id}"
	AuditorIssueByID = "/api/v1/auditor/issues/{id}"
	SMIssueByID      = "/api/v1/sm/issues/{id}"
	AdminIssueByID   = "/api/v1/admin/issues/{id}"
	AdminIssueCancel = "/api/v1/admin/issues/{id}/cancel"

	// Evidence
	EvidenceUpload = "/api/v1/evidence"
	IssueEvidence  = "/api/v1/issues/{id}/evidence/{phase}"

	// Initiatives
	Initiatives         = "/api/v1/initiatives"
	InitiativeByID      = "/api/v1/initiatives/{id}"
	AdminInitiativeByID = "/api/v1/admin/initiatives/{id}"

	// Reports
	ReportsIssues               = "/api/v1/reports/issues"
	ReportsIssuesExport         = "/api/v1/reports/issues/export"
	ReportsIssuesExportCSV      = "/api/v1/reports/issues/export/csv"
	ReportsInitiatives          = "/api/v1/reports/initiatives"
	ReportsInitiativesExport    = "/api/v1/reports/initiatives/export"
	ReportsInitiativesExportCSV = "/api/v1/reports/initiatives/export/csv"
	ReportsStats                = "/api/v1/reports/stats"

	// Admin user management
	AdminUsersSearch = "/api/v1/admin/users/search"
	AdminUserByID    = "/api/v1/admin/users/{id}"
)
