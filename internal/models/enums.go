package models

// Fixed enumerations shared by every deployment. Values outside these
// sets are a validation failure, never a silent coercion.

type RoleType string

const (
	RoleAuditor        RoleType = "auditor"
	RoleStationManager RoleType = "sm"
	RoleAdmin          RoleType = "admin"
	RoleViewer         RoleType = "viewer"
)

var UserRoles = []RoleType{RoleAuditor, RoleStationManager, RoleAdmin, RoleViewer}

func (r RoleType) Valid() bool {
	for _, v := range UserRoles {
		if r == v {
			return true
		}
	}
	return false
}

type RegionType string

const (
	RegionWRNorth  RegionType = "WR-North"
	RegionWRSouth  RegionType = "WR-South"
	RegionCREast   RegionType = "CR-East"
	RegionCRSouth  RegionType = "CR-South"
	RegionCRNorth  RegionType = "CR-North"
	RegionSouthern RegionType = "Southern"
	RegionERNorth  RegionType = "ER-North"
	RegionERSouth  RegionType = "ER-South"
)

var Regions = []RegionType{
	RegionWRNorth,
	RegionWRSouth,
	RegionCREast,
	RegionCRSouth,
	RegionCRNorth,
	RegionSouthern,
	RegionERNorth,
	RegionERSouth,
}

func (r RegionType) Valid() bool {
	for _, v := range Regions {
		if r == v {
			return true
		}
	}
	return false
}

type IssueTypeType string

const (
	TypeCustomerExperience   IssueTypeType = "Customer Experience"
	TypeHousekeeping         IssueTypeType = "Housekeeping"
	TypeCustomerMistreatment IssueTypeType = "Customer Mistreatment"
	TypeInitiative           IssueTypeType = "Initiative"
	TypeAdminIssues          IssueTypeType = "Admin Issues"
	TypeMaintenanceIssues    IssueTypeType = "Maintenance Issues"
	TypeITIssues             IssueTypeType = "IT Issues"
	TypeInventoryIssues      IssueTypeType = "Inventory Issues"
	TypeViolation            IssueTypeType = "Violation"
	TypeSafety               IssueTypeType = "Safety"
	TypeOthers               IssueTypeType = "Others"
)

var IssueTypes = []IssueTypeType{
	TypeCustomerExperience,
	TypeHousekeeping,
	TypeCustomerMistreatment,
	TypeInitiative,
	TypeAdminIssues,
	TypeMaintenanceIssues,
	TypeITIssues,
	TypeInventoryIssues,
	TypeViolation,
	TypeSafety,
	TypeOthers,
}

func (t IssueTypeType) Valid() bool {
	for _, v := range IssueTypes {
		if t == v {
			return true
		}
	}
	return false
}

type IssueStatusType string

const (
	StatusPending     IssueStatusType = "Pending"
	StatusResolved    IssueStatusType = "Resolved"
	StatusMaintenance IssueStatusType = "Maintenance"

	// StatusCancelled is deprecated; only reachable via the legacy
	// cancel toggle and excluded from the primary flow.
	StatusCancelled IssueStatusType = "Cancelled"
)

var IssueStatuses = []IssueStatusType{StatusPending, StatusResolved, StatusMaintenance}

// EvidencePhase names one of the two evidence lists on an issue.
type EvidencePhase string

const (
	EvidenceBefore EvidencePhase = "before"
	EvidenceAfter  EvidencePhase = "after"
)

func (p EvidencePhase) Valid() bool {
	return p == EvidenceBefore || p == EvidenceAfter
}

func (s IssueStatusType) Valid() bool {
	for _, v := range IssueStatuses {
		if s == v {
			return true
		}
	}
	return false
}
