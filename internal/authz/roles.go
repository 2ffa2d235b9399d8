package authz

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCloser  Role = "closer"
	RoleSetter  Role = "setter"
	RoleViewer  Role = "viewer"
)

// Section is a dashboard area a role may open.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionLeads     Section = "leads"
	SectionPipeline  Section = "pipeline"
	SectionProposals Section = "proposals"
	SectionReports   Section = "reports"
	SectionSettings  Section = "settings"
)

var permissions = map[Role]map[Section]bool{
	RoleAdmin: {
		SectionDashboard: true, SectionLeads: true, SectionPipeline: true,
		SectionProposals: true, SectionReports: true, SectionSettings: true,
	},
	RoleManager: {
		SectionDashboard: true, SectionLeads: true, SectionPipeline: true,
		SectionProposals: true, SectionReports: true,
	},
	RoleCloser: {
		SectionDashboard: true, SectionLeads: true, SectionPipeline: true, SectionProposals: true,
	},
	RoleSetter: {
		SectionDashboard: true, SectionLeads: true,
	},
	RoleViewer: {
		SectionDashboard: true, SectionPipeline: true, SectionReports: true,
	},
}

// Can reports whether role may open section. Unknown roles get nothing.
func Can(role Role, section Section) bool {
	return permissions[role][section]
}

func IsElevated(role Role) bool {
	return role == RoleAdmin || role == RoleManager
}

func IsReadOnly(role Role) bool {
	return role == RoleViewer
}

// Normalize maps an unknown role string to RoleViewer.
func Normalize(role string) Role {
	switch r := Role(role); r {
	case RoleAdmin, RoleManager, RoleCloser, RoleSetter, RoleViewer:
		return r
	default:
		return RoleViewer
	}
}
