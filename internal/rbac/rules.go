package rbac

const (
	PermQuestionsView     = "questions:view"
	PermEvaluationCreate  = "evaluation:create"
	PermEvaluationViewOwn = "evaluation:view-own"
	PermEvaluationViewAll = "evaluation:view-all"
	PermAnalyticsViewOwn  = "analytics:view-own"
	PermAnalyticsViewAll  = "analytics:view-all"
)

// Default policy. Teachers review any student's history; admins get everything.
var RolePermissions = map[string][]string{
	"student": {
		PermQuestionsView,
		PermEvaluationCreate,
		PermEvaluationViewOwn,
		PermAnalyticsViewOwn,
	},
	"teacher": {
		PermQuestionsView,
		PermEvaluationCreate,
		PermEvaluationViewOwn,
		"evaluation:view-*",
		"analytics:*",
	},
	"admin": {
		"*", // everything
	},
}
