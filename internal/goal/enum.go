package goal

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

var AllStatuses = []GoalStatus{
	GoalStatusActive,
	GoalStatusCompleted,
	GoalStatusCancelled,
}

func (s GoalStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type GoalCategory string

const (
	CategorySavings    GoalCategory = "savings"
	CategoryInvestment GoalCategory = "investment"
	CategoryDebt       GoalCategory = "debt"
	CategoryEmergency  GoalCategory = "emergency"
	CategoryVacation   GoalCategory = "vacation"
	CategoryEducation  GoalCategory = "education"
	CategoryOther      GoalCategory = "other"
)

var AllCategories = []GoalCategory{
	CategorySavings,
	CategoryInvestment,
	CategoryDebt,
	CategoryEmergency,
	CategoryVacation,
	CategoryEducation,
	CategoryOther,
}

func (c GoalCategory) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// ProgressType selects where a contribution comes from: cash tracked by
// hand, or the goal's linked account's available balance.
type ProgressType string

const (
	ProgressManual ProgressType = "manual"
	ProgressLinked ProgressType = "linked"
)

func (t ProgressType) IsValid() bool {
	return t == ProgressManual || t == ProgressLinked
}
