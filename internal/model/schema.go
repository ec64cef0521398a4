package model

// Credit report feature names
const (
	MedianDayCredit    = "median_day_credit"    // early (0) or late (1) half of month for first repayments
	MeanCreditSum      = "mean_credit_summ"     // mean principal over agreements with principal > 0
	MeanCreditDebt     = "mean_credit_debt"     // mean outstanding debt over agreements with debt > 0
	Position           = "cdolgn"               // last recorded job position code
	Income             = "wdohod"               // last recorded income
	WorkExperience     = "wstag"                // last recorded work experience
	MaxIncome          = "max_wdohod"           // highest recorded income
	Citizenship        = "cgrag"                // country code
	SocialStatus       = "sstate"               // social status code
	FamilyStatus       = "family"               // family status code
	Education          = "ceduc"                // education code
	BalanceValue       = "ubki_balance_value"   // partner billing balance
	PhoneDeltaTime     = "ubki_phone_deltatime" // days since the phone was first recorded
	EmailDeltaTime     = "ubki_email_deltatime" // days since the email was first recorded
	WeekQueries        = "ubki_week_queries"    // inquiries per week
	CreditPurposeQuery = "req_credit"           // inquiries with a credit purpose (auxiliary)
)

// Credit score feature names
const (
	Score         = "ubki_score"
	ScoreLast     = "ubki_scorelast"
	ScoreLevel    = "ubki_scorelevel"
	AllCredits    = "ubki_all_credits"
	OpenCredits   = "ubki_open_credits"
	ClosedCredits = "ubki_closed_credits"
	OverdueYear   = "ubki_expyear"   // overdue payments in the last year, yes/no
	MaxNowOverdue = "ubki_maxnowexp" // current maximum overdue, 0 when none
)

// ReportSchema lists credit report features in output order
var ReportSchema = []string{
	MedianDayCredit,
	MeanCreditSum,
	MeanCreditDebt,
	Position,
	Income,
	WorkExperience,
	MaxIncome,
	Citizenship,
	SocialStatus,
	FamilyStatus,
	Education,
	BalanceValue,
	PhoneDeltaTime,
	EmailDeltaTime,
	WeekQueries,
}

// ScoreSchema lists credit score features in output order. The last three
// are filled by the report extractor only; they are declared here so both
// mappings share the merged key set.
var ScoreSchema = []string{
	Score,
	ScoreLast,
	ScoreLevel,
	AllCredits,
	OpenCredits,
	ClosedCredits,
	OverdueYear,
	MaxNowOverdue,
	PhoneDeltaTime,
	EmailDeltaTime,
	WeekQueries,
}

// MergedSchema returns the union of both schemas in merge order
func MergedSchema() []string {
	return NewFeatures(ReportSchema).Merge(NewFeatures(ScoreSchema)).Keys()
}
