package coalition

// Canonical non-group field names.
const (
	FieldState          = "State"
	FieldBaselineObama  = "BaselineObama"
	FieldBaselineMcCain = "BaselineMcCain"
	FieldBaselineThird  = "BaselineThird"
	FieldElectoralVotes = "EV"
	FieldMargin         = "MARGIN"
	FieldTurnout        = "TURNOUT"
)

// StateDemographicsRenames maps state_demographics.csv columns to canonical names.
var StateDemographicsRenames = map[string]string{
	"STATE": FieldState,
	// Race/Ethnicity
	"Black_Percentage":             string(Black),
	"Hispanic_Percentage":          string(Hispanic),
	"Asian_Percentage":             string(Asian),
	"Other_Percentage":             string(Other),
	"White_Non_College_Percentage": string(WhiteNonCollege),
	"White_College_Percentage":     string(WhiteCollege),
	// Sex
	"Male_Percentage":   string(Male),
	"Female_Percentage": string(Female),
	// Age brackets
	"18-24_Percentage": string(Age18To24),
	"25-29_Percentage": string(Age25To29),
	"30-39_Percentage": string(Age30To39),
	"40-49_Percentage": string(Age40To49),
	"50-64_Percentage": string(Age50To64),
	"65+_Percentage":   string(Age65AndUp),
	// Veteran status
	"Not_a_veteran_Percentage": string(NonVeteran),
	"Veteran_Percentage":       string(Veteran),
	// Income brackets
	"Under_15000_Percentage":   string(Under15k),
	"15000-30000_Percentage":   string(Income15k),
	"30000-50000_Percentage":   string(Income30k),
	"50000-75000_Percentage":   string(Income50k),
	"75000-100000_Percentage":  string(Income75k),
	"100000-150000_Percentage": string(Income100k),
	"150000-200000_Percentage": string(Income150k),
	"Over_200000_Percentage":   string(Over200k),
}

// StateResultsRenames maps results.csv columns to canonical names.
var StateResultsRenames = map[string]string{
	"STATE":      FieldState,
	"OBAMA":      FieldBaselineObama,
	"MCCAIN":     FieldBaselineMcCain,
	"THIRDPARTY": FieldBaselineThird,
}

// NationalDemographicsRenames maps national_demographics.csv columns to canonical names.
var NationalDemographicsRenames = map[string]string{
	"Asian/Pacific Islander": string(Asian),
	"Black/African American": string(Black),
	"Hispanic/Latino":        string(Hispanic),
	"Other":                  string(Other),
	"College_White":          string(WhiteCollege),
	"Noncollege_White":       string(WhiteNonCollege),
	"Male":                   string(Male),
	"Female":                 string(Female),
}

// ExitPollSubgroups maps the exit-poll subgroup labels to swing groups.
var ExitPollSubgroups = map[Group]string{
	WhiteNonCollege: "White no college degree",
	WhiteCollege:    "White college graduates",
	Black:           "Black",
	Hispanic:        "Hispanic",
	Asian:           "Asian",
	Other:           "Other",
}

// Exit poll columns.
const (
	ExitPollSubgroup  = "Subgroup"
	ExitPollObama     = "Obama"
	ExitPollMcCain    = "McCain"
	ExitPollOther     = "Other"
	ExitPollVoteShare = "% of Total Vote"
	ExitPollTotal     = "Total"
)

func groupNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return names
}

// requiredStateDemographicsFields lists the canonical fields BuildStateRows
// needs from state_demographics.csv.
func requiredStateDemographicsFields() []string {
	return append([]string{FieldState}, groupNames(SwingGroups)...)
}

// requiredStateResultsFields lists the canonical fields BuildStateRows needs
// from results.csv.
func requiredStateResultsFields() []string {
	return []string{FieldState, FieldBaselineObama, FieldBaselineMcCain, FieldBaselineThird, FieldElectoralVotes}
}

// requiredNationalFields lists the canonical fields BuildNationalRow needs.
func requiredNationalFields() []string {
	return append(groupNames(SwingGroups), string(Male), string(Female))
}
