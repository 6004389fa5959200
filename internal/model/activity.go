// Package model defines the records produced by the ECA parsing pipeline.
package model

// Missing is the explicit missing-value marker used by the source exports.
// It is distinct from an empty cell.
const Missing = "#N/A"

// Category is the activity category code.
type Category string

const (
	CategoryClubs       Category = "clubs"
	CategorySports      Category = "sports"
	CategoryFootball    Category = "football"
	CategoryBasketball  Category = "basketball"
	CategorySwimming    Category = "swimming"
	CategoryTennis      Category = "tennis"
	CategoryMartialArts Category = "martial_arts"
	CategoryBoosters    Category = "boosters"
	CategoryVAPP        Category = "vapp"
	CategoryAEN         Category = "aen"
	CategoryEAL         Category = "eal"
	CategoryAcademies   Category = "academies"
	CategoryDance       Category = "dance"
	CategoryLAMDA       Category = "lamda"
	CategoryMusic       Category = "music"
	CategoryArt         Category = "art"
	CategoryScience     Category = "science"
	CategoryCoding      Category = "coding"
	CategoryRobotics    Category = "robotics"
	CategoryChess       Category = "chess"
	CategoryLego        Category = "lego"
	CategoryReading     Category = "reading"
	CategoryThai        Category = "thai"
	CategoryMandarin    Category = "mandarin"
	CategoryFrench      Category = "french"
	CategoryRussian     Category = "russian"
	CategoryFoundation  Category = "foundation"
	CategoryOther       Category = "other"
)

// Level is the school phase an activity targets.
type Level string

const (
	LevelFoundation Level = "foundation"
	LevelPrimary    Level = "primary"
	LevelSecondary  Level = "secondary"
	LevelMixed      Level = "mixed"
	LevelUnknown    Level = "unknown"
)

// Provider identifies who delivers an activity.
type Provider string

const (
	ProviderHeadStart         Provider = "headstart"
	ProviderOutside           Provider = "outside_provider"
	ProviderCyberOne          Provider = "cyberone"
	ProviderDomeTennis        Provider = "dome_tennis"
	ProviderJudoSchool        Provider = "judo_school"
	ProviderBenRoyleBJJ       Provider = "ben_royle_bjj"
	ProviderChessClub         Provider = "chess_club"
	ProviderRushSports        Provider = "rush_sports"
	ProviderFormulaFun        Provider = "formula_fun"
	ProviderPhuketTableTennis Provider = "phuket_table_tennis"
	ProviderMaximise          Provider = "maximise_child_dev"
)

// YearGroups describes which school years an activity targets.
// Preschool is -1, Early Years and Reception are 0, numbered years are positive.
type YearGroups struct {
	Min    *int     `json:"min" yaml:"min" dynamodbav:"min,omitempty"`
	Max    *int     `json:"max" yaml:"max" dynamodbav:"max,omitempty"`
	Labels []string `json:"labels" yaml:"labels" dynamodbav:"labels"`
	Raw    string   `json:"raw" yaml:"raw" dynamodbav:"raw"`
}

// TimeRange is a parsed "HH:MM - HH:MM" window. Raw keeps the source text.
type TimeRange struct {
	Start *string `json:"start" yaml:"start" dynamodbav:"start,omitempty"`
	End   *string `json:"end" yaml:"end" dynamodbav:"end,omitempty"`
	Raw   string  `json:"raw" yaml:"raw" dynamodbav:"raw"`
}

// Schedule holds the weekdays (canonical order) and time window.
type Schedule struct {
	Days []string  `json:"days" yaml:"days" dynamodbav:"days"`
	Time TimeRange `json:"time" yaml:"time" dynamodbav:"time"`
}

// Capacity is the min-max enrolment range. Both bounds are set or neither is.
type Capacity struct {
	Min *int `json:"min" yaml:"min" dynamodbav:"min,omitempty"`
	Max *int `json:"max" yaml:"max" dynamodbav:"max,omitempty"`
}

// Activity is one parsed and classified extracurricular offering.
type Activity struct {
	ID           string     `json:"id" yaml:"id" dynamodbav:"id"`
	Name         string     `json:"name" yaml:"name" dynamodbav:"name"`
	NameOriginal string     `json:"nameOriginal" yaml:"nameOriginal" dynamodbav:"nameOriginal"`
	Category     Category   `json:"category" yaml:"category" dynamodbav:"category"`
	Level        Level      `json:"level" yaml:"level" dynamodbav:"level"`
	Fee          int        `json:"fee" yaml:"fee" dynamodbav:"fee"`
	IsFree       bool       `json:"isFree" yaml:"isFree" dynamodbav:"isFree"`
	YearGroups   YearGroups `json:"yearGroups" yaml:"yearGroups" dynamodbav:"yearGroups"`
	Schedule     Schedule   `json:"schedule" yaml:"schedule" dynamodbav:"schedule"`
	Location     string     `json:"location" yaml:"location" dynamodbav:"location"`
	Teachers     []string   `json:"teachers" yaml:"teachers" dynamodbav:"teachers"`
	Capacity     Capacity   `json:"capacity" yaml:"capacity" dynamodbav:"capacity"`
	InviteOnly   bool       `json:"inviteOnly" yaml:"inviteOnly" dynamodbav:"inviteOnly"`
	Provider     Provider   `json:"provider" yaml:"provider" dynamodbav:"provider"`
	Section      string     `json:"section" yaml:"section" dynamodbav:"section"`
}

// IsMissing reports whether a cell is empty or carries the missing marker.
func IsMissing(s string) bool {
	return s == "" || s == Missing
}
