package models

// DashboardStats is the landing-page summary for the whole club.
type DashboardStats struct {
	LastUpdated       int64 `json:"last_updated"`
	LeaguesTotal      int   `json:"leagues_total"`
	SubLeaguesTotal   int   `json:"subleagues_total"`
	RoundsTotal       int   `json:"rounds_total"`
	OpenMatches       int   `json:"open_matches"`
	InProgressMatches int   `json:"in_progress_matches"`
	FinishedMatches   int   `json:"finished_matches"`
	AtRiskPlayers     int   `json:"at_risk_players"`
}

type RegistrationWarningKind string

const (
	WarningUnderMinimum       RegistrationWarningKind = "under_minimum"
	WarningPlayerDeficit      RegistrationWarningKind = "player_deficit"
	WarningRatingDisadvantage RegistrationWarningKind = "rating_disadvantage"
)

type RegistrationWarning struct {
	Kind    RegistrationWarningKind `json:"kind"`
	Message string                  `json:"message"`
}

// RegistrationAssessment is the registration/forfeit-risk signal for one
// round. Warnings are independent and displayed together; MinimumMet is the
// positive indicator shown when no warning applies and the minimum is
// satisfied.
type RegistrationAssessment struct {
	HasWarning bool                  `json:"has_warning"`
	MinimumMet bool                  `json:"minimum_met"`
	Warnings   []RegistrationWarning `json:"warnings,omitempty"`
}

// BoardCohortReport summarises board-level rating differentials for a
// finished or in-progress match.
type BoardCohortReport struct {
	AverageDiff      int           `json:"average_diff"`
	AverageDiffLabel string        `json:"average_diff_label"`
	Ahead            int           `json:"ahead"`
	Even             int           `json:"even"`
	Behind           int           `json:"behind"`
	Cohorts          []BoardCohort `json:"cohorts"`
}

type BoardCohort struct {
	Bucket      int    `json:"bucket"`
	Range       string `json:"range"`
	Boards      int    `json:"boards"`
	AverageDiff int    `json:"average_diff"`
}

// RosterCohortReport compares the two registration rosters of an open match
// per 100-point rating bucket.
type RosterCohortReport struct {
	OurAverage  float64              `json:"our_average"`
	OppAverage  float64              `json:"opp_average"`
	AverageDiff float64              `json:"average_diff"`
	Buckets     []RosterCohortBucket `json:"buckets"`
}

type RosterCohortBucket struct {
	Bucket int    `json:"bucket"`
	Range  string `json:"range"`
	Our    int    `json:"our"`
	Opp    int    `json:"opp"`
	Diff   int    `json:"diff"`
}

// TimeoutAlert is one at-risk player carried into a match card or the
// standalone risk table.
type TimeoutAlert struct {
	Username             string                        `json:"username"`
	DailyRating          *int                          `json:"daily_rating"`
	Rating960            *int                          `json:"rating_960"`
	TimeoutPercent       float64                       `json:"timeout_percent"`
	LeagueTimeouts90Days int                           `json:"league_timeouts_90d"`
	SubLeagueTimeouts    int                           `json:"subleague_timeouts"`
	DailyTimeouts        map[string]DailyTimeoutBucket `json:"daily_timeouts,omitempty"`
	RiskLevel            string                        `json:"risk_level"`
	RiskReason           string                        `json:"risk_reason"`
}

type TimeoutRiskReport struct {
	Players   []TimeoutAlert `json:"players"`
	HighCount int            `json:"high_count"`
}

// ResignationGame is one deduplicated early-resigned game.
type ResignationGame struct {
	GameAPI  string `json:"game_api"`
	BoardAPI string `json:"board_api"`
	Color    string `json:"color"`
	MovesPly int    `json:"moves_ply"`
}

// ResignationSummary is one player's early-resignation count within a query
// scope (single match or sub-league rollup).
type ResignationSummary struct {
	Username string            `json:"username"`
	Count    int               `json:"count"`
	Games    []ResignationGame `json:"games"`
}

// RoundCard is the decorated per-round view used in sub-league listings.
type RoundCard struct {
	Round         Round                   `json:"round"`
	League        string                  `json:"league"`
	SubLeague     string                  `json:"subleague"`
	ResultLabel   string                  `json:"result_label,omitempty"`
	IsWin         bool                    `json:"is_win"`
	Registration  *RegistrationAssessment `json:"registration,omitempty"`
	MatchTimeouts int                     `json:"match_timeouts,omitempty"`
}

// SubLeagueView is the full payload for one sub-league page.
type SubLeagueView struct {
	League      string            `json:"league"`
	SubLeague   string            `json:"subleague"`
	Rounds      []RoundCard       `json:"rounds"`
	Leaderboard []PlayerAggregate `json:"leaderboard"`
	Record      *SubLeagueRecord  `json:"record,omitempty"`
}

// MatchInsights is the modal payload for a single match. Optional sections
// are nil when the underlying dataset is absent or not applicable to the
// match status.
type MatchInsights struct {
	League            string                  `json:"league"`
	SubLeague         string                  `json:"subleague"`
	Round             Round                   `json:"round"`
	ResultLabel       string                  `json:"result_label,omitempty"`
	IsWin             bool                    `json:"is_win"`
	Registration      *RegistrationAssessment `json:"registration,omitempty"`
	BoardCohorts      *BoardCohortReport      `json:"board_cohorts,omitempty"`
	RosterCohorts     *RosterCohortReport     `json:"roster_cohorts,omitempty"`
	TimeoutAlerts     []TimeoutAlert          `json:"timeout_alerts,omitempty"`
	TimeoutHighCount  int                     `json:"timeout_high_count,omitempty"`
	MatchTimeouts     int                     `json:"match_timeouts,omitempty"`
	EarlyResignations []ResignationSummary    `json:"early_resignations,omitempty"`
}
