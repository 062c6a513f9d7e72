package models

type MatchStatus string

const (
	StatusOpen       MatchStatus = "open"
	StatusInProgress MatchStatus = "in_progress"
	StatusFinished   MatchStatus = "finished"
)

// LeagueData is the top-level document produced by the data pipeline.
type LeagueData struct {
	LastUpdated       int64             `json:"lastUpdated"`
	Leagues           map[string]League `json:"leagues"`
	GlobalLeaderboard []PlayerAggregate `json:"globalLeaderboard"`
}

type League struct {
	SubLeagues map[string]SubLeague `json:"subLeagues"`
}

type SubLeague struct {
	Rounds      []Round           `json:"rounds"`
	Leaderboard []PlayerAggregate `json:"leaderboard"`
	Record      *SubLeagueRecord  `json:"record,omitempty"`
}

type SubLeagueRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Round is one scheduled team contest within a sub-league.
// Score fields are only meaningful when Status != StatusOpen.
type Round struct {
	Round             string                 `json:"round"`
	Status            MatchStatus            `json:"status"`
	MatchID           string                 `json:"matchId"`
	MatchURL          string                 `json:"matchUrl"`
	MatchWebURL       string                 `json:"matchWebUrl"`
	Name              string                 `json:"name"`
	StartTime         *int64                 `json:"startTime,omitempty"`
	EndTime           *int64                 `json:"endTime,omitempty"`
	Boards            int                    `json:"boards"`
	MatchResult       *MatchResult           `json:"matchResult,omitempty"`
	PlayerStats       map[string]PlayerStats `json:"playerStats,omitempty"`
	MinTeamPlayers    *int                   `json:"minTeamPlayers,omitempty"`
	BoardsData        []Board                `json:"boardsData,omitempty"`
	RegistrationData  *RegistrationData      `json:"registrationData,omitempty"`
	RegisteredPlayers *RegisteredPlayers     `json:"registeredPlayers,omitempty"`
}

type MatchResult struct {
	OurScore      float64 `json:"ourScore"`
	OpponentScore float64 `json:"opponentScore"`
	Result        string  `json:"result"`
}

type PlayerStats struct {
	Games    int `json:"games"`
	Wins     int `json:"wins"`
	Draws    int `json:"draws"`
	Losses   int `json:"losses"`
	Timeouts int `json:"timeouts,omitempty"`
}

// Board carries per-board pairing data. RatingDiff is nil when either
// side's rating was unavailable at fetch time.
type Board struct {
	BoardNumber int    `json:"boardNumber"`
	OurPlayer   string `json:"ourPlayer"`
	OurRating   *int   `json:"ourRating"`
	OppPlayer   string `json:"oppPlayer"`
	OppRating   *int   `json:"oppRating"`
	RatingDiff  *int   `json:"ratingDiff"`
}

// RegistrationData is the roster-type registration payload present on open
// matches before board assignments exist.
type RegistrationData struct {
	Type      string        `json:"type"`
	OurRoster []RosterEntry `json:"ourRoster"`
	OppRoster []RosterEntry `json:"oppRoster"`
}

type RosterEntry struct {
	Username string `json:"username"`
	Rating   *int   `json:"rating"`
}

type RegisteredPlayers struct {
	Our      int `json:"our"`
	Opponent int `json:"opponent"`
}

// PlayerAggregate is one leaderboard row. Points = wins + 0.5*draws,
// computed upstream by the pipeline.
type PlayerAggregate struct {
	Username string  `json:"username"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	Draws    int     `json:"draws"`
	Losses   int     `json:"losses"`
	Points   float64 `json:"points"`
}
