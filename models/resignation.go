package models

// EarlyResignationData is the secondary document listing games that ended
// by resignation within the first few plies. May be absent entirely.
type EarlyResignationData struct {
	LastUpdated string                       `json:"lastUpdated"`
	Leagues     map[string]ResignationLeague `json:"leagues"`
}

type ResignationLeague struct {
	SubLeagues map[string]ResignationSubLeague `json:"subLeagues"`
}

type ResignationSubLeague struct {
	Matches []ResignationMatch `json:"matches"`
}

type ResignationMatch struct {
	MatchURL    string             `json:"matchUrl"`
	MatchWebURL string             `json:"matchWebUrl"`
	Players     []ResignationEntry `json:"players"`
}

type ResignationEntry struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	MovesPly int    `json:"moves_ply"`
	GameAPI  string `json:"game_api"`
	BoardAPI string `json:"board_api"`
}
