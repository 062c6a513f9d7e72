package services

import (
	"sort"
	"strings"

	"github.com/chessleaguetracker/leagueboard/models"
)

// DefaultHighTimeoutPercent is the timeout percentage above which a player
// counts toward the "high" tally. Policy value, overridable via
// configuration.
const DefaultHighTimeoutPercent = 25.0

// severityRank orders risk levels for sorting. Unknown or missing levels
// rank after LOW.
func severityRank(level string) int {
	switch models.RiskLevel(level) {
	case models.RiskHigh:
		return 0
	case models.RiskMedium:
		return 1
	case models.RiskLow:
		return 2
	default:
		return 3
	}
}

type TimeoutService interface {
	// MatchAlerts builds the alert list for one round's roster, plus the
	// count of players over the high percentage threshold. Order is by
	// severity only, stable within a level.
	MatchAlerts(data *models.TimeoutData, league, subLeague string, roster []models.RosterEntry) ([]models.TimeoutAlert, int)

	// Report builds the standalone club-wide risk table from every roster
	// passed in. Ties within a severity level break on username.
	Report(data *models.TimeoutData, league string, rosters []RosterScope) *models.TimeoutRiskReport

	// MatchTimeouts sums the per-player timeout counters of a finished or
	// in-progress round.
	MatchTimeouts(round *models.Round) int
}

// RosterScope pairs a roster with the sub-league it was registered for, so
// the nested per-sub-league timeout counts can be resolved.
type RosterScope struct {
	League    string
	SubLeague string
	Roster    []models.RosterEntry
}

type timeoutService struct {
	highPercent float64
}

func NewTimeoutService(highPercent float64) TimeoutService {
	return &timeoutService{highPercent: highPercent}
}

// alertFor resolves one roster entry against the dataset. Returns false when
// the player has no record or the record is not flagged.
func alertFor(data *models.TimeoutData, league, subLeague, username string) (models.TimeoutAlert, bool) {
	if data == nil {
		return models.TimeoutAlert{}, false
	}
	record, ok := data.Players[strings.ToLower(username)]
	if !ok || !record.RiskFlag {
		return models.TimeoutAlert{}, false
	}

	alert := models.TimeoutAlert{
		Username:             strings.ToLower(username),
		DailyRating:          record.DailyRating,
		Rating960:            record.Rating960,
		LeagueTimeouts90Days: record.TotalLeagueTimeouts90Days,
		DailyTimeouts:        record.DailyTimeouts,
	}
	if record.TimeoutPercent != nil {
		alert.TimeoutPercent = *record.TimeoutPercent
	}
	if record.RiskLevel != nil {
		alert.RiskLevel = *record.RiskLevel
	}
	if record.RiskReason != nil {
		alert.RiskReason = *record.RiskReason
	}
	if byLeague, ok := record.SubLeagueTimeouts[league]; ok {
		alert.SubLeagueTimeouts = byLeague[subLeague]
	}
	return alert, true
}

func (s *timeoutService) MatchAlerts(data *models.TimeoutData, league, subLeague string, roster []models.RosterEntry) ([]models.TimeoutAlert, int) {
	if data == nil || len(roster) == 0 {
		return nil, 0
	}

	seen := make(map[string]bool, len(roster))
	alerts := make([]models.TimeoutAlert, 0, len(roster))
	highCount := 0
	for _, entry := range roster {
		key := strings.ToLower(entry.Username)
		if seen[key] {
			continue
		}
		seen[key] = true
		if alert, ok := alertFor(data, league, subLeague, entry.Username); ok {
			alerts = append(alerts, alert)
			if alert.TimeoutPercent > s.highPercent {
				highCount++
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].RiskLevel) < severityRank(alerts[j].RiskLevel)
	})
	if len(alerts) == 0 {
		return nil, 0
	}
	return alerts, highCount
}

func (s *timeoutService) Report(data *models.TimeoutData, league string, rosters []RosterScope) *models.TimeoutRiskReport {
	report := &models.TimeoutRiskReport{Players: []models.TimeoutAlert{}}
	if data == nil {
		return report
	}

	seen := make(map[string]bool)
	for _, scope := range rosters {
		scopeLeague := scope.League
		if scopeLeague == "" {
			scopeLeague = league
		}
		for _, entry := range scope.Roster {
			key := strings.ToLower(entry.Username)
			if seen[key] {
				continue
			}
			seen[key] = true
			if alert, ok := alertFor(data, scopeLeague, scope.SubLeague, entry.Username); ok {
				report.Players = append(report.Players, alert)
				if alert.TimeoutPercent > s.highPercent {
					report.HighCount++
				}
			}
		}
	}

	sort.Slice(report.Players, func(i, j int) bool {
		ri, rj := severityRank(report.Players[i].RiskLevel), severityRank(report.Players[j].RiskLevel)
		if ri != rj {
			return ri < rj
		}
		return report.Players[i].Username < report.Players[j].Username
	})
	return report
}

func (s *timeoutService) MatchTimeouts(round *models.Round) int {
	if round == nil || round.Status == models.StatusOpen {
		return 0
	}
	total := 0
	for _, stats := range round.PlayerStats {
		total += stats.Timeouts
	}
	return total
}
