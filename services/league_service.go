package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/chessleaguetracker/leagueboard/models"
)

type LeagueService interface {
	Summary() (*models.DashboardStats, error)
	LeagueNames() ([]string, error)
	SubLeagueNames(league string) ([]string, error)
	SubLeagueView(league, subLeague string) (*models.SubLeagueView, error)
	MatchInsights(matchID string) (*models.MatchInsights, error)
	GlobalLeaderboard() ([]models.PlayerAggregate, error)
	SearchPlayers(query string) ([]models.PlayerAggregate, error)
	TimeoutReport() (*models.TimeoutRiskReport, error)
	SubLeagueResignations(league, subLeague string) ([]models.ResignationSummary, error)
	AlertDigest() (string, error)
}

type leagueService struct {
	store        *SnapshotStore
	registration RegistrationService
	cohorts      CohortService
	timeouts     TimeoutService
	resignations ResignationService

	// Derivations are pure functions of the snapshot, so the full-pass
	// aggregates are memoized per snapshot version.
	memoMu        sync.Mutex
	memoVersion   uint64
	memoSummary   *models.DashboardStats
	memoRiskTable *models.TimeoutRiskReport
}

func NewLeagueService(store *SnapshotStore, registration RegistrationService, cohorts CohortService, timeouts TimeoutService, resignations ResignationService) LeagueService {
	return &leagueService{
		store:        store,
		registration: registration,
		cohorts:      cohorts,
		timeouts:     timeouts,
		resignations: resignations,
	}
}

// resultLabel maps a raw pipeline result string onto its display label.
// Unknown values pass through unchanged.
func resultLabel(result string) string {
	switch strings.ToLower(result) {
	case "win":
		return "Won"
	case "lose", "loss":
		return "Lost"
	case "draw", "agreed":
		return "Draw"
	case "forfeit":
		return "Forfeited"
	case "double forfeit":
		return "Double Forfeit"
	case "win by forfeit":
		return "Won by Forfeit"
	default:
		return result
	}
}

func isWin(result string) bool {
	switch strings.ToLower(result) {
	case "win", "win by forfeit":
		return true
	default:
		return false
	}
}

// matchURLID extracts the trailing path segment of a match API URL, which
// the pipeline uses as the match identifier.
func matchURLID(matchURL string) string {
	trimmed := strings.TrimSuffix(matchURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *leagueService) Summary() (*models.DashboardStats, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	if s.memoVersion == snapshot.Version && s.memoSummary != nil {
		return s.memoSummary, nil
	}

	stats := &models.DashboardStats{LastUpdated: snapshot.League.LastUpdated}
	stats.LeaguesTotal = len(snapshot.League.Leagues)
	for _, league := range snapshot.League.Leagues {
		stats.SubLeaguesTotal += len(league.SubLeagues)
		for _, subLeague := range league.SubLeagues {
			stats.RoundsTotal += len(subLeague.Rounds)
			for _, round := range subLeague.Rounds {
				switch round.Status {
				case models.StatusOpen:
					stats.OpenMatches++
				case models.StatusInProgress:
					stats.InProgressMatches++
				case models.StatusFinished:
					stats.FinishedMatches++
				}
			}
		}
	}
	stats.AtRiskPlayers = len(s.riskTableLocked(snapshot).Players)

	if s.memoVersion != snapshot.Version {
		s.memoVersion = snapshot.Version
		s.memoRiskTable = nil
	}
	s.memoSummary = stats
	return stats, nil
}

func (s *leagueService) LeagueNames() ([]string, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return sortedKeys(snapshot.League.Leagues), nil
}

func (s *leagueService) SubLeagueNames(league string) ([]string, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	leagueData, ok := snapshot.League.Leagues[league]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	return sortedKeys(leagueData.SubLeagues), nil
}

func (s *leagueService) SubLeagueView(league, subLeague string) (*models.SubLeagueView, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	leagueData, ok := snapshot.League.Leagues[league]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	subLeagueData, ok := leagueData.SubLeagues[subLeague]
	if !ok {
		return nil, ErrSubLeagueNotFound
	}

	view := &models.SubLeagueView{
		League:      league,
		SubLeague:   subLeague,
		Rounds:      make([]models.RoundCard, 0, len(subLeagueData.Rounds)),
		Leaderboard: subLeagueData.Leaderboard,
		Record:      subLeagueData.Record,
	}
	for _, round := range subLeagueData.Rounds {
		card := models.RoundCard{
			Round:     round,
			League:    league,
			SubLeague: subLeague,
		}
		if round.MatchResult != nil {
			card.ResultLabel = resultLabel(round.MatchResult.Result)
			card.IsWin = isWin(round.MatchResult.Result)
		}
		if round.Status == models.StatusOpen {
			assessment := s.registration.Evaluate(&round)
			card.Registration = &assessment
		} else {
			card.MatchTimeouts = s.timeouts.MatchTimeouts(&round)
		}
		view.Rounds = append(view.Rounds, card)
	}
	return view, nil
}

func (s *leagueService) MatchInsights(matchID string) (*models.MatchInsights, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	for leagueName, league := range snapshot.League.Leagues {
		for subLeagueName, subLeague := range league.SubLeagues {
			for i := range subLeague.Rounds {
				round := subLeague.Rounds[i]
				if round.MatchID != matchID && matchURLID(round.MatchURL) != matchID {
					continue
				}
				return s.buildInsights(snapshot, leagueName, subLeagueName, &round), nil
			}
		}
	}
	return nil, ErrMatchNotFound
}

func (s *leagueService) buildInsights(snapshot *Snapshot, league, subLeague string, round *models.Round) *models.MatchInsights {
	insights := &models.MatchInsights{
		League:    league,
		SubLeague: subLeague,
		Round:     *round,
	}
	if round.MatchResult != nil {
		insights.ResultLabel = resultLabel(round.MatchResult.Result)
		insights.IsWin = isWin(round.MatchResult.Result)
	}

	if round.Status == models.StatusOpen {
		assessment := s.registration.Evaluate(round)
		insights.Registration = &assessment
		if round.RegistrationData != nil {
			insights.RosterCohorts = s.cohorts.RosterReport(round.RegistrationData)
			insights.TimeoutAlerts, insights.TimeoutHighCount = s.timeouts.MatchAlerts(snapshot.Timeouts, league, subLeague, round.RegistrationData.OurRoster)
		}
	} else {
		insights.BoardCohorts = s.cohorts.BoardReport(round.BoardsData)
		insights.MatchTimeouts = s.timeouts.MatchTimeouts(round)
	}

	if summaries := s.resignations.MatchSummaries(snapshot.ResignationIndex, round.MatchURL); len(summaries) > 0 {
		insights.EarlyResignations = summaries
	}
	return insights
}

func (s *leagueService) GlobalLeaderboard() ([]models.PlayerAggregate, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return snapshot.League.GlobalLeaderboard, nil
}

func (s *leagueService) SearchPlayers(query string) ([]models.PlayerAggregate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	byUsername := make(map[string]models.PlayerAggregate, len(snapshot.League.GlobalLeaderboard))
	names := make([]string, 0, len(snapshot.League.GlobalLeaderboard))
	for _, row := range snapshot.League.GlobalLeaderboard {
		byUsername[row.Username] = row
		names = append(names, row.Username)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	matches := make([]models.PlayerAggregate, 0, len(ranks))
	for _, rank := range ranks {
		matches = append(matches, byUsername[rank.Target])
	}
	return matches, nil
}

func (s *leagueService) TimeoutReport() (*models.TimeoutRiskReport, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	return s.riskTableLocked(snapshot), nil
}

// riskTableLocked computes (or returns the memoized) club-wide risk table.
// Caller holds memoMu.
func (s *leagueService) riskTableLocked(snapshot *Snapshot) *models.TimeoutRiskReport {
	if s.memoVersion == snapshot.Version && s.memoRiskTable != nil {
		return s.memoRiskTable
	}

	var rosters []RosterScope
	for leagueName, league := range snapshot.League.Leagues {
		for subLeagueName, subLeague := range league.SubLeagues {
			for _, round := range subLeague.Rounds {
				if round.Status != models.StatusOpen || round.RegistrationData == nil {
					continue
				}
				rosters = append(rosters, RosterScope{
					League:    leagueName,
					SubLeague: subLeagueName,
					Roster:    round.RegistrationData.OurRoster,
				})
			}
		}
	}

	report := s.timeouts.Report(snapshot.Timeouts, "", rosters)
	if s.memoVersion != snapshot.Version {
		s.memoVersion = snapshot.Version
		s.memoSummary = nil
	}
	s.memoRiskTable = report
	return report
}

func (s *leagueService) SubLeagueResignations(league, subLeague string) ([]models.ResignationSummary, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	leagueData, ok := snapshot.League.Leagues[league]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	subLeagueData, ok := leagueData.SubLeagues[subLeague]
	if !ok {
		return nil, ErrSubLeagueNotFound
	}

	matchURLs := make([]string, 0, len(subLeagueData.Rounds))
	for _, round := range subLeagueData.Rounds {
		matchURLs = append(matchURLs, round.MatchURL)
	}
	return s.resignations.RollupSummaries(snapshot.ResignationIndex, matchURLs), nil
}

// AlertDigest renders the daily notification text. Returns an empty string
// when there is nothing worth alerting on.
func (s *leagueService) AlertDigest() (string, error) {
	snapshot, err := s.store.Current()
	if err != nil {
		return "", err
	}

	s.memoMu.Lock()
	riskTable := s.riskTableLocked(snapshot)
	s.memoMu.Unlock()

	var highRisk []models.TimeoutAlert
	for _, alert := range riskTable.Players {
		if alert.RiskLevel == string(models.RiskHigh) {
			highRisk = append(highRisk, alert)
		}
	}

	type flaggedRound struct {
		league    string
		subLeague string
		name      string
		warnings  []models.RegistrationWarning
	}
	var flagged []flaggedRound
	for _, leagueName := range sortedKeys(snapshot.League.Leagues) {
		league := snapshot.League.Leagues[leagueName]
		for _, subLeagueName := range sortedKeys(league.SubLeagues) {
			for _, round := range league.SubLeagues[subLeagueName].Rounds {
				if round.Status != models.StatusOpen {
					continue
				}
				assessment := s.registration.Evaluate(&round)
				if assessment.HasWarning {
					flagged = append(flagged, flaggedRound{
						league:    leagueName,
						subLeague: subLeagueName,
						name:      round.Name,
						warnings:  assessment.Warnings,
					})
				}
			}
		}
	}

	if len(highRisk) == 0 && len(flagged) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("📋 League Alert Digest\n")
	if len(flagged) > 0 {
		b.WriteString("\n⚠️ Registration warnings:\n")
		for _, round := range flagged {
			fmt.Fprintf(&b, "• %s / %s: %s\n", round.league, round.subLeague, round.name)
			for _, warning := range round.warnings {
				fmt.Fprintf(&b, "    - %s\n", warning.Message)
			}
		}
	}
	if len(highRisk) > 0 {
		b.WriteString("\n⏰ High timeout risk:\n")
		for _, alert := range highRisk {
			fmt.Fprintf(&b, "• %s: %.1f%% (%s)\n", alert.Username, alert.TimeoutPercent, alert.RiskReason)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
