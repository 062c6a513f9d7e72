package services

import (
	"errors"
	"testing"

	"github.com/chessleaguetracker/leagueboard/models"
)

func leagueFixture() *models.LeagueData {
	return &models.LeagueData{
		LastUpdated: 1755950400,
		Leagues: map[string]models.League{
			"Daily League": {
				SubLeagues: map[string]models.SubLeague{
					"Division A": {
						Rounds: []models.Round{
							{
								Round:       "5",
								Status:      models.StatusFinished,
								MatchID:     "101",
								MatchURL:    "https://api.example.com/match/101",
								MatchWebURL: "https://www.example.com/match/101",
								Name:        "Our Club vs Rivals",
								MatchResult: &models.MatchResult{OurScore: 4, OpponentScore: 0, Result: "win by forfeit"},
								PlayerStats: map[string]models.PlayerStats{
									"quickquitter": {Games: 2, Losses: 2, Timeouts: 2},
									"steady":       {Games: 2, Wins: 2},
								},
								BoardsData: []models.Board{
									{BoardNumber: 1, OurRating: intPtr(1500), OppRating: intPtr(1400), RatingDiff: intPtr(100)},
								},
							},
							{
								Round:             "6",
								Status:            models.StatusOpen,
								MatchID:           "201",
								MatchURL:          "https://api.example.com/match/201",
								Name:              "Our Club vs Underdogs",
								MinTeamPlayers:    intPtr(5),
								RegisteredPlayers: &models.RegisteredPlayers{Our: 3, Opponent: 3},
								RegistrationData: &models.RegistrationData{
									Type:      "roster",
									OurRoster: []models.RosterEntry{{Username: "steady", Rating: intPtr(1500)}, {Username: "quickquitter", Rating: intPtr(1300)}},
									OppRoster: []models.RosterEntry{{Username: "villain", Rating: intPtr(1450)}},
								},
							},
						},
						Leaderboard: []models.PlayerAggregate{
							{Username: "steady", Games: 10, Wins: 8, Points: 8},
						},
						Record: &models.SubLeagueRecord{Wins: 3, Losses: 1, Draws: 1},
					},
				},
			},
		},
		GlobalLeaderboard: []models.PlayerAggregate{
			{Username: "magnuscarlsen", Games: 20, Wins: 18, Points: 18.5},
			{Username: "steady", Games: 10, Wins: 8, Points: 8},
			{Username: "quickquitter", Games: 8, Wins: 1, Points: 1.5},
		},
	}
}

func timeoutFixture() *models.TimeoutData {
	return &models.TimeoutData{
		Players: map[string]models.TimeoutRiskRecord{
			"quickquitter": {
				TimeoutPercent:            floatPtr(40),
				RiskFlag:                  true,
				RiskLevel:                 strPtr("HIGH"),
				RiskReason:                strPtr("40% timeout rate"),
				TotalLeagueTimeouts90Days: 6,
				SubLeagueTimeouts:         map[string]map[string]int{"Daily League": {"Division A": 3}},
			},
		},
	}
}

// newTestLeagueService publishes a snapshot built from the fixtures and
// returns a service reading from it.
func newTestLeagueService(t *testing.T, league *models.LeagueData, timeouts *models.TimeoutData, resignations *models.EarlyResignationData) LeagueService {
	t.Helper()

	resignationService := NewResignationService()
	store := NewSnapshotStore()
	store.set(&Snapshot{
		League:           league,
		Timeouts:         timeouts,
		Resignations:     resignations,
		ResignationIndex: resignationService.BuildIndex(resignations),
	})

	return NewLeagueService(
		store,
		NewRegistrationService(DefaultRatingGapThreshold),
		NewCohortService(),
		NewTimeoutService(DefaultHighTimeoutPercent),
		resignationService,
	)
}

func TestResultLabel(t *testing.T) {
	cases := []struct {
		result string
		label  string
		win    bool
	}{
		{"win", "Won", true},
		{"lose", "Lost", false},
		{"draw", "Draw", false},
		{"agreed", "Draw", false},
		{"forfeit", "Forfeited", false},
		{"double forfeit", "Double Forfeit", false},
		{"win by forfeit", "Won by Forfeit", true},
		{"something else", "something else", false},
	}
	for _, c := range cases {
		if got := resultLabel(c.result); got != c.label {
			t.Errorf("resultLabel(%q): want %q, got %q", c.result, c.label, got)
		}
		if got := isWin(c.result); got != c.win {
			t.Errorf("isWin(%q): want %v, got %v", c.result, c.win, got)
		}
	}
}

func TestMatchURLID(t *testing.T) {
	if got := matchURLID("https://api.example.com/match/101"); got != "101" {
		t.Errorf("want 101, got %s", got)
	}
	if got := matchURLID("https://api.example.com/match/101/"); got != "101" {
		t.Errorf("trailing slash: want 101, got %s", got)
	}
}

func TestSummary(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), timeoutFixture(), resignationFixture())

	summary, err := svc.Summary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.LeaguesTotal != 1 || summary.SubLeaguesTotal != 1 || summary.RoundsTotal != 2 {
		t.Errorf("totals: got %d/%d/%d", summary.LeaguesTotal, summary.SubLeaguesTotal, summary.RoundsTotal)
	}
	if summary.OpenMatches != 1 || summary.FinishedMatches != 1 || summary.InProgressMatches != 0 {
		t.Errorf("status counts: got open=%d in_progress=%d finished=%d", summary.OpenMatches, summary.InProgressMatches, summary.FinishedMatches)
	}
	if summary.AtRiskPlayers != 1 {
		t.Errorf("at-risk players: want 1, got %d", summary.AtRiskPlayers)
	}
	if summary.LastUpdated != 1755950400 {
		t.Errorf("last updated: got %d", summary.LastUpdated)
	}
}

func TestSummary_DataUnavailable(t *testing.T) {
	store := NewSnapshotStore()
	svc := NewLeagueService(store, NewRegistrationService(DefaultRatingGapThreshold), NewCohortService(), NewTimeoutService(DefaultHighTimeoutPercent), NewResignationService())

	if _, err := svc.Summary(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("want ErrDataUnavailable, got %v", err)
	}
}

func TestSubLeagueView(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), timeoutFixture(), nil)

	view, err := svc.SubLeagueView("Daily League", "Division A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Rounds) != 2 {
		t.Fatalf("expected 2 round cards, got %d", len(view.Rounds))
	}

	finished := view.Rounds[0]
	if finished.ResultLabel != "Won by Forfeit" || !finished.IsWin {
		t.Errorf("finished card: got label %q win %v", finished.ResultLabel, finished.IsWin)
	}
	if finished.MatchTimeouts != 2 {
		t.Errorf("finished card timeouts: want 2, got %d", finished.MatchTimeouts)
	}
	if finished.Registration != nil {
		t.Error("finished card must not carry a registration assessment")
	}

	open := view.Rounds[1]
	if open.Registration == nil || !open.Registration.HasWarning {
		t.Errorf("open card must carry the registration warning, got %+v", open.Registration)
	}
	if view.Record == nil || view.Record.Wins != 3 {
		t.Errorf("record must pass through, got %+v", view.Record)
	}
}

func TestSubLeagueView_NotFound(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), nil, nil)

	if _, err := svc.SubLeagueView("No Such League", "Division A"); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("want ErrLeagueNotFound, got %v", err)
	}
	if _, err := svc.SubLeagueView("Daily League", "Division Z"); !errors.Is(err, ErrSubLeagueNotFound) {
		t.Errorf("want ErrSubLeagueNotFound, got %v", err)
	}
}

func TestMatchInsights_OpenMatch(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), timeoutFixture(), nil)

	insights, err := svc.MatchInsights("201")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insights.Registration == nil || !insights.Registration.HasWarning {
		t.Errorf("open match must carry a registration assessment, got %+v", insights.Registration)
	}
	if insights.RosterCohorts == nil {
		t.Error("open match with roster data must carry roster cohorts")
	}
	if insights.BoardCohorts != nil {
		t.Error("open match must not carry board cohorts")
	}
	if len(insights.TimeoutAlerts) != 1 || insights.TimeoutAlerts[0].Username != "quickquitter" {
		t.Errorf("expected one timeout alert for quickquitter, got %+v", insights.TimeoutAlerts)
	}
	if insights.TimeoutAlerts[0].SubLeagueTimeouts != 3 {
		t.Errorf("alert sub-league count: want 3, got %d", insights.TimeoutAlerts[0].SubLeagueTimeouts)
	}
	// quickquitter's 40% exceeds the 25% threshold.
	if insights.TimeoutHighCount != 1 {
		t.Errorf("timeout high count: want 1, got %d", insights.TimeoutHighCount)
	}
}

func TestMatchInsights_FinishedMatch(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), timeoutFixture(), resignationFixture())

	insights, err := svc.MatchInsights("101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insights.ResultLabel != "Won by Forfeit" || !insights.IsWin {
		t.Errorf("got label %q win %v", insights.ResultLabel, insights.IsWin)
	}
	if insights.BoardCohorts == nil {
		t.Error("finished match with boards must carry board cohorts")
	}
	if insights.MatchTimeouts != 2 {
		t.Errorf("match timeouts: want 2, got %d", insights.MatchTimeouts)
	}
	if len(insights.EarlyResignations) == 0 {
		t.Error("expected early resignations for match 101")
	}
}

func TestMatchInsights_NotFound(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), nil, nil)

	if _, err := svc.MatchInsights("999"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("want ErrMatchNotFound, got %v", err)
	}
}

func TestSearchPlayers(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), nil, nil)

	if _, err := svc.SearchPlayers("   "); !errors.Is(err, ErrEmptySearchQuery) {
		t.Errorf("want ErrEmptySearchQuery, got %v", err)
	}

	matches, err := svc.SearchPlayers("magnus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) == 0 || matches[0].Username != "magnuscarlsen" {
		t.Errorf("expected magnuscarlsen first, got %+v", matches)
	}
}

func TestSubLeagueResignations(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), nil, resignationFixture())

	summaries, err := svc.SubLeagueResignations("Daily League", "Division A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only match 101 belongs to the sub-league's rounds.
	if len(summaries) != 2 {
		t.Fatalf("expected 2 players, got %d", len(summaries))
	}
	if summaries[0].Username != "quickquitter" || summaries[0].Count != 2 {
		t.Errorf("want quickquitter/2 first, got %s/%d", summaries[0].Username, summaries[0].Count)
	}
}

func TestLeagueAndSubLeagueNames(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), nil, nil)

	leagues, err := svc.LeagueNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leagues) != 1 || leagues[0] != "Daily League" {
		t.Errorf("got %v", leagues)
	}

	subLeagues, err := svc.SubLeagueNames("Daily League")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subLeagues) != 1 || subLeagues[0] != "Division A" {
		t.Errorf("got %v", subLeagues)
	}

	if _, err := svc.SubLeagueNames("Nope"); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("want ErrLeagueNotFound, got %v", err)
	}
}

func TestAlertDigest(t *testing.T) {
	svc := newTestLeagueService(t, leagueFixture(), timeoutFixture(), nil)

	digest, err := svc.AlertDigest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest == "" {
		t.Fatal("expected a non-empty digest: fixture has a registration warning and a high-risk player")
	}
}
