package services

import (
	"reflect"
	"testing"

	"github.com/chessleaguetracker/leagueboard/models"
)

func resignationFixture() *models.EarlyResignationData {
	return &models.EarlyResignationData{
		LastUpdated: "2026-08-20T12:00:00Z",
		Leagues: map[string]models.ResignationLeague{
			"Daily League": {
				SubLeagues: map[string]models.ResignationSubLeague{
					"Division A": {
						Matches: []models.ResignationMatch{
							{
								MatchURL:    "https://api.example.com/match/101",
								MatchWebURL: "https://www.example.com/match/101",
								Players: []models.ResignationEntry{
									{Username: "QuickQuitter", Color: "white", MovesPly: 2, GameAPI: "game-1", BoardAPI: "board-1"},
									{Username: "quickquitter", Color: "black", MovesPly: 1, GameAPI: "game-2", BoardAPI: "board-2"},
									{Username: "onetime", Color: "white", MovesPly: 2, GameAPI: "game-3", BoardAPI: "board-3"},
								},
							},
							{
								MatchURL:    "https://api.example.com/match/102",
								MatchWebURL: "https://www.example.com/match/102",
								Players: []models.ResignationEntry{
									// Same game indexed twice.
									{Username: "quickquitter", Color: "white", MovesPly: 1, GameAPI: "game-4", BoardAPI: "board-4"},
									{Username: "quickquitter", Color: "white", MovesPly: 1, GameAPI: "game-4", BoardAPI: "board-4"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	svc := NewResignationService()
	data := resignationFixture()

	first := svc.BuildIndex(data)
	second := svc.BuildIndex(data)
	if !reflect.DeepEqual(first, second) {
		t.Error("rebuilding the index from identical input must yield identical output")
	}

	entries := first["https://api.example.com/match/101"]
	if len(entries) != 3 {
		t.Fatalf("raw entries are preserved without dedup, want 3, got %d", len(entries))
	}
	if entries[0].Username != "quickquitter" {
		t.Errorf("usernames must be lowercased, got %s", entries[0].Username)
	}
	if entries[0].MatchWebURL != "https://www.example.com/match/101" {
		t.Errorf("entries must carry the parent match web URL, got %s", entries[0].MatchWebURL)
	}
	if entries[0].SubLeague != "Division A" {
		t.Errorf("entries must carry the sub-league name, got %s", entries[0].SubLeague)
	}
}

func TestBuildIndex_NilData(t *testing.T) {
	svc := NewResignationService()
	index := svc.BuildIndex(nil)
	if len(index) != 0 {
		t.Errorf("missing dataset must yield an empty index, got %d entries", len(index))
	}
}

func TestMatchSummaries(t *testing.T) {
	svc := NewResignationService()
	index := svc.BuildIndex(resignationFixture())

	summaries := svc.MatchSummaries(index, "https://api.example.com/match/101")
	if len(summaries) != 2 {
		t.Fatalf("expected 2 players, got %d", len(summaries))
	}
	// quickquitter has two distinct games, onetime has one.
	if summaries[0].Username != "quickquitter" || summaries[0].Count != 2 {
		t.Errorf("want quickquitter with count 2 first, got %s/%d", summaries[0].Username, summaries[0].Count)
	}
	if summaries[1].Username != "onetime" || summaries[1].Count != 1 {
		t.Errorf("want onetime with count 1 second, got %s/%d", summaries[1].Username, summaries[1].Count)
	}
}

func TestMatchSummaries_UnknownURL(t *testing.T) {
	svc := NewResignationService()
	index := svc.BuildIndex(resignationFixture())

	summaries := svc.MatchSummaries(index, "https://api.example.com/match/999")
	if len(summaries) != 0 {
		t.Errorf("unknown match URL must yield an empty result, got %+v", summaries)
	}
}

func TestMatchSummaries_DedupByGame(t *testing.T) {
	svc := NewResignationService()
	index := svc.BuildIndex(resignationFixture())

	summaries := svc.MatchSummaries(index, "https://api.example.com/match/102")
	if len(summaries) != 1 {
		t.Fatalf("expected 1 player, got %d", len(summaries))
	}
	if summaries[0].Count != 1 || len(summaries[0].Games) != 1 {
		t.Errorf("the same game indexed twice counts once, got count %d", summaries[0].Count)
	}
}

func TestRollupSummaries(t *testing.T) {
	svc := NewResignationService()
	index := svc.BuildIndex(resignationFixture())

	summaries := svc.RollupSummaries(index, []string{
		"https://api.example.com/match/101",
		"https://api.example.com/match/102",
		"https://api.example.com/match/999",
	})
	if len(summaries) != 2 {
		t.Fatalf("expected 2 players, got %d", len(summaries))
	}
	if summaries[0].Username != "quickquitter" || summaries[0].Count != 3 {
		t.Errorf("rollup: want quickquitter with 3 distinct games, got %s/%d", summaries[0].Username, summaries[0].Count)
	}
}
