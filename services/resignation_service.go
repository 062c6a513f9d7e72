package services

import (
	"sort"
	"strings"

	"github.com/chessleaguetracker/leagueboard/models"
)

// IndexedResignation is one raw resignation entry annotated with its parent
// match's public URL and sub-league name.
type IndexedResignation struct {
	Username    string
	Color       string
	MovesPly    int
	GameAPI     string
	BoardAPI    string
	MatchWebURL string
	SubLeague   string
}

// ResignationIndex maps a match URL to the raw entries recorded for it, in
// insertion order. Built once per snapshot; queries are read-only.
type ResignationIndex map[string][]IndexedResignation

type ResignationService interface {
	BuildIndex(data *models.EarlyResignationData) ResignationIndex
	MatchSummaries(index ResignationIndex, matchURL string) []models.ResignationSummary
	RollupSummaries(index ResignationIndex, matchURLs []string) []models.ResignationSummary
}

type resignationService struct{}

func NewResignationService() ResignationService {
	return &resignationService{}
}

// BuildIndex flattens the nested dataset into a per-match lookup. No
// deduplication happens here; duplicate entries collapse at query time.
func (s *resignationService) BuildIndex(data *models.EarlyResignationData) ResignationIndex {
	index := make(ResignationIndex)
	if data == nil {
		return index
	}
	for _, league := range data.Leagues {
		for subLeagueName, subLeague := range league.SubLeagues {
			for _, match := range subLeague.Matches {
				for _, entry := range match.Players {
					index[match.MatchURL] = append(index[match.MatchURL], IndexedResignation{
						Username:    strings.ToLower(entry.Username),
						Color:       entry.Color,
						MovesPly:    entry.MovesPly,
						GameAPI:     entry.GameAPI,
						BoardAPI:    entry.BoardAPI,
						MatchWebURL: match.MatchWebURL,
						SubLeague:   subLeagueName,
					})
				}
			}
		}
	}
	return index
}

func (s *resignationService) MatchSummaries(index ResignationIndex, matchURL string) []models.ResignationSummary {
	return summarize(index[matchURL])
}

func (s *resignationService) RollupSummaries(index ResignationIndex, matchURLs []string) []models.ResignationSummary {
	var entries []IndexedResignation
	for _, url := range matchURLs {
		entries = append(entries, index[url]...)
	}
	return summarize(entries)
}

// summarize groups entries per player, deduplicating on game reference so a
// game indexed twice counts once. Results sort by count descending, then
// username ascending for a stable order.
func summarize(entries []IndexedResignation) []models.ResignationSummary {
	if len(entries) == 0 {
		return []models.ResignationSummary{}
	}

	type playerAcc struct {
		games     []models.ResignationGame
		seenGames map[string]bool
	}
	players := make(map[string]*playerAcc)
	order := make([]string, 0, len(entries))

	for _, entry := range entries {
		acc, ok := players[entry.Username]
		if !ok {
			acc = &playerAcc{seenGames: make(map[string]bool)}
			players[entry.Username] = acc
			order = append(order, entry.Username)
		}
		if acc.seenGames[entry.GameAPI] {
			continue
		}
		acc.seenGames[entry.GameAPI] = true
		acc.games = append(acc.games, models.ResignationGame{
			GameAPI:  entry.GameAPI,
			BoardAPI: entry.BoardAPI,
			Color:    entry.Color,
			MovesPly: entry.MovesPly,
		})
	}

	summaries := make([]models.ResignationSummary, 0, len(players))
	for _, username := range order {
		acc := players[username]
		summaries = append(summaries, models.ResignationSummary{
			Username: username,
			Count:    len(acc.games),
			Games:    acc.games,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Username < summaries[j].Username
	})
	return summaries
}
