package services

import (
	"fmt"

	"github.com/chessleaguetracker/leagueboard/models"
)

// DefaultRatingGapThreshold is the roster mean-rating gap below which a
// match is flagged as a rating disadvantage. Policy value, overridable via
// configuration.
const DefaultRatingGapThreshold = -50.0

type RegistrationService interface {
	Evaluate(round *models.Round) models.RegistrationAssessment
}

type registrationService struct {
	ratingGapThreshold float64
}

func NewRegistrationService(ratingGapThreshold float64) RegistrationService {
	return &registrationService{ratingGapThreshold: ratingGapThreshold}
}

// Evaluate computes the registration/forfeit-risk signal for one round.
// The three rules are independent: every applicable reason is surfaced.
// The player-deficit rule is skipped when the under-minimum rule already
// fired, since the shortfall is the same underlying problem.
func (s *registrationService) Evaluate(round *models.Round) models.RegistrationAssessment {
	var assessment models.RegistrationAssessment

	minPlayers := 0
	if round.MinTeamPlayers != nil {
		minPlayers = *round.MinTeamPlayers
	}
	our, opp := 0, 0
	if round.RegisteredPlayers != nil {
		our = round.RegisteredPlayers.Our
		opp = round.RegisteredPlayers.Opponent
	}

	underMinimum := minPlayers > 0 && our < minPlayers
	if underMinimum {
		assessment.Warnings = append(assessment.Warnings, models.RegistrationWarning{
			Kind:    models.WarningUnderMinimum,
			Message: fmt.Sprintf("%d more player(s) needed to meet the %d-player minimum", minPlayers-our, minPlayers),
		})
	} else if our < opp {
		assessment.Warnings = append(assessment.Warnings, models.RegistrationWarning{
			Kind:    models.WarningPlayerDeficit,
			Message: fmt.Sprintf("opponent has %d more registered player(s)", opp-our),
		})
	}

	if round.RegistrationData != nil {
		ourMean := meanRosterRating(round.RegistrationData.OurRoster)
		oppMean := meanRosterRating(round.RegistrationData.OppRoster)
		if ourMean-oppMean < s.ratingGapThreshold {
			assessment.Warnings = append(assessment.Warnings, models.RegistrationWarning{
				Kind:    models.WarningRatingDisadvantage,
				Message: fmt.Sprintf("average rating is %.0f points below the opponent's", oppMean-ourMean),
			})
		}
	}

	assessment.HasWarning = len(assessment.Warnings) > 0
	assessment.MinimumMet = !assessment.HasWarning && minPlayers > 0 && our >= minPlayers
	return assessment
}

// meanRosterRating averages the ratings of a roster, skipping entries with
// an absent or zero rating. An empty roster yields 0, never a division by
// zero.
func meanRosterRating(roster []models.RosterEntry) float64 {
	sum, count := 0, 0
	for _, entry := range roster {
		if entry.Rating == nil || *entry.Rating == 0 {
			continue
		}
		sum += *entry.Rating
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
