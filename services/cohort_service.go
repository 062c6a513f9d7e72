package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/chessleaguetracker/leagueboard/models"
)

type CohortService interface {
	BoardReport(boards []models.Board) *models.BoardCohortReport
	RosterReport(reg *models.RegistrationData) *models.RosterCohortReport
}

type cohortService struct{}

func NewCohortService() CohortService {
	return &cohortService{}
}

// cohortBucket maps a rating onto its 100-point cohort key.
func cohortBucket(rating float64) int {
	return int(math.Floor(rating/100)) * 100
}

func cohortRange(bucket int) string {
	return fmt.Sprintf("%d-%d", bucket, bucket+100)
}

// formatDiff renders a rounded differential with an explicit sign when
// positive.
func formatDiff(diff int) string {
	if diff > 0 {
		return fmt.Sprintf("+%d", diff)
	}
	return fmt.Sprintf("%d", diff)
}

// BoardReport aggregates board-level rating differentials. A board joins a
// cohort only when both ratings are present; its cohort is keyed by the
// 100-point bucket of the average of the two ratings.
func (s *cohortService) BoardReport(boards []models.Board) *models.BoardCohortReport {
	if len(boards) == 0 {
		return nil
	}

	report := &models.BoardCohortReport{}

	diffSum, diffCount := 0, 0
	type cohortAcc struct {
		sum   int
		count int
	}
	cohorts := make(map[int]*cohortAcc)

	for _, board := range boards {
		if board.RatingDiff != nil {
			diff := *board.RatingDiff
			diffSum += diff
			diffCount++
			switch {
			case diff > 0:
				report.Ahead++
			case diff < 0:
				report.Behind++
			default:
				report.Even++
			}
		}

		if board.OurRating == nil || board.OppRating == nil || *board.OurRating == 0 || *board.OppRating == 0 {
			continue
		}
		avg := float64(*board.OurRating+*board.OppRating) / 2
		bucket := cohortBucket(avg)
		acc, ok := cohorts[bucket]
		if !ok {
			acc = &cohortAcc{}
			cohorts[bucket] = acc
		}
		if board.RatingDiff != nil {
			acc.sum += *board.RatingDiff
		}
		acc.count++
	}

	if diffCount > 0 {
		report.AverageDiff = int(math.Round(float64(diffSum) / float64(diffCount)))
	}
	report.AverageDiffLabel = formatDiff(report.AverageDiff)

	buckets := make([]int, 0, len(cohorts))
	for bucket := range cohorts {
		buckets = append(buckets, bucket)
	}
	sort.Ints(buckets)

	report.Cohorts = make([]models.BoardCohort, 0, len(buckets))
	for _, bucket := range buckets {
		acc := cohorts[bucket]
		avgDiff := 0
		if acc.count > 0 {
			avgDiff = int(math.Round(float64(acc.sum) / float64(acc.count)))
		}
		report.Cohorts = append(report.Cohorts, models.BoardCohort{
			Bucket:      bucket,
			Range:       cohortRange(bucket),
			Boards:      acc.count,
			AverageDiff: avgDiff,
		})
	}

	return report
}

// RosterReport builds the per-bucket histogram comparison of the two
// registration rosters of an open match, plus per-side overall means.
func (s *cohortService) RosterReport(reg *models.RegistrationData) *models.RosterCohortReport {
	if reg == nil {
		return nil
	}

	ourCounts := bucketHistogram(reg.OurRoster)
	oppCounts := bucketHistogram(reg.OppRoster)

	seen := make(map[int]bool)
	buckets := make([]int, 0, len(ourCounts)+len(oppCounts))
	for bucket := range ourCounts {
		if !seen[bucket] {
			seen[bucket] = true
			buckets = append(buckets, bucket)
		}
	}
	for bucket := range oppCounts {
		if !seen[bucket] {
			seen[bucket] = true
			buckets = append(buckets, bucket)
		}
	}
	sort.Ints(buckets)

	report := &models.RosterCohortReport{
		OurAverage: meanRosterRating(reg.OurRoster),
		OppAverage: meanRosterRating(reg.OppRoster),
		Buckets:    make([]models.RosterCohortBucket, 0, len(buckets)),
	}
	report.AverageDiff = report.OurAverage - report.OppAverage

	for _, bucket := range buckets {
		report.Buckets = append(report.Buckets, models.RosterCohortBucket{
			Bucket: bucket,
			Range:  cohortRange(bucket),
			Our:    ourCounts[bucket],
			Opp:    oppCounts[bucket],
			Diff:   ourCounts[bucket] - oppCounts[bucket],
		})
	}

	return report
}

func bucketHistogram(roster []models.RosterEntry) map[int]int {
	counts := make(map[int]int)
	for _, entry := range roster {
		if entry.Rating == nil || *entry.Rating == 0 {
			continue
		}
		counts[cohortBucket(float64(*entry.Rating))]++
	}
	return counts
}
