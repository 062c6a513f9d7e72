package models

type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// TimeoutData is the secondary document produced by the timeout enrichment
// step of the pipeline. It may be absent entirely; consumers must treat a
// nil document as "no data".
type TimeoutData struct {
	GeneratedAt          string                       `json:"generatedAt"`
	RiskThresholdPercent float64                      `json:"riskThresholdPercent"`
	Players              map[string]TimeoutRiskRecord `json:"players"`
}

// TimeoutRiskRecord is keyed by lowercase username in TimeoutData.Players.
type TimeoutRiskRecord struct {
	TimeoutPercent            *float64                      `json:"timeoutPercent"`
	DailyRating               *int                          `json:"dailyRating"`
	Rating960                 *int                          `json:"rating960"`
	TotalLeagueTimeouts90Days int                           `json:"totalLeagueTimeouts90Days"`
	SubLeagueTimeouts         map[string]map[string]int     `json:"subLeagueTimeouts"`
	DailyTimeouts             map[string]DailyTimeoutBucket `json:"dailyTimeouts"`
	RiskFlag                  bool                          `json:"riskFlag"`
	RiskLevel                 *string                       `json:"riskLevel"`
	RiskReason                *string                       `json:"riskReason"`
}

// DailyTimeoutBucket tracks timeouts for one daily time-control category
// (1day / 2day / 3day).
type DailyTimeoutBucket struct {
	Count           int     `json:"count"`
	LastTimeoutDate *string `json:"lastTimeoutDate"`
}
