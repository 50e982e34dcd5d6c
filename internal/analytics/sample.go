package analytics

// This file is the sample-data seam: fixed demo rosters and the hardcoded
// forecast anomalies live here so presentation data never leaks into the
// aggregation logic. Values feed the console's demo dashboard only.

// RosterAgent names a helpdesk agent for the per-agent report.
type RosterAgent struct {
	Name string
	Team string
}

// DemoRoster is the seeded agent roster shown on the demo dashboard.
var DemoRoster = []RosterAgent{
	{Name: "Priya Sharma", Team: "Network"},
	{Name: "Marcus Webb", Team: "Endpoint Support"},
	{Name: "Elena Garcia", Team: "Application Support"},
	{Name: "Tom Okafor", Team: "IAM"},
	{Name: "Sofia Lindqvist", Team: "Security"},
	{Name: "Dan Kowalski", Team: "DevOps"},
}

func demoAnomalies(points []ForecastPoint) []Anomaly {
	var anomalies []Anomaly
	if len(points) > 2 {
		anomalies = append(anomalies, Anomaly{
			Kind:     AnomalyForecasted,
			Day:      points[2].Day,
			Headline: "VPN ticket surge expected",
			Reasons: []string{
				"certificate rotation scheduled for the regional VPN gateway",
				"similar rotations produced a 3x spike in connection tickets",
			},
			Confidence: "medium",
			Impact:     "high",
			Actions: []string{
				"pre-stage a VPN troubleshooting macro for the Network queue",
				"notify the Network team lead before the rotation window",
			},
		})
	}
	if len(points) > 0 {
		anomalies = append(anomalies, Anomaly{
			Kind:     AnomalyDetected,
			Day:      points[0].Day,
			Headline: "Access-request volume above baseline",
			Reasons: []string{
				"new-hire onboarding batch landed this week",
				"access requests are trending 2x the trailing average",
			},
			Confidence: "high",
			Impact:     "medium",
			Actions: []string{
				"enable the bulk-approval flow for the onboarding group",
				"flag the IAM queue for temporary reinforcement",
			},
		})
	}
	return anomalies
}
