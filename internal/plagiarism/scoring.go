package plagiarism

const (
	RiskClean            = "clean"
	RiskSuspicious       = "suspicious"
	RiskHighlySuspicious = "highly suspicious"
	RiskNearCopy         = "near copy"
)

// GetRiskLevel returns risk level based on the plagiarized percentage
func GetRiskLevel(percentage float64) string {
	if percentage < 30 {
		return RiskClean
	} else if percentage < 60 {
		return RiskSuspicious
	} else if percentage < 85 {
		return RiskHighlySuspicious
	}
	return RiskNearCopy
}
