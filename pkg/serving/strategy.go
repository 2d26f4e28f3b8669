package serving

import (
	"fmt"
	"math"
)

// Recovery strategy labels, fixed by collections policy.
const (
	StrategyAggressive = "Immediate legal notices & aggressive recovery attempts"
	StrategySettlement = "Settlement offers & repayment plans"
	StrategyMonitoring = "Automated reminders & monitoring"
)

// Strategy maps a risk score to a recovery action. Both band boundaries
// belong to the settlement track: scores strictly above 0.75 go aggressive,
// scores in [0.50, 0.75] settle, everything below 0.50 is monitored.
func Strategy(score float64) (string, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return "", fmt.Errorf("risk score %v out of [0,1]", score)
	}
	switch {
	case score > 0.75:
		return StrategyAggressive, nil
	case score >= 0.50:
		return StrategySettlement, nil
	default:
		return StrategyMonitoring, nil
	}
}
