package access

import (
	"fmt"
	"time"

	"facegate.io/entities"
)

// AuthorizationOutcome is the result of evaluating a user's access rules at
// a checkpoint for one moment in time.
type AuthorizationOutcome struct {
	Granted bool
	Reason  string
	Alert   entities.AlertType
}

// EvaluateRules decides authorization from already-fetched rules. Rules that
// do not apply to the weekday are ignored; a user with no applicable rules
// is in a restricted zone, one with rules but outside every window is out of
// hours. The out-of-hours message quotes the first applicable rule's window,
// day-specific rules ahead of any-day ones.
func EvaluateRules(rules []entities.AccessRule, checkpointName string, at time.Time) AuthorizationOutcome {
	applicable := make([]entities.AccessRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.Active || rule.DeletedAt != nil {
			continue
		}
		if rule.AppliesOn(at.Weekday()) {
			applicable = append(applicable, rule)
		}
	}

	if len(applicable) == 0 {
		return AuthorizationOutcome{
			Granted: false,
			Reason:  fmt.Sprintf("not authorized for %s", checkpointName),
			Alert:   entities.AlertRestrictedZone,
		}
	}

	// Day-specific rules first so the denial message quotes the most
	// specific window.
	sortRulesBySpecificity(applicable)

	minuteOfDay := at.Hour()*60 + at.Minute()
	for _, rule := range applicable {
		if rule.Covers(minuteOfDay) {
			return AuthorizationOutcome{Granted: true}
		}
	}

	return AuthorizationOutcome{
		Granted: false,
		Reason:  fmt.Sprintf("outside permitted hours (%s)", applicable[0].WindowLabel()),
		Alert:   entities.AlertOutOfHours,
	}
}

func sortRulesBySpecificity(rules []entities.AccessRule) {
	// Insertion sort keeps the relative order of equally specific rules.
	for i := 1; i < len(rules); i++ {
		for j := i; j > 0 && rules[j].DayOfWeek != nil && rules[j-1].DayOfWeek == nil; j-- {
			rules[j], rules[j-1] = rules[j-1], rules[j]
		}
	}
}
