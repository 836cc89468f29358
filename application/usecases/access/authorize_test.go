package access

import (
	"testing"
	"time"

	"facegate.io/application/utils"
	"facegate.io/entities"
	"github.com/stretchr/testify/assert"
)

// Tuesday 10:30.
var tuesdayMorning = time.Date(2026, time.March, 3, 10, 30, 0, 0, time.UTC)

func rule(day *int, start, end int) entities.AccessRule {
	return entities.AccessRule{
		UserID:      "alice",
		ZoneID:      "lab",
		DayOfWeek:   day,
		StartMinute: start,
		EndMinute:   end,
		Active:      true,
	}
}

func TestEvaluateRulesRestrictedZone(t *testing.T) {
	outcome := EvaluateRules(nil, "Laboratory", tuesdayMorning)

	assert.False(t, outcome.Granted)
	assert.Equal(t, entities.AlertRestrictedZone, outcome.Alert)
	assert.Contains(t, outcome.Reason, "Laboratory")
}

func TestEvaluateRulesGrantsInsideWindow(t *testing.T) {
	tuesday := utils.GetIntPointer(2)
	rules := []entities.AccessRule{rule(tuesday, 9*60, 17*60)}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.True(t, outcome.Granted)
}

func TestEvaluateRulesWindowBoundsAreInclusive(t *testing.T) {
	tuesday := utils.GetIntPointer(2)
	rules := []entities.AccessRule{rule(tuesday, 10*60+30, 10*60+30)}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.True(t, outcome.Granted, "a window covering exactly the current minute must grant")
}

func TestEvaluateRulesNilDayAppliesEveryDay(t *testing.T) {
	rules := []entities.AccessRule{rule(nil, 9*60, 17*60)}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.True(t, outcome.Granted)
}

func TestEvaluateRulesWrongDayIsRestrictedZone(t *testing.T) {
	sunday := utils.GetIntPointer(0)
	rules := []entities.AccessRule{rule(sunday, 0, 24*60-1)}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.False(t, outcome.Granted)
	assert.Equal(t, entities.AlertRestrictedZone, outcome.Alert)
}

func TestEvaluateRulesOutOfHoursQuotesWindow(t *testing.T) {
	tuesday := utils.GetIntPointer(2)
	rules := []entities.AccessRule{rule(tuesday, 13*60, 17*60)}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.False(t, outcome.Granted)
	assert.Equal(t, entities.AlertOutOfHours, outcome.Alert)
	assert.Contains(t, outcome.Reason, "13:00 - 17:00")
}

func TestEvaluateRulesDaySpecificWindowQuotedFirst(t *testing.T) {
	tuesday := utils.GetIntPointer(2)
	rules := []entities.AccessRule{
		rule(nil, 18*60, 20*60),
		rule(tuesday, 13*60, 17*60),
	}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.False(t, outcome.Granted)
	assert.Contains(t, outcome.Reason, "13:00 - 17:00")
}

func TestEvaluateRulesIgnoresInactiveAndDeleted(t *testing.T) {
	now := time.Now()
	inactive := rule(nil, 0, 24*60-1)
	inactive.Active = false
	deleted := rule(nil, 0, 24*60-1)
	deleted.DeletedAt = &now

	outcome := EvaluateRules([]entities.AccessRule{inactive, deleted}, "Laboratory", tuesdayMorning)
	assert.False(t, outcome.Granted)
	assert.Equal(t, entities.AlertRestrictedZone, outcome.Alert)
}

func TestEvaluateRulesAnyApplicableRuleGrants(t *testing.T) {
	tuesday := utils.GetIntPointer(2)
	rules := []entities.AccessRule{
		rule(tuesday, 0, 8*60),
		rule(tuesday, 10*60, 12*60),
	}

	outcome := EvaluateRules(rules, "Laboratory", tuesdayMorning)
	assert.True(t, outcome.Granted)
}
