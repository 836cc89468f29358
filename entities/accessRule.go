package entities

import (
	"time"

	"facegate.io/application/utils"
)

// AccessRule grants a user entry to a zone inside a daily time window; every
// checkpoint mapped to the zone honours it. DayOfWeek follows time.Weekday
// numbering (0 = Sunday); nil means the rule applies every day. Start and
// End are minutes from midnight, inclusive on both ends.
type AccessRule struct {
	UserID      string `bson:"userId" json:"userId"`
	ZoneID      string `bson:"zoneId" json:"zoneId"`
	DayOfWeek   *int   `bson:"dayOfWeek" json:"dayOfWeek"`
	StartMinute int    `bson:"startMinute" json:"startMinute"`
	EndMinute   int    `bson:"endMinute" json:"endMinute"`
	Active      bool   `bson:"active" json:"active"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

// AppliesOn reports whether the rule covers the given weekday.
func (model AccessRule) AppliesOn(day time.Weekday) bool {
	return model.DayOfWeek == nil || *model.DayOfWeek == int(day)
}

// Covers reports whether the minute-of-day falls inside the rule's window.
func (model AccessRule) Covers(minuteOfDay int) bool {
	return minuteOfDay >= model.StartMinute && minuteOfDay <= model.EndMinute
}

// WindowLabel renders the rule's window for alert and event messages.
func (model AccessRule) WindowLabel() string {
	return utils.FormatMinuteOfDay(model.StartMinute) + " - " + utils.FormatMinuteOfDay(model.EndMinute)
}

func (model AccessRule) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
