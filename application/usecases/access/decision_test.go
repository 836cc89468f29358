package access

import (
	"errors"
	"testing"

	"facegate.io/entities"
	"github.com/stretchr/testify/assert"
)

func grantedAuth() AuthorizationOutcome {
	return AuthorizationOutcome{Granted: true}
}

func passingInput() DecisionInput {
	return DecisionInput{
		FaceFound:     true,
		Match:         &Match{UserID: "alice", Confidence: 0.96},
		SanityFloor:   0.80,
		Acceptance:    0.95,
		Live:          true,
		Authorization: grantedAuth(),
	}
}

func TestDecidePermitted(t *testing.T) {
	outcome := Decide(passingInput())

	assert.Equal(t, entities.DecisionPermitted, outcome.Decision)
	assert.NotNil(t, outcome.UserID)
	assert.Equal(t, "alice", *outcome.UserID)
	assert.Empty(t, outcome.Alert)
}

func TestDecideGuardOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*DecisionInput)
		wantAlert entities.AlertType
	}{
		{
			name:      "no face",
			mutate:    func(in *DecisionInput) { in.FaceFound = false; in.Match = nil },
			wantAlert: entities.AlertUnknownUser,
		},
		{
			name:      "no match",
			mutate:    func(in *DecisionInput) { in.Match = nil },
			wantAlert: entities.AlertUnknownUser,
		},
		{
			name:      "best match below sanity floor",
			mutate:    func(in *DecisionInput) { in.Match.Confidence = 0.60 },
			wantAlert: entities.AlertUnknownUser,
		},
		{
			name:      "confidence between floor and acceptance",
			mutate:    func(in *DecisionInput) { in.Match.Confidence = 0.90 },
			wantAlert: entities.AlertUnauthorized,
		},
		{
			name:      "liveness failed",
			mutate:    func(in *DecisionInput) { in.Live = false },
			wantAlert: entities.AlertLivenessFail,
		},
		{
			name:      "rule lookup failure fails closed",
			mutate:    func(in *DecisionInput) { in.AuthorizationErr = errors.New("store down") },
			wantAlert: entities.AlertUnauthorized,
		},
		{
			name:      "unknown checkpoint",
			mutate:    func(in *DecisionInput) { in.CheckpointUnknown = true },
			wantAlert: entities.AlertRestrictedZone,
		},
		{
			name: "restricted zone",
			mutate: func(in *DecisionInput) {
				in.Authorization = AuthorizationOutcome{Reason: "not authorized for lab", Alert: entities.AlertRestrictedZone}
			},
			wantAlert: entities.AlertRestrictedZone,
		},
		{
			name: "out of hours",
			mutate: func(in *DecisionInput) {
				in.Authorization = AuthorizationOutcome{Reason: "outside permitted hours (09:00 - 17:00)", Alert: entities.AlertOutOfHours}
			},
			wantAlert: entities.AlertOutOfHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := passingInput()
			tt.mutate(&input)
			outcome := Decide(input)
			assert.Equal(t, entities.DecisionDenied, outcome.Decision)
			assert.Equal(t, tt.wantAlert, outcome.Alert)
			assert.NotEmpty(t, outcome.Reason)
		})
	}
}

func TestDecideEarlierGuardWinsWhenSeveralFail(t *testing.T) {
	// A sub-floor match that also fails liveness reads as an unknown person,
	// not a spoof attempt.
	input := passingInput()
	input.Match.Confidence = 0.50
	input.Live = false

	outcome := Decide(input)
	assert.Equal(t, entities.AlertUnknownUser, outcome.Alert)

	// A strong match failing liveness and authorization reads as a spoof
	// attempt first.
	input = passingInput()
	input.Live = false
	input.Authorization = AuthorizationOutcome{Reason: "not authorized", Alert: entities.AlertRestrictedZone}

	outcome = Decide(input)
	assert.Equal(t, entities.AlertLivenessFail, outcome.Alert)
	assert.Equal(t, entities.SeverityCritical, outcome.Severity)
}

func TestDecideSubFloorMatchCarriesNoUserID(t *testing.T) {
	input := passingInput()
	input.Match.Confidence = 0.60

	outcome := Decide(input)
	assert.Nil(t, outcome.UserID, "a sub-floor match must not name a user")
	assert.InDelta(t, 0.60, outcome.Confidence, 1e-9)
}

func TestDecideAcceptanceBoundaryIsInclusive(t *testing.T) {
	input := passingInput()
	input.Match.Confidence = 0.95

	outcome := Decide(input)
	assert.Equal(t, entities.DecisionPermitted, outcome.Decision)
}
