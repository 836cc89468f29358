package access

import (
	"fmt"

	"facegate.io/entities"
)

// DecisionInput collects everything the decision chain consumes. The chain
// itself touches no storage; authorization is resolved by the caller and
// handed in, including any lookup failure.
type DecisionInput struct {
	FaceFound         bool
	Match             *Match
	SanityFloor       float64
	Acceptance        float64
	Live              bool
	Authorization     AuthorizationOutcome
	AuthorizationErr  error
	CheckpointUnknown bool
}

// Outcome is the final verdict for one verification attempt.
type Outcome struct {
	Decision   entities.AccessDecision
	Reason     string
	UserID     *string
	Confidence float64
	Alert      entities.AlertType
	Severity   entities.AlertSeverity
}

// Decide runs the guards strictly in order; the first to fail names the
// denial. Every guard must pass before access is permitted.
func Decide(in DecisionInput) Outcome {
	if !in.FaceFound || in.Match == nil {
		return Outcome{
			Decision: entities.DecisionDenied,
			Reason:   "no enrolled user matched",
			Alert:    entities.AlertUnknownUser,
			Severity: entities.SeverityWarning,
		}
	}

	userID := in.Match.UserID
	confidence := in.Match.Confidence

	if confidence < in.SanityFloor {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     fmt.Sprintf("unregistered person (confidence %.1f%%)", confidence*100),
			Confidence: confidence,
			Alert:      entities.AlertUnknownUser,
			Severity:   entities.SeverityWarning,
		}
	}

	if confidence < in.Acceptance {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     fmt.Sprintf("insufficient confidence (%.1f%% < %.1f%%)", confidence*100, in.Acceptance*100),
			UserID:     &userID,
			Confidence: confidence,
			Alert:      entities.AlertUnauthorized,
			Severity:   entities.SeverityWarning,
		}
	}

	if !in.Live {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     "anti-spoofing check failed",
			UserID:     &userID,
			Confidence: confidence,
			Alert:      entities.AlertLivenessFail,
			Severity:   entities.SeverityCritical,
		}
	}

	// A failed rule lookup denies access rather than guessing. Same for a
	// checkpoint nobody configured.
	if in.AuthorizationErr != nil {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     "access validation unavailable",
			UserID:     &userID,
			Confidence: confidence,
			Alert:      entities.AlertUnauthorized,
			Severity:   entities.SeverityCritical,
		}
	}
	if in.CheckpointUnknown {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     "checkpoint not configured",
			UserID:     &userID,
			Confidence: confidence,
			Alert:      entities.AlertRestrictedZone,
			Severity:   entities.SeverityWarning,
		}
	}
	if !in.Authorization.Granted {
		return Outcome{
			Decision:   entities.DecisionDenied,
			Reason:     in.Authorization.Reason,
			UserID:     &userID,
			Confidence: confidence,
			Alert:      in.Authorization.Alert,
			Severity:   entities.SeverityWarning,
		}
	}

	return Outcome{
		Decision:   entities.DecisionPermitted,
		Reason:     fmt.Sprintf("access authorized (confidence %.1f%%)", confidence*100),
		UserID:     &userID,
		Confidence: confidence,
	}
}
