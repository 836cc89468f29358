package access

import (
	"context"
	"image"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/application/constants"
	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ruleRepository interface {
	FindMany(filter map[string]interface{}, opts ...*options.FindOptions) (*[]entities.AccessRule, error)
}

type checkpointRepository interface {
	FindOneByID(id string, opts ...*options.FindOneOptions) (*entities.Checkpoint, error)
}

type userRepository interface {
	FindOneByID(id string, opts ...*options.FindOneOptions) (*entities.User, error)
}

// visionService is the slice of the biometric pipeline the engine calls.
type visionService interface {
	ProcessFrame(imageBytes []byte) (*types.FrameAnalysis, error)
	ProcessEnrollmentImage(imageBytes []byte) (*types.TemplateCandidate, error)
	EncodeEvidenceFrame(imageBytes []byte) (encoded []byte, width int, height int, err error)
	EncodeFaceRegion(imageBytes []byte, rect image.Rectangle) (encoded []byte, width int, height int, err error)
}

// Engine runs the whole verification pipeline for one checkpoint frame:
// acquisition, matching, liveness, authorization, decision and audit.
type Engine struct {
	vision      visionService
	templates   *TemplateStore
	rules       ruleRepository
	checkpoints checkpointRepository
	users       userRepository
	auditor     *Auditor
	tracker     *FailureTracker
	settings    *config.Settings
	now         func() time.Time
}

func NewEngine(
	vision visionService,
	templates *TemplateStore,
	rules ruleRepository,
	checkpoints checkpointRepository,
	users userRepository,
	auditor *Auditor,
	tracker *FailureTracker,
	settings *config.Settings,
) *Engine {
	return &Engine{
		vision:      vision,
		templates:   templates,
		rules:       rules,
		checkpoints: checkpoints,
		users:       users,
		auditor:     auditor,
		tracker:     tracker,
		settings:    settings,
		now:         time.Now,
	}
}

// FaceRegion is one detected face rectangle in frame coordinates.
type FaceRegion struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// VerifyResult is the full response for one verification attempt. Success is
// true only for a permitted decision; every denial and every unscorable frame
// reports false.
type VerifyResult struct {
	Success          bool                    `json:"success"`
	Decision         entities.AccessDecision `json:"decision"`
	Message          string                  `json:"message"`
	LivenessOK       bool                    `json:"livenessOk"`
	UserID           *string                 `json:"userId"`
	UserName         *string                 `json:"userName"`
	Confidence       float64                 `json:"confidence"`
	FaceRegions      []FaceRegion            `json:"faceRegions"`
	Liveness         *types.LivenessResult   `json:"liveness"`
	TemplatesSkipped int                     `json:"templatesSkipped"`
	EventID          string                  `json:"eventId"`
	EvidenceID       *string                 `json:"evidenceId"`
	AlertType        *entities.AlertType     `json:"alertType"`
	ProcessingMs     int64                   `json:"processingMs"`
}

// Verify decides access for one frame. Audit writes happen after the
// decision and cannot change it; their failures are logged and the decision
// is still returned. checkLiveness false bypasses the liveness gate without
// suppressing the measured signals in the response.
func (e *Engine) Verify(ctx context.Context, imageBytes []byte, checkpointID string, checkLiveness bool) (*VerifyResult, error) {
	started := e.now()

	analysis, err := e.vision.ProcessFrame(imageBytes)
	if err != nil {
		return nil, err
	}

	templates, skipped, err := e.templates.LoadAll()
	if err != nil {
		return nil, err
	}

	primary := primaryCapture(analysis)

	var match *Match
	var liveness *types.LivenessResult
	live := !checkLiveness
	livenessScore := 0.0
	if primary != nil {
		liveness = &primary.Liveness
		if checkLiveness {
			live = primary.Liveness.Live
		}
		livenessScore = primary.Liveness.BasicScore
		if primary.Embedding != nil {
			match = BestMatch(primary.Embedding, templates)
		}
	}

	input := DecisionInput{
		FaceFound:   primary != nil,
		Match:       match,
		SanityFloor: e.settings.MatchSanityFloor,
		Acceptance:  e.settings.AcceptanceThreshold,
		Live:        live,
	}

	checkpointName := checkpointID
	if match != nil {
		checkpoint, cpErr := e.checkpoints.FindOneByID(checkpointID)
		if cpErr != nil {
			input.AuthorizationErr = apperrors.LookupFault{Err: cpErr}
		} else if checkpoint == nil || !checkpoint.Active || checkpoint.DeletedAt != nil {
			input.CheckpointUnknown = true
		} else {
			checkpointName = checkpoint.Name
			rules, ruleErr := e.rules.FindMany(map[string]interface{}{
				"userId":    match.UserID,
				"zoneId":    checkpoint.ZoneID,
				"deletedAt": nil,
			})
			if ruleErr != nil {
				input.AuthorizationErr = apperrors.LookupFault{Err: ruleErr}
			} else {
				input.Authorization = EvaluateRules(*rules, checkpointName, started)
			}
		}
	}

	outcome := Decide(input)

	regions := make([]FaceRegion, 0, len(analysis.Captures))
	for _, capture := range analysis.Captures {
		regions = append(regions, FaceRegion{
			Left:   capture.Face.Rect.Min.X,
			Top:    capture.Face.Rect.Min.Y,
			Right:  capture.Face.Rect.Max.X,
			Bottom: capture.Face.Rect.Max.Y,
		})
	}

	result := &VerifyResult{
		Success:          outcome.Decision == entities.DecisionPermitted,
		Decision:         outcome.Decision,
		Message:          outcome.Reason,
		LivenessOK:       live,
		UserID:           outcome.UserID,
		Confidence:       outcome.Confidence,
		FaceRegions:      regions,
		Liveness:         liveness,
		TemplatesSkipped: skipped,
	}

	userName := ""
	if outcome.UserID != nil {
		if user, userErr := e.users.FindOneByID(*outcome.UserID); userErr == nil && user != nil {
			userName = user.Name
			result.UserName = &user.Name
		}
	}

	e.audit(ctx, imageBytes, primary, checkpointID, checkpointName, userName, outcome, livenessScore, live, started, result)

	result.ProcessingMs = time.Since(started).Milliseconds()
	logger.Info("verification completed", logger.LoggerOptions{
		Key: "result",
		Data: map[string]interface{}{
			"decision":   result.Decision,
			"reason":     result.Message,
			"checkpoint": checkpointID,
			"confidence": result.Confidence,
		},
	})
	return result, nil
}

// audit persists evidence, the event and any alerts for a decided attempt.
func (e *Engine) audit(ctx context.Context, imageBytes []byte, primary *types.FaceCapture, checkpointID, checkpointName, userName string, outcome Outcome, livenessScore float64, live bool, occurredAt time.Time, result *VerifyResult) {
	var evidenceID *string
	encoded, width, height, encErr := e.vision.EncodeEvidenceFrame(imageBytes)
	if encErr != nil {
		logger.Error("failed to encode evidence frame", logger.LoggerOptions{
			Key:  "error",
			Data: encErr,
		})
	} else {
		record, saveErr := e.auditor.SaveEvidence(ctx, constants.EvidenceFramePrefix, encoded, width, height, checkpointID, occurredAt)
		if saveErr != nil {
			logger.Error("failed to save evidence", logger.LoggerOptions{
				Key:  "error",
				Data: saveErr,
			})
		} else {
			evidenceID = &record.ID
			result.EvidenceID = &record.ID
		}
	}

	if primary != nil {
		cropped, cw, ch, cropErr := e.vision.EncodeFaceRegion(imageBytes, primary.Face.Rect)
		if cropErr != nil {
			logger.Error("failed to encode face crop", logger.LoggerOptions{
				Key:  "error",
				Data: cropErr,
			})
		} else if _, saveErr := e.auditor.SaveEvidence(ctx, constants.EvidenceFacePrefix, cropped, cw, ch, checkpointID, occurredAt); saveErr != nil {
			logger.Error("failed to save face crop evidence", logger.LoggerOptions{
				Key:  "error",
				Data: saveErr,
			})
		}
	}

	var eventID *string
	event, eventErr := e.auditor.RecordEvent(ctx, outcome, checkpointID, livenessScore, live, evidenceID, occurredAt)
	if eventErr != nil {
		logger.Error("failed to record access event", logger.LoggerOptions{
			Key:  "error",
			Data: eventErr,
		})
	} else {
		eventID = &event.ID
		result.EventID = event.ID
	}

	if outcome.Decision == entities.DecisionPermitted {
		e.tracker.RecordPermitted(checkpointID)
		return
	}

	if outcome.Alert != "" {
		result.AlertType = &outcome.Alert
		if _, alertErr := e.auditor.RaiseAlert(ctx, outcome.Alert, outcome.Severity, outcome.Reason, outcome.UserID, userName, checkpointID, checkpointName, eventID, evidenceID, occurredAt); alertErr != nil {
			logger.Error("failed to raise alert", logger.LoggerOptions{
				Key:  "error",
				Data: alertErr,
			})
		}
	}

	if _, streakHit := e.tracker.RecordDenied(checkpointID); streakHit {
		message := "repeated denied attempts at checkpoint " + checkpointName
		if _, alertErr := e.auditor.RaiseAlert(ctx, entities.AlertMultipleFailedAttempts, entities.SeverityCritical, message, outcome.UserID, userName, checkpointID, checkpointName, eventID, evidenceID, occurredAt); alertErr != nil {
			logger.Error("failed to raise streak alert", logger.LoggerOptions{
				Key:  "error",
				Data: alertErr,
			})
		}
	}
}

// primaryCapture picks the face the decision chain reasons about: the
// largest detected face in the frame.
func primaryCapture(analysis *types.FrameAnalysis) *types.FaceCapture {
	var best *types.FaceCapture
	for i := range analysis.Captures {
		capture := &analysis.Captures[i]
		if best == nil ||
			capture.Face.Rect.Dx()*capture.Face.Rect.Dy() > best.Face.Rect.Dx()*best.Face.Rect.Dy() {
			best = capture
		}
	}
	return best
}
