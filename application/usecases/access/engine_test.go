package access

import (
	"context"
	"image"
	"testing"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/application/utils"
	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/evidence"
	mq_types "facegate.io/infrastructure/message_queue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeVision struct {
	frame      *types.FrameAnalysis
	frameErr   error
	candidates map[string]*types.TemplateCandidate
	enrollErr  map[string]error
}

func (f *fakeVision) ProcessFrame(imageBytes []byte) (*types.FrameAnalysis, error) {
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	return f.frame, nil
}

func (f *fakeVision) ProcessEnrollmentImage(imageBytes []byte) (*types.TemplateCandidate, error) {
	if err, ok := f.enrollErr[string(imageBytes)]; ok {
		return nil, err
	}
	if candidate, ok := f.candidates[string(imageBytes)]; ok {
		return candidate, nil
	}
	return nil, apperrors.InputError{Reason: "no face found in enrollment image"}
}

func (f *fakeVision) EncodeEvidenceFrame(imageBytes []byte) ([]byte, int, int, error) {
	return imageBytes, 640, 480, nil
}

func (f *fakeVision) EncodeFaceRegion(imageBytes []byte, rect image.Rectangle) ([]byte, int, int, error) {
	return imageBytes, rect.Dx(), rect.Dy(), nil
}

type fakeRuleRepository struct {
	rules      []entities.AccessRule
	lastFilter map[string]interface{}
}

func (f *fakeRuleRepository) FindMany(filter map[string]interface{}, opts ...*options.FindOptions) (*[]entities.AccessRule, error) {
	f.lastFilter = filter
	rules := f.rules
	return &rules, nil
}

type fakeCheckpointRepository struct {
	checkpoint *entities.Checkpoint
}

func (f *fakeCheckpointRepository) FindOneByID(id string, opts ...*options.FindOneOptions) (*entities.Checkpoint, error) {
	return f.checkpoint, nil
}

type fakeUserDirectory struct {
	users map[string]*entities.User
}

func (f *fakeUserDirectory) FindOneByID(id string, opts ...*options.FindOneOptions) (*entities.User, error) {
	return f.users[id], nil
}

type fakeEventRepository struct {
	events []entities.AccessEvent
}

func (f *fakeEventRepository) CreateOne(ctx context.Context, payload entities.AccessEvent, opts ...*options.InsertOneOptions) (*entities.AccessEvent, error) {
	payload.ID = utils.GenerateULIDString()
	f.events = append(f.events, payload)
	return &payload, nil
}

type fakeAlertRepository struct {
	alerts []entities.Alert
}

func (f *fakeAlertRepository) CreateOne(ctx context.Context, payload entities.Alert, opts ...*options.InsertOneOptions) (*entities.Alert, error) {
	payload.ID = utils.GenerateULIDString()
	f.alerts = append(f.alerts, payload)
	return &payload, nil
}

type fakeEvidenceRepository struct {
	records []entities.EvidenceRecord
}

func (f *fakeEvidenceRepository) CreateOne(ctx context.Context, payload entities.EvidenceRecord, opts ...*options.InsertOneOptions) (*entities.EvidenceRecord, error) {
	payload.ID = utils.GenerateULIDString()
	f.records = append(f.records, payload)
	return &payload, nil
}

type fakeEnqueuer struct {
	tasks []mq_types.QueueTask
}

func (f *fakeEnqueuer) Enqueue(task mq_types.QueueTask) {
	f.tasks = append(f.tasks, task)
}

func engineSettings() *config.Settings {
	return &config.Settings{
		EmbeddingModelID:    "arcface-r50",
		EmbeddingDims:       4,
		AcceptanceThreshold: 0.95,
		MatchSanityFloor:    0.80,
	}
}

type engineHarness struct {
	engine   *Engine
	vision   *fakeVision
	rules    *fakeRuleRepository
	events   *fakeEventRepository
	alerts   *fakeAlertRepository
	counter  *fakeAttemptCounter
	userRows *fakeUserRepository
}

// Wednesday 10:00.
var verifyMoment = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

func newEngineHarness(t *testing.T, settings *config.Settings) *engineHarness {
	t.Helper()
	store, err := evidence.NewStore(t.TempDir())
	require.NoError(t, err)

	h := &engineHarness{
		vision:   &fakeVision{candidates: map[string]*types.TemplateCandidate{}, enrollErr: map[string]error{}},
		rules:    &fakeRuleRepository{},
		events:   &fakeEventRepository{},
		alerts:   &fakeAlertRepository{},
		counter:  newFakeAttemptCounter(),
		userRows: userRoster(),
	}
	auditor := NewAuditor(h.events, h.alerts, &fakeEvidenceRepository{}, store, &fakeEnqueuer{}, settings)
	templates := NewTemplateStore(&fakeTemplateRepository{}, h.userRows, testCipher(t), settings)
	h.engine = NewEngine(
		h.vision,
		templates,
		h.rules,
		&fakeCheckpointRepository{checkpoint: &entities.Checkpoint{
			ID:     "cp-1",
			Name:   "Main Entrance",
			ZoneID: "zone-a",
			Active: true,
		}},
		&fakeUserDirectory{users: map[string]*entities.User{
			"alice": {ID: "alice", Name: "Alice", Active: true},
		}},
		auditor,
		NewFailureTracker(h.counter, 3, 5*time.Minute),
		settings,
	)
	h.engine.now = func() time.Time { return verifyMoment }
	return h
}

func liveCapture(embedding []float64) *types.FrameAnalysis {
	return &types.FrameAnalysis{
		Width:  640,
		Height: 480,
		Captures: []types.FaceCapture{{
			Face: types.DetectedFace{Rect: image.Rect(100, 100, 300, 300), Sharpness: 120},
			Liveness: types.LivenessResult{
				BasicScore:    0.9,
				WeightedScore: 0.8,
				Live:          true,
			},
			Embedding: embedding,
		}},
	}
}

func TestVerifyPermitsEnrolledUserInsideWindow(t *testing.T) {
	settings := engineSettings()
	h := newEngineHarness(t, settings)
	cipher := testCipher(t)

	embedding := []float64{0.5, 0.5, 0.5, 0.5}
	templateRows := &fakeTemplateRepository{rows: []entities.FaceTemplate{
		sealedRow(t, cipher, "tpl-1", "alice", embedding),
	}}
	h.userRows.users = []entities.User{activeUser("alice")}
	h.engine.templates = NewTemplateStore(templateRows, h.userRows, cipher, settings)
	h.vision.frame = liveCapture(embedding)
	h.rules.rules = []entities.AccessRule{{
		UserID:      "alice",
		ZoneID:      "zone-a",
		StartMinute: 0,
		EndMinute:   1439,
		Active:      true,
	}}

	result, err := h.engine.Verify(context.Background(), []byte("frame"), "cp-1", true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, entities.DecisionPermitted, result.Decision)
	assert.True(t, result.LivenessOK)
	require.NotNil(t, result.UserID)
	assert.Equal(t, "alice", *result.UserID)
	require.NotNil(t, result.UserName)
	assert.Equal(t, "Alice", *result.UserName)
	assert.NotEmpty(t, result.EventID)
	assert.NotNil(t, result.EvidenceID)

	assert.Equal(t, map[string]interface{}{
		"userId":    "alice",
		"zoneId":    "zone-a",
		"deletedAt": nil,
	}, h.rules.lastFilter)

	require.Len(t, h.events.events, 1)
	assert.Equal(t, entities.DecisionPermitted, h.events.events[0].Decision)
	assert.Empty(t, h.alerts.alerts)
	assert.Empty(t, h.counter.counts)
}

func TestVerifyIgnoresDeactivatedUserTemplates(t *testing.T) {
	settings := engineSettings()
	h := newEngineHarness(t, settings)
	cipher := testCipher(t)

	embedding := []float64{0.5, 0.5, 0.5, 0.5}
	templateRows := &fakeTemplateRepository{rows: []entities.FaceTemplate{
		sealedRow(t, cipher, "tpl-1", "bob", embedding),
	}}
	h.userRows.users = []entities.User{{ID: "bob", Active: false}}
	h.engine.templates = NewTemplateStore(templateRows, h.userRows, cipher, settings)
	h.vision.frame = liveCapture(embedding)

	result, err := h.engine.Verify(context.Background(), []byte("frame"), "cp-1", true)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, entities.DecisionDenied, result.Decision)
	assert.Nil(t, result.UserID)
	require.Len(t, h.alerts.alerts, 1)
	assert.Equal(t, entities.AlertUnknownUser, h.alerts.alerts[0].Type)
}

func TestVerifyEmbedderFaultIsNotScored(t *testing.T) {
	settings := engineSettings()
	h := newEngineHarness(t, settings)
	h.vision.frameErr = apperrors.ModelFault{Model: "arcface", Reason: "model not loaded"}

	_, err := h.engine.Verify(context.Background(), []byte("frame"), "cp-1", true)

	var fault apperrors.ModelFault
	require.ErrorAs(t, err, &fault)
	assert.Empty(t, h.events.events)
	assert.Empty(t, h.alerts.alerts)
	assert.Empty(t, h.counter.counts)
}

func TestEnrollSameImageTwiceAddsTwoTemplates(t *testing.T) {
	settings := engineSettings()
	h := newEngineHarness(t, settings)
	cipher := testCipher(t)
	templateRows := &fakeTemplateRepository{}
	h.engine.templates = NewTemplateStore(templateRows, h.userRows, cipher, settings)
	h.vision.candidates["portrait"] = &types.TemplateCandidate{
		Embedding: []float64{0.5, 0.5, 0.5, 0.5},
		Quality:   0.9,
		Sharpness: 120,
	}

	result, err := h.engine.Enroll(context.Background(), "alice", [][]byte{[]byte("portrait"), []byte("portrait")})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TemplatesSaved)
	assert.Zero(t, result.ImagesRejected)
	assert.InDelta(t, 0.9, result.AverageQuality, 1e-9)
	assert.Len(t, templateRows.created, 2)
}

func TestEnrollCountsRejectedImages(t *testing.T) {
	settings := engineSettings()
	h := newEngineHarness(t, settings)
	cipher := testCipher(t)
	templateRows := &fakeTemplateRepository{}
	h.engine.templates = NewTemplateStore(templateRows, h.userRows, cipher, settings)
	h.vision.candidates["sharp"] = &types.TemplateCandidate{
		Embedding: []float64{0.5, 0.5, 0.5, 0.5},
		Quality:   0.7,
		Sharpness: 90,
	}
	h.vision.enrollErr["blurred"] = apperrors.InputError{Reason: "enrollment image too blurred"}

	result, err := h.engine.Enroll(context.Background(), "alice", [][]byte{[]byte("sharp"), []byte("blurred")})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TemplatesSaved)
	assert.Equal(t, 1, result.ImagesRejected)
	require.Len(t, result.Rejections, 1)
	assert.Contains(t, result.Rejections[0], "blurred")
	assert.InDelta(t, 0.7, result.AverageQuality, 1e-9)
}

func TestEnrollFailsWhenNoImageIsUsable(t *testing.T) {
	h := newEngineHarness(t, engineSettings())
	h.vision.enrollErr["dark"] = apperrors.InputError{Reason: "no face found in enrollment image"}

	_, err := h.engine.Enroll(context.Background(), "alice", [][]byte{[]byte("dark")})

	var input apperrors.InputError
	require.ErrorAs(t, err, &input)
}

func TestEnrollRejectsUnknownUser(t *testing.T) {
	h := newEngineHarness(t, engineSettings())

	_, err := h.engine.Enroll(context.Background(), "ghost", nil)

	var input apperrors.InputError
	require.ErrorAs(t, err, &input)
	assert.Contains(t, err.Error(), "user not found")
}
