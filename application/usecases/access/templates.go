package access

import (
	"context"
	"encoding/binary"
	"math"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/entities"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/cryptography"
	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type templateRepository interface {
	FindMany(filter map[string]interface{}, opts ...*options.FindOptions) (*[]entities.FaceTemplate, error)
	CreateOne(ctx context.Context, payload entities.FaceTemplate, opts ...*options.InsertOneOptions) (*entities.FaceTemplate, error)
	CountDocs(filter map[string]interface{}) (int64, error)
}

type templateUserRepository interface {
	FindMany(filter map[string]interface{}, opts ...*options.FindOptions) (*[]entities.User, error)
}

// TemplateStore mediates every template read and write: serialization,
// encryption and validation all happen here, so nothing else in the engine
// ever touches raw template bytes.
type TemplateStore struct {
	repo     templateRepository
	users    templateUserRepository
	cipher   *cryptography.TemplateCipher
	settings *config.Settings
}

func NewTemplateStore(repo templateRepository, users templateUserRepository, cipher *cryptography.TemplateCipher, settings *config.Settings) *TemplateStore {
	return &TemplateStore{repo: repo, users: users, cipher: cipher, settings: settings}
}

// LoadAll returns every usable template for the configured model, owned by a
// currently active user. Deactivating a user takes effect on the next frame
// without touching their stored templates. Records that fail decryption or
// validation are skipped and counted, never fatal: one corrupt row must not
// take the checkpoint offline.
func (ts *TemplateStore) LoadAll() (templates []StoredTemplate, skipped int, err error) {
	activeUsers, err := ts.users.FindMany(map[string]interface{}{
		"active":    true,
		"deletedAt": nil,
	})
	if err != nil {
		return nil, 0, apperrors.StoreFault{Reason: "failed to fetch active users", Err: err}
	}
	activeIDs := make(map[string]bool, len(*activeUsers))
	for _, user := range *activeUsers {
		activeIDs[user.ID] = true
	}

	rows, err := ts.repo.FindMany(map[string]interface{}{
		"modelId":   ts.settings.EmbeddingModelID,
		"deletedAt": nil,
	})
	if err != nil {
		return nil, 0, apperrors.StoreFault{Reason: "failed to fetch templates", Err: err}
	}

	templates = make([]StoredTemplate, 0, len(*rows))
	for _, row := range *rows {
		if !activeIDs[row.UserID] {
			continue
		}
		plaintext, decErr := ts.cipher.Decrypt(row.Embedding)
		if decErr != nil {
			logger.Warning("skipping undecryptable template", logger.LoggerOptions{
				Key: "template",
				Data: map[string]interface{}{
					"id":     row.ID,
					"userId": row.UserID,
				},
			})
			skipped++
			continue
		}
		embedding, serErr := DeserializeEmbedding(plaintext)
		if serErr != nil {
			skipped++
			continue
		}
		if valErr := biometric.ValidateEmbedding(embedding, ts.settings.EmbeddingDims); valErr != nil {
			skipped++
			continue
		}
		templates = append(templates, StoredTemplate{
			TemplateID: row.ID,
			UserID:     row.UserID,
			Embedding:  embedding,
			Quality:    row.Quality,
		})
	}

	if skipped > 0 {
		logger.Warning("templates skipped during load", logger.LoggerOptions{
			Key:  "skipped",
			Data: skipped,
		})
	}
	return templates, skipped, nil
}

// Save validates, serializes and encrypts one embedding, then persists it.
func (ts *TemplateStore) Save(ctx context.Context, userID string, embedding []float64, quality float64) (*entities.FaceTemplate, error) {
	if err := biometric.ValidateEmbedding(embedding, ts.settings.EmbeddingDims); err != nil {
		return nil, err
	}
	sealed, err := ts.cipher.Encrypt(SerializeEmbedding(embedding))
	if err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to encrypt template", Err: err}
	}
	template, err := ts.repo.CreateOne(ctx, entities.FaceTemplate{
		UserID:    userID,
		Embedding: sealed,
		ModelID:   ts.settings.EmbeddingModelID,
		Dims:      ts.settings.EmbeddingDims,
		Quality:   quality,
	})
	if err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to persist template", Err: err}
	}
	return template, nil
}

// CountForUser reports how many live templates a user has.
func (ts *TemplateStore) CountForUser(userID string) (int64, error) {
	count, err := ts.repo.CountDocs(map[string]interface{}{
		"userId":    userID,
		"modelId":   ts.settings.EmbeddingModelID,
		"deletedAt": nil,
	})
	if err != nil {
		return 0, apperrors.StoreFault{Reason: "failed to count templates", Err: err}
	}
	return count, nil
}

// SerializeEmbedding packs the vector as little-endian float64s.
func SerializeEmbedding(embedding []float64) []byte {
	buf := make([]byte, 8*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// DeserializeEmbedding unpacks a serialized vector. Length must be a whole
// number of float64s.
func DeserializeEmbedding(data []byte) ([]float64, error) {
	if len(data) == 0 || len(data)%8 != 0 {
		return nil, apperrors.StoreFault{Reason: "malformed template payload"}
	}
	embedding := make([]float64, len(data)/8)
	for i := range embedding {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return embedding, nil
}
