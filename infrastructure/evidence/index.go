package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/constants"
	"facegate.io/application/utils"
	"facegate.io/infrastructure/logger"
)

// Store writes evidence frames to local disk under date-partitioned
// directories and reports the integrity hash of what was actually written.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("could not create evidence root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// StoredFrame describes one persisted evidence image.
type StoredFrame struct {
	Path      string
	SHA256    string
	SizeBytes int
	Format    string
}

// Save writes the encoded frame and returns its location and hash. The hash
// is computed over the exact bytes written so later integrity checks compare
// like with like. The prefix distinguishes full frames from face crops in
// the same directory.
func (s *Store) Save(prefix string, encoded []byte, capturedAt time.Time) (*StoredFrame, error) {
	dir := filepath.Join(s.root,
		fmt.Sprintf("%04d", capturedAt.Year()),
		fmt.Sprintf("%02d", capturedAt.Month()),
		fmt.Sprintf("%02d", capturedAt.Day()),
	)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, apperrors.PersistenceFault{Target: "evidence", Err: err}
	}

	path := filepath.Join(dir, prefix+"_"+utils.GenerateULIDString()+".jpg")
	if err := os.WriteFile(path, encoded, 0o640); err != nil {
		return nil, apperrors.PersistenceFault{Target: "evidence", Err: err}
	}

	sum := sha256.Sum256(encoded)
	frame := &StoredFrame{
		Path:      path,
		SHA256:    hex.EncodeToString(sum[:]),
		SizeBytes: len(encoded),
		Format:    constants.EvidenceImageFormat,
	}

	logger.Info("evidence frame stored", logger.LoggerOptions{
		Key: "frame",
		Data: map[string]interface{}{
			"path": frame.Path,
			"size": frame.SizeBytes,
		},
	})
	return frame, nil
}

// Read returns the stored bytes for serving back to operators.
func (s *Store) Read(path string) ([]byte, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.InputError{Reason: "invalid evidence path"}
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, apperrors.PersistenceFault{Target: "evidence", Err: err}
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return nil, apperrors.InputError{Reason: "evidence path outside store"}
	}
	return os.ReadFile(resolved)
}
