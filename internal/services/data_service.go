package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StateRepository persists the state snapshot as one JSON document row per
// state key. It implements store.Persister.
type StateRepository struct {
	db  *gorm.DB
	key string
}

// NewStateRepository creates a repository for the document named key.
func NewStateRepository(db *gorm.DB, key string) *StateRepository {
	return &StateRepository{db: db, key: key}
}

// Load reads the state document. It returns nil, nil when no document has
// been saved under the key, and an error matching models.ErrUnparseableState
// when the stored payload does not decode.
func (r *StateRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var doc models.StateDocument
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{Logger: r.db.Logger.LogMode(logger.Silent)}).
		Where("state_key = ?", r.key).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, types.Persistence("failed to read state document", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(doc.Payload.Bytes(), &snapshot); err != nil {
		return nil, types.Persistence("failed to decode state document", fmt.Errorf("%w: %v", models.ErrUnparseableState, err))
	}
	return &snapshot, nil
}

// Save writes the whole snapshot and bumps the document version.
func (r *StateRepository) Save(ctx context.Context, snapshot models.Snapshot) (uint64, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return 0, types.Persistence("failed to encode state document", err)
	}

	var newVersion uint64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock and read the current version
		var doc models.StateDocument
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("state_key = ?", r.key).
			First(&doc).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			doc = models.StateDocument{
				StateKey:        r.key,
				DocumentVersion: 1,
				Payload:         models.NewJSON(payload),
			}
			newVersion = doc.DocumentVersion
			return tx.Create(&doc).Error
		}

		newVersion = doc.DocumentVersion + 1
		result := tx.Model(&doc).
			Where("document_version = ?", doc.DocumentVersion).
			Updates(map[string]interface{}{
				"document_version": newVersion,
				"payload":          models.NewJSON(payload),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("E_VERSION - Failed to update state document due to concurrent modification")
		}
		return nil
	})
	if err != nil {
		return 0, types.Persistence("failed to save state document", err)
	}
	return newVersion, nil
}

// Version returns the stored document version, 0 when nothing is stored.
func (r *StateRepository) Version(ctx context.Context) (uint64, error) {
	var doc models.StateDocument
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{Logger: r.db.Logger.LogMode(logger.Silent)}).
		Select("document_version").
		Where("state_key = ?", r.key).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, types.Persistence("failed to read state version", err)
	}
	return doc.DocumentVersion, nil
}
