package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gpulab/gpuboard/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// SaveSession upserts the full transcript for one session id and returns the
// row id. There is no incremental append: the caller always transmits the
// complete conversation seen so far, and message_count is recomputed from it.
func (r *Repo) SaveSession(ctx context.Context, sessionID, userIP string, gpuIDs []uint64, turns []Turn) (uint64, error) {
	gpusJSON, err := json.Marshal(gpuIDs)
	if err != nil {
		return 0, &common.PersistenceError{Op: "encode gpus", Err: err}
	}
	convJSON, err := json.Marshal(turns)
	if err != nil {
		return 0, &common.PersistenceError{Op: "encode conversation", Err: err}
	}

	s := Session{
		SessionID:        sessionID,
		UserIP:           userIP,
		SelectedGpus:     string(gpusJSON),
		ConversationData: string(convJSON),
		MessageCount:     len(turns),
		UpdatedAt:        time.Now(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_ip", "selected_gpus", "conversation_data", "message_count", "updated_at",
		}),
	}).Create(&s).Error; err != nil {
		return 0, &common.PersistenceError{Op: "save session", Err: err}
	}

	// on conflict the in-memory id is not the stored one; read it back
	var saved Session
	if err := r.db.WithContext(ctx).
		Select("id").
		First(&saved, "session_id = ?", sessionID).Error; err != nil {
		return 0, &common.PersistenceError{Op: "save session", Err: err}
	}
	return saved.ID, nil
}

func (r *Repo) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).First(&s, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AllSessions returns transcripts newest first.
func (r *Repo) AllSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repo) DeleteSession(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repo) DeleteAllSessions(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&Session{})
	return res.RowsAffected, res.Error
}
