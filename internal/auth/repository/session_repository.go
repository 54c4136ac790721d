package repository

import (
	"context"
	"errors"
	"time"

	authdomain "pushgate-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository is the narrow port into the session store. The push
// registry reads and updates only the attachment columns; everything else
// belongs to the auth flow.
type SessionRepository interface {
	Create(ctx context.Context, session *authdomain.Session) error
	FindByID(ctx context.Context, id string) (*authdomain.Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*authdomain.Session, error)
	FindByUserID(ctx context.Context, userID string) ([]authdomain.Session, error)
	FindByPushToken(ctx context.Context, pushToken string) ([]authdomain.Session, error)
	Delete(ctx context.Context, id string) error

	// SetAttachment replaces the session's push attachment in one UPDATE.
	SetAttachment(ctx context.Context, sessionID, appName, platform, token string) error
	// ClearAttachment removes the attachment only if it still holds the
	// given token, so a concurrent re-registration is not clobbered.
	ClearAttachment(ctx context.Context, sessionID, token string) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new instance of sessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Create inserts the session and prunes the user's expired sessions.
// Existing valid sessions remain so each device keeps its own login.
func (r *sessionRepository) Create(ctx context.Context, session *authdomain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at < ?", session.UserID, time.Now()).Delete(&authdomain.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*authdomain.Session, error) {
	var session authdomain.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByRefreshToken(ctx context.Context, token string) (*authdomain.Session, error) {
	var session authdomain.Session
	err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByUserID(ctx context.Context, userID string) ([]authdomain.Session, error) {
	var sessions []authdomain.Session
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) FindByPushToken(ctx context.Context, pushToken string) ([]authdomain.Session, error) {
	var sessions []authdomain.Session
	err := r.db.WithContext(ctx).Where("push_token = ?", pushToken).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&authdomain.Session{}).Error
}

func (r *sessionRepository) SetAttachment(ctx context.Context, sessionID, appName, platform, token string) error {
	return r.db.WithContext(ctx).Model(&authdomain.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"push_app_name": appName,
			"push_platform": platform,
			"push_token":    token,
		}).Error
}

func (r *sessionRepository) ClearAttachment(ctx context.Context, sessionID, token string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&authdomain.Session{}).
		Where("id = ? AND push_token = ?", sessionID, token).
		Updates(map[string]interface{}{
			"push_app_name": "",
			"push_platform": "",
			"push_token":    "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
