package repository

import (
	"context"
	"errors"
	"time"

	pushdomain "pushgate-backend/internal/push/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppTokenRepository is the anonymous token registry store.
type AppTokenRepository interface {
	// Upsert inserts the entry or refreshes updated_at when the
	// (appName, token) pair already exists. Returns true when a new row
	// was created.
	Upsert(ctx context.Context, appName, platform, token string) (bool, error)
	Find(ctx context.Context, appName, token string) (*pushdomain.AppToken, error)
	// DeleteByAppToken removes the entry for one app, DeleteByToken sweeps
	// the token across all apps. Both return the number of rows removed
	// and never error on absence.
	DeleteByAppToken(ctx context.Context, appName, token string) (int64, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
}

type appTokenRepository struct {
	db *gorm.DB
}

// NewAppTokenRepository creates a new instance of appTokenRepository
func NewAppTokenRepository(db *gorm.DB) AppTokenRepository {
	return &appTokenRepository{
		db: db,
	}
}

func (r *appTokenRepository) Upsert(ctx context.Context, appName, platform, token string) (bool, error) {
	existing, err := r.Find(ctx, appName, token)
	if err != nil {
		return false, err
	}

	entry := &pushdomain.AppToken{
		ID:        uuid.New().String(),
		AppName:   appName,
		Platform:  platform,
		Token:     token,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Atomic upsert: INSERT ... ON CONFLICT (app_name, token) DO UPDATE,
	// so concurrent registrations of the same token converge.
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_name"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (r *appTokenRepository) Find(ctx context.Context, appName, token string) (*pushdomain.AppToken, error) {
	var entry pushdomain.AppToken
	err := r.db.WithContext(ctx).Where("app_name = ? AND token = ?", appName, token).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *appTokenRepository) DeleteByAppToken(ctx context.Context, appName, token string) (int64, error) {
	res := r.db.WithContext(ctx).Where("app_name = ? AND token = ?", appName, token).Delete(&pushdomain.AppToken{})
	return res.RowsAffected, res.Error
}

func (r *appTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&pushdomain.AppToken{})
	return res.RowsAffected, res.Error
}
