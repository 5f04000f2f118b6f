package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference is one stored value, scoped to a profile.
type Preference struct {
	Profile   string `json:"profile" gorm:"primaryKey;type:varchar(64)"`
	Key       string `json:"key" gorm:"column:pref_key;primaryKey;type:varchar(128)"`
	Value     string `json:"value" gorm:"type:text"`
	UpdatedAt int64  `json:"updated_at" gorm:"bigint;autoUpdateTime"`
}

// SQLPreferenceStore keeps preferences in the preferences table.
type SQLPreferenceStore struct {
	db      *gorm.DB
	profile string
}

// NewSQLPreferenceStore binds db to profile.
func NewSQLPreferenceStore(db *gorm.DB, profile string) *SQLPreferenceStore {
	return &SQLPreferenceStore{db: db, profile: profile}
}

func (s *SQLPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	var pref Preference
	err := s.db.WithContext(ctx).
		Where("profile = ? AND pref_key = ?", s.profile, key).
		Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "get preference %s", key)
	}
	return pref.Value, nil
}

func (s *SQLPreferenceStore) Set(ctx context.Context, key, value string) error {
	pref := Preference{Profile: s.profile, Key: key, Value: value}
	return runWithSQLiteBusyRetry(ctx, func() error {
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile"}, {Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&pref).Error
		if err != nil {
			return errors.Wrapf(err, "set preference %s", key)
		}
		return nil
	})
}
