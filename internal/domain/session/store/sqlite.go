package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront-go/internal/domain/session/model"
	"storefront-go/internal/platform/storage"
)

type sqliteStore struct {
	db        *gorm.DB
	namespace string
}

// NewSQLite builds a SQLite-backed store.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "default"
	}
	return &sqliteStore{db: db, namespace: namespace}, nil
}

func (s *sqliteStore) fetch(ctx context.Context) (storage.SessionRecord, bool, error) {
	var rec storage.SessionRecord
	err := s.db.WithContext(ctx).Where("namespace = ?", s.namespace).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.SessionRecord{Namespace: s.namespace}, false, nil
	}
	if err != nil {
		return storage.SessionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *sqliteStore) upsert(ctx context.Context, mutate func(*storage.SessionRecord)) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec storage.SessionRecord
		err := tx.Where("namespace = ?", s.namespace).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec = storage.SessionRecord{Namespace: s.namespace}
			mutate(&rec)
			return tx.Create(&rec).Error
		}
		if err != nil {
			return err
		}
		mutate(&rec)
		return tx.Save(&rec).Error
	})
}

func (s *sqliteStore) SaveSession(ctx context.Context, in Record) error {
	var userJSON datatypes.JSON
	if in.User != nil {
		raw, err := sonic.Marshal(in.User)
		if err != nil {
			return err
		}
		userJSON = datatypes.JSON(raw)
	}
	return s.upsert(ctx, func(rec *storage.SessionRecord) {
		rec.AccessToken = in.AccessToken
		rec.RefreshToken = in.RefreshToken
		rec.User = userJSON
	})
}

func (s *sqliteStore) LoadSession(ctx context.Context) (Record, error) {
	rec, found, err := s.fetch(ctx)
	if err != nil || !found {
		return Record{}, err
	}
	out := Record{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
	}
	if len(rec.User) > 0 {
		var user model.User
		if err := sonic.Unmarshal(rec.User, &user); err == nil {
			out.User = &user
		}
	}
	return out, nil
}

func (s *sqliteStore) ClearSession(ctx context.Context) error {
	return s.upsert(ctx, func(rec *storage.SessionRecord) {
		rec.AccessToken = ""
		rec.RefreshToken = ""
		rec.User = nil
	})
}

func (s *sqliteStore) SaveOTPToken(ctx context.Context, token string) error {
	return s.upsert(ctx, func(rec *storage.SessionRecord) {
		rec.OTPToken = token
	})
}

func (s *sqliteStore) LoadOTPToken(ctx context.Context) (string, error) {
	rec, found, err := s.fetch(ctx)
	if err != nil || !found {
		return "", err
	}
	return rec.OTPToken, nil
}

func (s *sqliteStore) ClearOTPToken(ctx context.Context) error {
	return s.SaveOTPToken(ctx, "")
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}
