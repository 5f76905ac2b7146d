package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_client/internal/models"
)

// sessionRecord is a singleton row: identity and token live in the same
// record so a reload can never observe one without the other.
type sessionRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserJSON  string `gorm:"not null"`
	Token     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string { return "session_state" }

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("не удалось выполнить миграцию: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveSession(user *models.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	rec := sessionRecord{ID: 1, UserJSON: string(data), Token: token}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns (nil, "") without error when no session is stored.
func (s *Store) LoadSession() (*models.User, string, error) {
	var rec sessionRecord
	err := s.db.First(&rec, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(rec.UserJSON), &user); err != nil {
		return nil, "", fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, rec.Token, nil
}

func (s *Store) ClearSession() error {
	if err := s.db.Delete(&sessionRecord{}, 1).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
