package database

import (
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
)

// Entry is one durable key/value pair of client-local state.
type Entry struct {
	Name      string `gorm:"primary_key"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store is a durable key/value store backed by a sqlite file.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	// sqlite allows a single writer
	db.DB().SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Entry{}).Error; err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate entries")
	}
	return &Store{db: db}, nil
}

// Get returns the stored value and whether the key exists.
func (s *Store) Get(name string) (string, bool, error) {
	var e Entry
	err := s.db.Where("name = ?", name).First(&e).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", name)
	}
	return e.Value, true, nil
}

func (s *Store) Set(name, value string) error {
	var e Entry
	err := s.db.Where(Entry{Name: name}).
		Assign(Entry{Value: value, UpdatedAt: time.Now()}).
		FirstOrCreate(&e).Error
	return errors.Wrapf(err, "set %s", name)
}

func (s *Store) Delete(name string) error {
	err := s.db.Where("name = ?", name).Delete(&Entry{}).Error
	return errors.Wrapf(err, "delete %s", name)
}

func (s *Store) Close() error {
	return s.db.Close()
}
