package jsonstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"BistroGolang/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the whole database. Every mutation rewrites the file.
type Document struct {
	Users    []entity.User    `json:"users"`
	Bookings []entity.Booking `json:"bookings"`
	Reviews  []entity.Review  `json:"reviews"`
}

type Store struct {
	mu   sync.Mutex
	path string
	log  *logrus.Logger
}

func New(log *logrus.Logger) (*Store, error) {
	path := os.Getenv("STORE_PATH")
	if path == "" {
		path = "./server-db.json"
	}

	s := &Store{
		path: path,
		log:  log,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(&Document{
			Users:    []entity.User{},
			Bookings: []entity.Booking{},
			Reviews:  []entity.Review{},
		}); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat store: %w", err)
	}

	return s, nil
}

// View runs fn with a snapshot of the document. fn must not retain the
// document past its return.
func (s *Store) View(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	return fn(doc)
}

// Update runs fn under the store lock and persists the document when fn
// succeeds. Returning an error from fn discards the mutation.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.save(doc)
}

func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}

	if doc.Users == nil {
		doc.Users = []entity.User{}
	}
	if doc.Bookings == nil {
		doc.Bookings = []entity.Booking{}
	}
	if doc.Reviews == nil {
		doc.Reviews = []entity.Review{}
	}

	return &doc, nil
}

// save writes to a sibling temp file first so a crash mid-write cannot leave
// a truncated database behind.
func (s *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}

	return os.Rename(tmp, s.path)
}
