// Package persistent keeps the last good dataset document on disk so the dashboard can boot without its source.
package persistent

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/splitio/go-toolkit/v5/logging"

	bolt "go.etcd.io/bbolt" // new fork maintained by etcd
)

// BoltInMemoryMode used to store the db into a random file in the temporary folder
const BoltInMemoryMode = ":memory:"
const inMemoryDBName = "adspend_"

const documentsBucket = "DATASET_DOCUMENTS"

var lastGoodKey = []byte("last-good")

// ErrorBucketNotFound error type for bucket not found
var ErrorBucketNotFound = errors.New("bucket not found")

// ErrorKeyNotFound error type for key not found within a bucket
var ErrorKeyNotFound = errors.New("key not found")

// StoredDocument is a raw dataset document as persisted on disk
type StoredDocument struct {
	Raw      []byte
	Checksum string
	Source   string
	StoredAt time.Time
}

// BoltStore persists dataset documents in a bbolt file
type BoltStore struct {
	db     *bolt.DB
	path   string
	temp   bool
	mutex  sync.Mutex
	logger logging.LoggerInterface
}

// NewBoltStore opens (or creates) the bolt file at path. BoltInMemoryMode uses a throwaway file.
func NewBoltStore(path string, logger logging.LoggerInterface) (*BoltStore, error) {
	dbpath := path
	temp := false
	if path == BoltInMemoryMode {
		dbpath = filepath.Join(os.TempDir(), fmt.Sprintf("%s%s.db", inMemoryDBName, uuid.New().String()))
		temp = true
	}

	db, err := bolt.Open(dbpath, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening db: %w", err)
	}

	return &BoltStore{db: db, path: dbpath, temp: temp, logger: logger}, nil
}

// Path returns the file backing the store
func (s *BoltStore) Path() string {
	return s.path
}

// SaveLastGood replaces the last known good document
func (s *BoltStore) SaveLastGood(doc StoredDocument) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var encodeBuffer bytes.Buffer
	if err := gob.NewEncoder(&encodeBuffer).Encode(doc); err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(documentsBucket))
		if err != nil {
			return err
		}
		return bucket.Put(lastGoodKey, encodeBuffer.Bytes())
	})
}

// LastGood returns the last known good document
func (s *BoltStore) LastGood() (*StoredDocument, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var item []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(documentsBucket))
		if bucket == nil {
			return ErrorBucketNotFound
		}

		itemRef := bucket.Get(lastGoodKey)
		if itemRef == nil {
			return ErrorKeyNotFound
		}
		item = make([]byte, len(itemRef))
		copy(item, itemRef)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var doc StoredDocument
	if err := gob.NewDecoder(bytes.NewReader(item)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding stored document: %w", err)
	}
	return &doc, nil
}

// Stop closes the db, removing the backing file when running in memory mode
func (s *BoltStore) Stop(_ bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.db.Close(); err != nil {
		return err
	}

	if s.temp {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warning("could not remove temporary db file: ", err)
		}
	}
	return nil
}
