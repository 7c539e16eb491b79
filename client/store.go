package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

const (
	bucketName = "shms"
	keyPrefix  = "shms."

	tokenKey = keyPrefix + "token"
	userKey  = keyPrefix + "user"
)

// Local list keys
const (
	ResourceComplaints = "complaints"
	ResourceOutpasses  = "outpasses"
	ResourceVisitors   = "visitors"
	ResourceFeedbacks  = "feedbacks"
	ResourceRooms      = "rooms"
	ResourceNotices    = "notices"
	ResourceStudents   = "students"
)

func listKey(resource string) string {
	return keyPrefix + resource + ".v1"
}

// Store persists the session and the locally mirrored lists as JSON values of a single bbolt bucket.
type Store struct {
	db *bbolt.DB
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating store dir")
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value under `key` into `v`. It reports false when the key is unset.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", key)
	}
	return found, nil
}

func (s *Store) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

func (s *Store) Delete(keys ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// update reads the value under `key` into `v`, lets `fn` modify it and writes it back in one transaction.
func (s *Store) update(key string, v interface{}, fn func() error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if data := b.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, v); err != nil {
				return errors.Wrapf(err, "reading %s", key)
			}
		}
		if err := fn(); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", key)
		}
		return b.Put([]byte(key), data)
	})
}
