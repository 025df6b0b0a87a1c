package election

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cuemby/quorumstate/pkg/types"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketElection = []byte("election")

// record is the on-disk encoding of a State plus the protocol version
// active when it was written. Keeping this separate from State lets the
// in-memory type stay free of JSON tags and zero-value ambiguity.
type record struct {
	Epoch             uint32  `json:"epoch"`
	LeaderID          *int32  `json:"leader_id,omitempty"`
	VotedID           *int32  `json:"voted_id,omitempty"`
	VotedDirectoryID  string  `json:"voted_directory_id,omitempty"`
	VoterIDs          []int32 `json:"voter_ids"`
	KraftVersion      int16   `json:"kraft_version"`
}

// BoltStore is a Store backed by a bbolt database file, one bucket keyed
// by replica id. db.Update commits fsync the write-ahead page before
// returning, giving the synchronous durability the quorum state manager
// requires of every durable transition.
type BoltStore struct {
	db       *bolt.DB
	replicaID int32
	path     string
}

// NewBoltStore opens (creating if necessary) a bbolt database at
// <dataDir>/election.db for the given replica id.
func NewBoltStore(dataDir string, replicaID int32) (*BoltStore, error) {
	path := filepath.Join(dataDir, "election.db")

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("election: failed to open store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketElection)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("election: failed to create bucket: %w", err)
	}

	return &BoltStore{db: db, replicaID: replicaID, path: path}, nil
}

// Path returns the backing file path.
func (s *BoltStore) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) key() []byte {
	return []byte(strconv.FormatInt(int64(s.replicaID), 10))
}

// Read returns the stored state, or nil if this replica has never
// written one.
func (s *BoltStore) Read() (*State, error) {
	var rec *record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketElection)
		data := b.Get(s.key())
		if data == nil {
			return nil
		}
		rec = &record{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("election: failed to read state: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	state := &State{
		Epoch:    rec.Epoch,
		LeaderID: rec.LeaderID,
		VoterIDs: rec.VoterIDs,
	}
	if rec.VotedID != nil {
		dirID, err := uuid.Parse(rec.VotedDirectoryID)
		if err != nil {
			return nil, fmt.Errorf("election: stored voted-key has invalid directory id: %w", err)
		}
		state.VotedKey = &types.ReplicaKey{ID: *rec.VotedID, DirectoryID: dirID}
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

// Write durably persists state and kraftVersion.
func (s *BoltStore) Write(state State, kraftVersion int16) error {
	if err := state.Validate(); err != nil {
		return err
	}

	rec := record{
		Epoch:        state.Epoch,
		LeaderID:     state.LeaderID,
		VoterIDs:     state.VoterIDs,
		KraftVersion: kraftVersion,
	}
	if state.VotedKey != nil {
		id := state.VotedKey.ID
		rec.VotedID = &id
		rec.VotedDirectoryID = state.VotedKey.DirectoryID.String()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("election: failed to encode state: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketElection)
		return b.Put(s.key(), data)
	})
}
