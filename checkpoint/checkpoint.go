// Package checkpoint stores the state of a running chain in a bolt
// database, so an interrupted run can be resumed from the last saved
// state.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all the chains.
var MAIN = []byte("main")

// CheckpointData stores the chain state.
type CheckpointData struct {
	// Method is the sampler name.
	Method string `json:",omitempty"`
	// Parameters are all the model parameters.
	Parameters map[string]float64
	// Latent are the latent function values, if any.
	Latent []float64 `json:",omitempty"`
	// Likelihood is the log-target of the saved state.
	Likelihood float64
	// Iter is the number of completed iterations.
	Iter  int
	Final bool
}

// CheckpointIO saves and loads checkpoints of a single chain.
type CheckpointIO struct {
	db      *bolt.DB
	key     []byte
	method  string
	last    time.Time
	seconds float64
}

// Open opens (or creates) the checkpoint database.
func Open(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening checkpoint database %s", path)
	}
	return db, nil
}

// NewCheckpointIO creates a new CheckpointIO. Checkpoints are saved
// no more often than every seconds.
func NewCheckpointIO(db *bolt.DB, key []byte, method string, seconds float64) *CheckpointIO {
	return &CheckpointIO{
		db:      db,
		key:     key,
		method:  method,
		seconds: seconds,
		last:    time.Now(),
	}
}

// Save saves the chain state.
func (s *CheckpointIO) Save(data *CheckpointData) error {
	// Even if saving fails, we do not want to run this code too often.
	s.SetNow()
	if data.Method == "" {
		data.Method = s.method
	}
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = SaveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving checkpoint", err)
		return err
	}
	log.Debugf("Saved checkpoint (iter=%d, target=%f)", data.Iter, data.Likelihood)
	return nil
}

// Load returns the saved chain state, or nil if there is none.
func (s *CheckpointIO) Load() (*CheckpointData, error) {
	var data *CheckpointData

	b, err := LoadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	if err = json.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrap(err, "corrupted checkpoint")
	}

	if data == nil || len(data.Parameters) == 0 {
		return nil, nil
	}

	if data.Method != "" && s.method != "" && data.Method != s.method {
		log.Warningf("Checkpoint was created by %s, current sampler is %s", data.Method, s.method)
	}

	if data.Final {
		log.Noticef("Found finished chain checkpoint (iter=%v, target=%v)", data.Iter, data.Likelihood)
	} else {
		log.Noticef("Found unfinished chain checkpoint (iter=%v, target=%v)", data.Iter, data.Likelihood)
	}

	return data, nil
}

// Old returns true if last checkpoint save time too long ago.
func (s *CheckpointIO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets last checkpoint time to now.
func (s *CheckpointIO) SetNow() {
	s.last = time.Now()
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}

		// the value is only valid during the transaction
		if v := b.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
