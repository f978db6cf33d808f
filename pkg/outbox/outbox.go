// Package outbox keeps baked transactions and their broadcast results on disk.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/db"
	"github.com/ArkHQ/ark-engine/pkg/transaction"
)

var (
	ErrNotFound      = errors.New("outbox entry was not found")
	ErrNotIdentified = errors.New("only identified transaction can be stored")

	prefixEntry = []byte{0x01}
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

type Entry struct {
	Key         string    `json:"key"`
	ID          codec.Hex `json:"id"`
	Type        uint8     `json:"type"`
	Transaction codec.Hex `json:"transaction"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      Status    `json:"status"`
	Success     string    `json:"success,omitempty"`
	Messages    []string  `json:"messages,omitempty"`
	Attempts    int       `json:"attempts"`
}

type Outbox struct {
	mutex   *sync.Mutex
	db      *db.DB
	entropy io.Reader
	now     func() time.Time
}

func New(database *db.DB) *Outbox {
	return &Outbox{
		mutex:   new(sync.Mutex),
		db:      database,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:     time.Now,
	}
}

// Add stores the identified record as pending.
func (o *Outbox) Add(record *transaction.Record) (*Entry, error) {
	id, err := record.ID()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotIdentified, err)
	}
	o.mutex.Lock()
	defer o.mutex.Unlock()
	createdAt := o.now()
	key, err := ulid.New(ulid.Timestamp(createdAt), o.entropy)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Key:         key.String(),
		ID:          id,
		Type:        record.Type(),
		Transaction: record.Bytes(),
		CreatedAt:   createdAt.UTC(),
		Status:      StatusPending,
	}
	if err := o.save(key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (o *Outbox) Get(key string) (*Entry, error) {
	parsed, err := ulid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key %s", ErrNotFound, key)
	}
	value, err := o.db.Get(entryKey(parsed))
	if errors.Is(err, db.ErrDataNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	entry := &Entry{}
	if err := json.Unmarshal(value, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns entries newest first. limit -1 returns all.
func (o *Outbox) List(limit int) ([]*Entry, error) {
	kvs, err := o.db.Iterate(prefixEntry, limit, true)
	if err != nil {
		return nil, err
	}
	entries := make([]*Entry, len(kvs))
	for i, kv := range kvs {
		entry := &Entry{}
		if err := json.Unmarshal(kv.Value(), entry); err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}

// Pending returns entries not sent yet, oldest first.
func (o *Outbox) Pending() ([]*Entry, error) {
	entries, err := o.List(-1)
	if err != nil {
		return nil, err
	}
	pending := []*Entry{}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Status != StatusSent {
			pending = append(pending, entries[i])
		}
	}
	return pending, nil
}

// Complete records the broadcast result of the entry.
func (o *Outbox) Complete(key string, sent bool, success string, messages []string) (*Entry, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	entry, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	entry.Attempts++
	entry.Success = success
	entry.Messages = messages
	entry.Status = StatusFailed
	if sent {
		entry.Status = StatusSent
	}
	parsed, err := ulid.Parse(key)
	if err != nil {
		return nil, err
	}
	if err := o.save(parsed, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (o *Outbox) Delete(key string) error {
	parsed, err := ulid.Parse(key)
	if err != nil {
		return fmt.Errorf("%w: invalid key %s", ErrNotFound, key)
	}
	return o.db.Del(entryKey(parsed))
}

func (o *Outbox) save(key ulid.ULID, entry *Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return o.db.Set(entryKey(key), value)
}

func entryKey(key ulid.ULID) []byte {
	return append(append([]byte{}, prefixEntry...), key[:]...)
}
