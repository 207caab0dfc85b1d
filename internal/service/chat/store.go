package chat

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/everkind/backend/internal/model/chat"
)

// Store holds session records keyed by conversation id.
type Store interface {
	Insert(ctx context.Context, id string, record chat.SessionRecord) error
	Lookup(ctx context.Context, id string) (chat.SessionRecord, bool, error)
	Len() int
}

// MemoryStore keeps records in process memory.
// maxEntries == 0 means unbounded and ttl == 0 means records never expire.
type MemoryStore struct {
	cache *expirable.LRU[string, chat.SessionRecord]
}

// NewMemoryStore bootstraps the in-memory session store.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &MemoryStore{cache: expirable.NewLRU[string, chat.SessionRecord](maxEntries, nil, ttl)}
}

// Insert stores a copy of record under id, replacing any previous record.
func (s *MemoryStore) Insert(_ context.Context, id string, record chat.SessionRecord) error {
	record.Messages = cloneMessages(record.Messages)
	s.cache.Add(id, record)
	return nil
}

// Lookup returns a copy of the record stored under id.
func (s *MemoryStore) Lookup(_ context.Context, id string) (chat.SessionRecord, bool, error) {
	record, ok := s.cache.Get(id)
	if !ok {
		return chat.SessionRecord{}, false, nil
	}
	record.Messages = cloneMessages(record.Messages)
	return record, true, nil
}

// Len reports the number of live records.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

func cloneMessages(messages []chat.PromptMessage) []chat.PromptMessage {
	copied := make([]chat.PromptMessage, len(messages))
	copy(copied, messages)
	return copied
}
