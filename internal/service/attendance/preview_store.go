package attendance

import (
	"sync"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// previewTTL bounds how long a previewed batch stays committable.
const previewTTL = 30 * time.Minute

type previewBatch struct {
	summaries []attendance.DailySummary
	dates     []time.Time
	createdAt time.Time
}

// previewStore holds previewed batches so commit can refuse summary sets that
// were not produced by a prior preview in the same session. Tokens are
// single-use.
type previewStore struct {
	mu      sync.Mutex
	batches map[string]previewBatch
	now     func() time.Time
}

func newPreviewStore() *previewStore {
	return &previewStore{
		batches: make(map[string]previewBatch),
		now:     time.Now,
	}
}

// Put stores a previewed batch and returns its token.
func (s *previewStore) Put(summaries []attendance.DailySummary, dates []time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop expired batches while we hold the lock anyway.
	for token, batch := range s.batches {
		if s.now().Sub(batch.createdAt) > previewTTL {
			delete(s.batches, token)
		}
	}

	token := uuid.New().String()
	s.batches[token] = previewBatch{
		summaries: summaries,
		dates:     dates,
		createdAt: s.now(),
	}
	return token
}

// Take removes and returns the batch for a token. A second Take with the same
// token fails: a committed (or failed) batch must be re-previewed, never
// blindly re-written.
func (s *previewStore) Take(token string) (previewBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[token]
	if !ok {
		return previewBatch{}, attendance.ErrUnknownPreviewBatch
	}
	delete(s.batches, token)

	if s.now().Sub(batch.createdAt) > previewTTL {
		return previewBatch{}, attendance.ErrPreviewBatchExpired
	}
	return batch, nil
}
