package memory

import (
	"time"

	"ai-docgen-be/internal/workflow"

	"github.com/patrickmn/go-cache"
)

// CheckpointRepository keeps the latest session state snapshot per run
// token. Entries expire after the session has been idle for an hour.
type CheckpointRepository struct {
	cache *cache.Cache
}

func NewCheckpointRepository() *CheckpointRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CheckpointRepository{
		cache: c,
	}
}

func (r *CheckpointRepository) Save(runToken string, state *workflow.SessionState) {
	// Snapshot, not alias: the engine goroutine keeps mutating state.
	r.cache.Set(runToken, state.Clone(), cache.DefaultExpiration)
}

func (r *CheckpointRepository) Get(runToken string) (*workflow.SessionState, bool) {
	if x, found := r.cache.Get(runToken); found {
		return x.(*workflow.SessionState), true
	}
	return nil, false
}

func (r *CheckpointRepository) Delete(runToken string) {
	r.cache.Delete(runToken)
}
