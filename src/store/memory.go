package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps scores in process. Used for local play and tests.
type Memory struct {
	mu     sync.Mutex
	scores []Score
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Insert(ctx context.Context, sub Submission) (Score, error) {
	sub, err := Validate(sub)
	if err != nil {
		return Score{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	score := Score{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Phone:     sub.Phone,
		Depth:     sub.Depth,
		Character: sub.Character,
		CreatedAt: m.now().UTC(),
	}
	m.scores = append(m.scores, score)
	return score, nil
}

// ranked returns a copy in leaderboard order. Insertion order breaks exact
// timestamp ties.
func (m *Memory) ranked() []Score {
	ranked := make([]Score, len(m.scores))
	copy(ranked, m.scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Depth != ranked[j].Depth {
			return ranked[i].Depth > ranked[j].Depth
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})
	return ranked
}

func (m *Memory) Top(ctx context.Context, limit int) ([]Entry, error) {
	limit = ClampLimit(limit)
	m.mu.Lock()
	defer m.mu.Unlock()
	ranked := m.ranked()
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]Entry, 0, len(ranked))
	for _, s := range ranked {
		entries = append(entries, s.Entry())
	}
	return entries, nil
}

// List pages through every score, newest first.
func (m *Memory) List(ctx context.Context, page, pageSize int) ([]Score, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	m.mu.Lock()
	defer m.mu.Unlock()

	total := len(m.scores)
	items := make([]Score, 0, pageSize)
	for i := total - 1 - (page-1)*pageSize; i >= 0 && len(items) < pageSize; i-- {
		items = append(items, m.scores[i])
	}
	return items, int64(total), nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.scores {
		if s.ID == id {
			m.scores = append(m.scores[:i], m.scores[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Close(ctx context.Context) error { return nil }
