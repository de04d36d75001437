package repository

import (
	"context"
	"sync"
	"time"

	"url-shortener/internal/entities"
)

// memoryLinkRepository keeps links in a map. It backs local runs without
// Postgres and the unit tests.
type memoryLinkRepository struct {
	mu     sync.Mutex
	links  map[string]*entities.Link
	nextID int64
	now    func() time.Time
}

type MemoryOption func(*memoryLinkRepository)

// WithMemoryClock sets the clock used for created_at, for tests that also
// drive the service clock.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(r *memoryLinkRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewMemoryLinkRepository(opts ...MemoryOption) LinkRepository {
	r := &memoryLinkRepository{
		links: make(map[string]*entities.Link),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *memoryLinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.links[code]
	return ok, nil
}

func (r *memoryLinkRepository) FindByCode(ctx context.Context, code string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[code]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLink(link), nil
}

func (r *memoryLinkRepository) Create(ctx context.Context, code, targetURL string, expiresAt *time.Time) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[code]; ok {
		return nil, ErrDuplicateCode
	}

	r.nextID++
	link := &entities.Link{
		ID:        r.nextID,
		Code:      code,
		TargetURL: targetURL,
		CreatedAt: r.now().UTC(),
	}
	if expiresAt != nil {
		t := expiresAt.UTC()
		link.ExpiresAt = &t
	}
	r.links[code] = link
	return copyLink(link), nil
}

func (r *memoryLinkRepository) IncrementHitCount(ctx context.Context, code string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[code]
	if !ok {
		return 0, ErrNotFound
	}
	link.HitCount++
	return link.HitCount, nil
}

func copyLink(link *entities.Link) *entities.Link {
	c := *link
	if link.ExpiresAt != nil {
		t := *link.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}
