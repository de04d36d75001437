package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-retry"

	"url-shortener/internal/cache"
	"url-shortener/internal/entities"
	"url-shortener/internal/repository"
	"url-shortener/internal/shortcode"
	"url-shortener/pkg/logger"
)

var (
	ErrInvalidURL  = errors.New("enter a valid http or https URL")
	ErrInvalidTTL  = errors.New("ttl_seconds must be >= 0")
	ErrInvalidCode = errors.New("code must be 1-32 characters from a-z, A-Z and 0-9")
	ErrCodeInUse   = errors.New("code already in use")
	ErrNotFound    = errors.New("short URL not found")
	ErrExpired     = errors.New("short URL expired")
)

const (
	// createAttempts bounds regeneration when a generated code loses a race
	// to a concurrent insert.
	createAttempts   = 10
	createRetryDelay = 5 * time.Millisecond

	defaultCacheTTL = time.Hour
	// maxTTLSeconds keeps now+ttl inside time.Duration range.
	maxTTLSeconds = math.MaxInt64 / int64(time.Second)
)

// LinkService defines the link lifecycle operations
type LinkService interface {
	CreateWithTTL(ctx context.Context, input CreateLinkInput) (*entities.Link, error)
	Resolve(ctx context.Context, code string) (*entities.Link, error)
	Redirect(ctx context.Context, code string) (*entities.Link, error)
	RegisterHit(ctx context.Context, link *entities.Link) error
	Stats(ctx context.Context, code string) (*LinkStats, error)
	IsExpired(link *entities.Link) bool
	TTLSecondsRemaining(link *entities.Link) *int64
}

// CreateLinkInput carries the optional parts of a new link as pointers:
// nil TTLSeconds means the link never expires, nil or empty Code means generate one.
type CreateLinkInput struct {
	URL        string
	TTLSeconds *int64
	Code       *string
}

type LinkStats struct {
	Link                *entities.Link
	Expired             bool
	TTLSecondsRemaining *int64
}

type Option func(*linkService)

// WithCodeLength sets the length of generated codes.
func WithCodeLength(length int) Option {
	return func(s *linkService) {
		if length > 0 {
			s.codeLength = length
		}
	}
}

// WithCacheTTL sets how long resolved links stay in the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *linkService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *linkService) {
		s.now = now
	}
}

type linkService struct {
	repo       repository.LinkRepository
	generator  *shortcode.Generator
	cache      cache.Cache
	codeLength int
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewLinkService creates a new link service. cacheClient may be nil, in which
// case every lookup goes to the repository.
func NewLinkService(repo repository.LinkRepository, cacheClient cache.Cache, opts ...Option) LinkService {
	svc := &linkService{
		repo:       repo,
		generator:  shortcode.NewGenerator(repo),
		codeLength: shortcode.DefaultLength,
		cacheTTL:   defaultCacheTTL,
		now:        time.Now,
	}
	if cacheClient != nil {
		svc.cache = cacheClient
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateWithTTL validates the input and persists a new link. Nothing is
// written unless every check passes.
func (s *linkService) CreateWithTTL(ctx context.Context, input CreateLinkInput) (*entities.Link, error) {
	targetURL, err := normalizeTargetURL(input.URL)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if input.TTLSeconds != nil {
		ttl := *input.TTLSeconds
		if ttl < 0 || ttl > maxTTLSeconds {
			return nil, ErrInvalidTTL
		}
		t := s.now().UTC().Add(time.Duration(ttl) * time.Second)
		expiresAt = &t
	}

	if input.Code != nil && *input.Code != "" {
		return s.createWithCode(ctx, *input.Code, targetURL, expiresAt)
	}
	return s.createWithGeneratedCode(ctx, targetURL, expiresAt)
}

func (s *linkService) createWithCode(ctx context.Context, code, targetURL string, expiresAt *time.Time) (*entities.Link, error) {
	if !shortcode.Valid(code) {
		return nil, ErrInvalidCode
	}

	exists, err := s.repo.Exists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check short code availability: %w", err)
	}
	if exists {
		return nil, ErrCodeInUse
	}

	link, err := s.repo.Create(ctx, code, targetURL, expiresAt)
	if errors.Is(err, repository.ErrDuplicateCode) {
		// Lost a race with a concurrent request for the same code
		return nil, ErrCodeInUse
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

func (s *linkService) createWithGeneratedCode(ctx context.Context, targetURL string, expiresAt *time.Time) (*entities.Link, error) {
	var link *entities.Link

	backoff := retry.WithMaxRetries(createAttempts-1, retry.NewConstant(createRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := s.generator.Generate(ctx, s.codeLength)
		if err != nil {
			return err
		}

		created, err := s.repo.Create(ctx, code, targetURL, expiresAt)
		if errors.Is(err, repository.ErrDuplicateCode) {
			logger.Debug().Str("code", code).Msg("generated code taken at insert, regenerating")
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		link = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

// Resolve returns the active link for code without counting a hit.
func (s *linkService) Resolve(ctx context.Context, code string) (*entities.Link, error) {
	link, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.IsExpired(link) {
		return nil, ErrExpired
	}
	return link, nil
}

// Redirect resolves code and records one hit.
func (s *linkService) Redirect(ctx context.Context, code string) (*entities.Link, error) {
	link, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.RegisterHit(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// RegisterHit increments the stored counter and copies the new value into link.
func (s *linkService) RegisterHit(ctx context.Context, link *entities.Link) error {
	count, err := s.repo.IncrementHitCount(ctx, link.Code)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to register hit: %w", err)
	}
	link.HitCount = count
	return nil
}

// Stats reads straight from the repository so the hit count is current.
// Expired links still have stats.
func (s *linkService) Stats(ctx context.Context, code string) (*LinkStats, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &LinkStats{
		Link:                link,
		Expired:             s.IsExpired(link),
		TTLSecondsRemaining: s.TTLSecondsRemaining(link),
	}, nil
}

func (s *linkService) IsExpired(link *entities.Link) bool {
	return link.IsExpiredAt(s.now())
}

func (s *linkService) TTLSecondsRemaining(link *entities.Link) *int64 {
	return link.TTLSecondsRemainingAt(s.now())
}
