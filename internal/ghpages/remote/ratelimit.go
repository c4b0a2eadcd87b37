package remote

import (
	"context"
	"sync"
	"time"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FallbackRate is used when the quota cannot be read: 20 calls per minute,
// the host's documented secondary limit for content creation.
const FallbackRate = rate.Limit(20.0 / 60.0)

// SustainedRate spreads the remaining quota evenly until the reset time,
// counting at least one second. A non-positive result (exhausted quota,
// missing headers) yields FallbackRate.
func SustainedRate(remaining int, reset, now time.Time) rate.Limit {
	window := max(int64(reset.Sub(now)/time.Second), 1)
	limit := rate.Limit(float64(remaining) / float64(window))
	if limit <= 0 {
		return FallbackRate
	}
	return limit
}

// RateLimitedService gates every mutating call of the wrapped service
// through a token bucket. The rate is computed once, from the host quota,
// the first time a mutating call is made.
type RateLimitedService struct {
	DataService

	log *zap.SugaredLogger
	now func() time.Time

	once    sync.Once
	limiter *rate.Limiter
}

// NewRateLimitedService wraps inner. Read-only calls pass straight through.
func NewRateLimitedService(inner DataService, log *zap.SugaredLogger) *RateLimitedService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RateLimitedService{DataService: inner, log: log, now: time.Now}
}

// init reads the quota. The lookup outlives the caller's cancellation so
// that the rate reflects the host quota for the rest of the run.
func (s *RateLimitedService) init(ctx context.Context) {
	quota, err := s.DataService.Quota(context.WithoutCancel(ctx))
	limit := FallbackRate
	if err != nil {
		s.log.Debugf("Could not query rate limit, using %.3f requests/s: %v", float64(limit), err)
	} else {
		limit = SustainedRate(quota.Remaining, quota.Reset, s.now())
		s.log.Debugf("Rate limit: %d remaining until %s, using %.3f requests/s",
			quota.Remaining, quota.Reset.Format(time.RFC3339), float64(limit))
	}
	s.limiter = rate.NewLimiter(limit, 1)
}

// Limit returns the sustained rate, probing the quota if that has not
// happened yet.
func (s *RateLimitedService) Limit(ctx context.Context) rate.Limit {
	s.once.Do(func() { s.init(ctx) })
	return s.limiter.Limit()
}

func (s *RateLimitedService) acquire(ctx context.Context) error {
	s.once.Do(func() { s.init(ctx) })
	return s.limiter.Wait(ctx)
}

func (s *RateLimitedService) CreateBlob(ctx context.Context, repo types.RepositoryID, blob types.Blob) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	return s.DataService.CreateBlob(ctx, repo, blob)
}

func (s *RateLimitedService) CreateTree(ctx context.Context, repo types.RepositoryID, baseTree string, entries []types.TreeEntry) (*types.Tree, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return s.DataService.CreateTree(ctx, repo, baseTree, entries)
}

func (s *RateLimitedService) CreateCommit(ctx context.Context, repo types.RepositoryID, commit types.Commit) (*types.Commit, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return s.DataService.CreateCommit(ctx, repo, commit)
}

func (s *RateLimitedService) CreateReference(ctx context.Context, repo types.RepositoryID, ref types.Reference) (*types.Reference, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return s.DataService.CreateReference(ctx, repo, ref)
}

func (s *RateLimitedService) EditReference(ctx context.Context, repo types.RepositoryID, ref types.Reference, force bool) (*types.Reference, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return s.DataService.EditReference(ctx, repo, ref, force)
}
