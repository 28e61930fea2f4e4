package tenant

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/cache"
)

// CachedCourseSource layers a Redis cache over another CourseSource.
// Concurrent lookups of the same course are collapsed into one backing
// query via singleflight. Not-found results are not cached.
type CachedCourseSource struct {
	inner  CourseSource
	cache  *cache.Manager
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger

	// onHit and onMiss are optional metric hooks.
	onHit  func()
	onMiss func()
}

// NewCachedCourseSource wraps inner with caching. A zero ttl defers to
// the cache manager's default.
func NewCachedCourseSource(inner CourseSource, c *cache.Manager, ttl time.Duration, logger *zap.Logger) *CachedCourseSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCourseSource{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "course_cache")),
	}
}

// WithMetrics installs cache hit and miss hooks.
func (s *CachedCourseSource) WithMetrics(onHit, onMiss func()) *CachedCourseSource {
	s.onHit = onHit
	s.onMiss = onMiss
	return s
}

// ByID implements CourseSource.
func (s *CachedCourseSource) ByID(ctx context.Context, id string) (*Course, error) {
	return s.lookup(ctx, "course:id:"+id, func(ctx context.Context) (*Course, error) {
		return s.inner.ByID(ctx, id)
	})
}

// ByKnowledgeBaseID implements CourseSource.
func (s *CachedCourseSource) ByKnowledgeBaseID(ctx context.Context, knowledgeBaseID string) (*Course, error) {
	return s.lookup(ctx, "course:kb:"+knowledgeBaseID, func(ctx context.Context) (*Course, error) {
		return s.inner.ByKnowledgeBaseID(ctx, knowledgeBaseID)
	})
}

func (s *CachedCourseSource) lookup(ctx context.Context, key string, fetch func(context.Context) (*Course, error)) (*Course, error) {
	var cached Course
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		if s.onHit != nil {
			s.onHit()
		}
		return &cached, nil
	}
	if !cache.IsCacheMiss(err) {
		// Degrade to the backing store on cache trouble.
		s.logger.Warn("course cache read failed", zap.String("key", key), zap.Error(err))
	} else if s.onMiss != nil {
		s.onMiss()
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		course, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, key, course, s.ttl); err != nil {
			s.logger.Warn("course cache write failed", zap.String("key", key), zap.Error(err))
		}
		return course, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Course), nil
}
