package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/cache"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

const catalogExpiration = 5 * time.Minute

// CachedMovieRepository wraps a MovieRepository with a read-through cache for
// catalog searches. Every catalog write invalidates the whole search keyspace.
type CachedMovieRepository struct {
	inner  domain.MovieRepository
	cache  cache.Cache
	logger logger.Logger
}

func NewCachedMovieRepository(inner domain.MovieRepository, cacheInstance cache.Cache, logger logger.Logger) domain.MovieRepository {
	return &CachedMovieRepository{
		inner:  inner,
		cache:  cacheInstance,
		logger: logger,
	}
}

// searchKey builds a canonical cache key: criteria sorted by name so equal
// maps always hit the same entry.
func searchKey(criteria map[domain.SearchCriterion]string) string {
	if len(criteria) == 0 {
		return "catalog:search:all"
	}

	parts := make([]string, 0, len(criteria))
	for criterion, value := range criteria {
		parts = append(parts, fmt.Sprintf("%s=%s", criterion, strings.ToLower(value)))
	}
	sort.Strings(parts)

	return "catalog:search:" + strings.Join(parts, "&")
}

func (r *CachedMovieRepository) FindByID(id int64) (*domain.Movie, error) {
	return r.inner.FindByID(id)
}

func (r *CachedMovieRepository) Search(criteria map[domain.SearchCriterion]string) ([]*domain.Movie, error) {
	ctx := context.Background()
	key := searchKey(criteria)

	var cached []*domain.Movie
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	if err != cache.ErrCacheMiss {
		r.logger.Warn("catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	metrics.CacheMisses.Inc()

	movies, err := r.inner.Search(criteria)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, movies, catalogExpiration); err != nil {
		r.logger.Warn("catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return movies, nil
}

func (r *CachedMovieRepository) Create(movie *domain.Movie) error {
	if err := r.inner.Create(movie); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *CachedMovieRepository) Update(movie *domain.Movie) error {
	if err := r.inner.Update(movie); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *CachedMovieRepository) Delete(id int64) error {
	if err := r.inner.Delete(id); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *CachedMovieRepository) invalidate() {
	if err := r.cache.DeletePattern(context.Background(), "catalog:search:*"); err != nil {
		r.logger.Warn("catalog cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
