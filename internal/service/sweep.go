package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"postsweeper/internal/media"
	"postsweeper/internal/metrics"
	"postsweeper/internal/model"
	"postsweeper/internal/repository"
	"postsweeper/internal/storage"
)

// RetentionWindow is how long a post is kept after its creation timestamp.
const RetentionWindow = 7 * 24 * time.Hour

// cleanupTimeLayout renders UTC times like 2024-01-15T02:00:00.123Z.
const cleanupTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SweepService runs retention sweeps over the posts collection.
type SweepService interface {
	// Run performs one sweep: read every post, delete the expired ones and
	// their media objects, and summarise the outcome.
	// Failures are reported in the result; Run never returns an error.
	Run(ctx context.Context) model.SweepResult
}

// Option customises a SweepService.
type Option func(*sweepService)

// WithClock overrides the time source used for the cutoff and the cleanup time.
func WithClock(now func() time.Time) Option {
	return func(s *sweepService) { s.now = now }
}

// WithMetrics attaches prometheus collectors to the sweeper.
func WithMetrics(m *metrics.SweepMetrics) Option {
	return func(s *sweepService) { s.metrics = m }
}

// sweepService is a concrete implementation of SweepService.
type sweepService struct {
	repo    repository.PostRepository
	store   storage.Storage
	logger  *zap.Logger
	metrics *metrics.SweepMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewSweepService constructs a new SweepService. The repository and storage
// clients are owned by the caller and reused across runs.
func NewSweepService(repo repository.PostRepository, store storage.Storage, logger *zap.Logger, opts ...Option) SweepService {
	s := &sweepService{
		repo:   repo,
		store:  store,
		logger: logger,
		tracer: otel.Tracer("postsweeper/internal/service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sweepService) Run(ctx context.Context) model.SweepResult {
	start := s.now()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	ctx, span := s.tracer.Start(ctx, "postsweeper.sweep",
		trace.WithAttributes(attribute.String("sweep.run_id", runID)))
	defer span.End()

	log.Info("starting cleanup of expired posts")

	res, err := s.sweep(ctx, log, start)
	if err != nil {
		log.Error("cleanup failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		res = model.SweepResult{
			Success:     false,
			Error:       err.Error(),
			CleanupTime: s.cleanupTime(),
		}
	}

	span.SetAttributes(
		attribute.Bool("sweep.success", res.Success),
		attribute.Int("sweep.deleted_posts", res.DeletedPosts),
		attribute.Int("sweep.deleted_media_files", res.DeletedMediaFiles),
	)
	s.metrics.ObserveSweep(res.Success, res.DeletedPosts, s.now().Sub(start))

	return res
}

func (s *sweepService) sweep(ctx context.Context, log *zap.Logger, start time.Time) (model.SweepResult, error) {
	posts, err := s.repo.FetchAll(ctx)
	if err != nil {
		return model.SweepResult{}, fmt.Errorf("fetch posts: %w", err)
	}
	if len(posts) == 0 {
		log.Info("no posts found in database")
		return model.SweepResult{
			Success:     true,
			Message:     "No posts found",
			CleanupTime: s.cleanupTime(),
		}, nil
	}

	cutoff := start.Add(-RetentionWindow).UnixMilli()
	expired, paths := s.classify(log, posts, cutoff)

	log.Info("found expired posts to delete",
		zap.Int("expired_posts", len(expired)),
		zap.Int("total_posts", len(posts)),
		zap.Int64("cutoff_ms", cutoff),
	)

	if len(expired) == 0 {
		log.Info("no expired posts found, cleanup complete")
		return model.SweepResult{
			Success:     true,
			Message:     "No expired posts to delete",
			CleanupTime: s.cleanupTime(),
		}, nil
	}

	if err := s.deleteAll(ctx, log, expired, paths); err != nil {
		return model.SweepResult{}, err
	}

	log.Info("cleanup completed successfully",
		zap.Int("deleted_posts", len(expired)),
		zap.Int("deleted_media_files", len(paths)),
	)

	return model.SweepResult{
		Success:           true,
		Message:           fmt.Sprintf("Successfully deleted %d expired posts", len(expired)),
		DeletedPosts:      len(expired),
		DeletedMediaFiles: len(paths),
		CleanupTime:       s.cleanupTime(),
	}, nil
}

// classify returns the IDs of posts created before cutoff and the object
// paths of their media. A post whose media URL cannot be parsed is still expired.
func (s *sweepService) classify(log *zap.Logger, posts map[string]model.Post, cutoff int64) (expired []string, paths []string) {
	for _, id := range slices.Sorted(maps.Keys(posts)) {
		p := posts[id]
		if !p.HasTimestamp() || *p.Timestamp >= cutoff {
			continue
		}
		expired = append(expired, id)

		if !p.HasMedia() {
			continue
		}
		path, err := media.ObjectPath(p.MediaURL)
		if err != nil {
			log.Error("error parsing media url",
				zap.String("post_id", id),
				zap.String("media_url", p.MediaURL),
				zap.Error(err),
			)
			s.metrics.MediaURLInvalid()
			continue
		}
		paths = append(paths, path)
	}
	return expired, paths
}

// deleteAll dispatches every post and media deletion at once and waits for all of them.
// Media failures are logged and swallowed; the first post failure is returned.
func (s *sweepService) deleteAll(ctx context.Context, log *zap.Logger, ids, paths []string) error {
	var g errgroup.Group

	for _, id := range ids {
		log.Info("deleting post", zap.String("post_id", id))
		g.Go(func() error {
			if err := s.repo.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete post %s: %w", id, err)
			}
			return nil
		})
	}

	for _, path := range paths {
		log.Info("deleting media file", zap.String("path", path))
		g.Go(func() error {
			if err := s.store.Delete(ctx, path); err != nil {
				log.Warn("error deleting media file", zap.String("path", path), zap.Error(err))
				s.metrics.MediaDeleteFailed()
				return nil
			}
			s.metrics.MediaDeleted()
			return nil
		})
	}

	return g.Wait()
}

func (s *sweepService) cleanupTime() string {
	return s.now().UTC().Format(cleanupTimeLayout)
}
