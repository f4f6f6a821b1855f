package service

import (
	"codequest_backend/internal/model"
	"codequest_backend/internal/quest"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const LeaderboardSize = 10

type ProgressService struct {
	UserRepo *repository.UserRepository
	Cache    repository.LeaderboardCache

	mu  sync.RWMutex
	ttl time.Duration
}

// NewProgressService cache 可以为 nil，此时排行榜直接查库
func NewProgressService(userRepo *repository.UserRepository, cache repository.LeaderboardCache, ttl time.Duration) *ProgressService {
	return &ProgressService{
		UserRepo: userRepo,
		Cache:    cache,
		ttl:      ttl,
	}
}

func (s *ProgressService) SetCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
}

func (s *ProgressService) cacheTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

func (s *ProgressService) GetProfile(email string) (*model.Profile, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

func (s *ProgressService) SaveProgress(ctx context.Context, u repository.ProgressUpdate) (*model.Profile, error) {
	user, badgeAdded, err := s.UserRepo.SaveProgress(u)
	if err != nil {
		return nil, err
	}

	if u.Quest != "" {
		monitoring.ProgressSaves.WithLabelValues(string(u.Quest)).Inc()
		if badgeAdded {
			monitoring.BadgesAwarded.WithLabelValues(string(u.Quest)).Inc()
		}
		if s.Cache != nil {
			if err := s.Cache.Invalidate(ctx, u.Quest); err != nil {
				logger.Log.Warn("Failed to invalidate leaderboard cache",
					zap.String("quest", string(u.Quest)), zap.Error(err))
			}
		}
	}

	logger.Log.Debug("Progress saved",
		zap.String("email", u.Email),
		zap.String("quest", string(u.Quest)),
		zap.Int("value", u.Value),
		zap.Int("stars", u.Stars),
		zap.Bool("badge_added", badgeAdded),
	)

	p := user.Profile()
	return &p, nil
}

func (s *ProgressService) Leaderboard(ctx context.Context, subject quest.Subject) ([]model.LeaderboardEntry, error) {
	if s.Cache != nil {
		entries, ok, err := s.Cache.Get(ctx, subject)
		switch {
		case err != nil:
			monitoring.LeaderboardCache.WithLabelValues("error").Inc()
			logger.Log.Warn("Leaderboard cache read failed", zap.String("quest", string(subject)), zap.Error(err))
		case ok:
			monitoring.LeaderboardCache.WithLabelValues("hit").Inc()
			return entries, nil
		default:
			monitoring.LeaderboardCache.WithLabelValues("miss").Inc()
		}
	}

	users, err := s.UserRepo.TopByQuest(subject, LeaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, model.LeaderboardEntry{
			Name:     u.Name,
			Progress: map[string]int{string(subject): u.Profile().Progress.Count(string(subject))},
		})
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, subject, entries, s.cacheTTL()); err != nil {
			logger.Log.Warn("Leaderboard cache write failed", zap.String("quest", string(subject)), zap.Error(err))
		}
	}
	return entries, nil
}
