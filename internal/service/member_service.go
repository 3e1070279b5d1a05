package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"staffportal/internal/model"
)

const memberSearchTTL = 60 * time.Second

type MemberStore interface {
	Search(ctx context.Context, term string) ([]model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}

// MemberService answers directory queries. The cache is optional; every
// cache failure falls through to the database.
type MemberService struct {
	repo   MemberStore
	cache  *redis.Client
	logger *zap.Logger
}

func NewMemberService(repo MemberStore, cache *redis.Client, logger *zap.Logger) *MemberService {
	return &MemberService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Search returns directory matches for a free-text term. An empty or
// whitespace term yields an empty list without touching the database.
func (s *MemberService) Search(ctx context.Context, term string) ([]model.MemberView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.MemberView{}, nil
	}

	key := "member_search:" + strings.ToLower(term)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var views []model.MemberView
			if err := json.Unmarshal([]byte(raw), &views); err == nil {
				return views, nil
			}
		}
	}

	members, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}

	views := make([]model.MemberView, 0, len(members))
	for i := range members {
		views = append(views, members[i].View())
	}

	if s.cache != nil {
		if raw, err := json.Marshal(views); err == nil {
			if err := s.cache.Set(ctx, key, raw, memberSearchTTL).Err(); err != nil {
				s.logger.Warn("member search cache write failed", zap.Error(err))
			}
		}
	}

	return views, nil
}

// List returns the full directory, serialized for display.
func (s *MemberService) List(ctx context.Context) ([]model.MemberView, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	views := make([]model.MemberView, 0, len(members))
	for i := range members {
		views = append(views, members[i].View())
	}
	return views, nil
}
