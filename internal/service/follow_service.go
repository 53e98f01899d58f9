package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// FollowService maintains the social graph. Both mutations are idempotent:
// following an already-followed author and unfollowing a non-followed one
// are silent no-ops, as is an attempted self-follow. Side effects are
// confined to the follow edge set.
type FollowService struct {
	follows repository.FollowRepository
}

// NewFollowService creates a FollowService.
func NewFollowService(follows repository.FollowRepository) *FollowService {
	return &FollowService{follows: follows}
}

// Follow creates the follower -> author edge unless it already exists or the
// two IDs coincide.
func (s *FollowService) Follow(ctx context.Context, followerID, authorID uint) error {
	if followerID == authorID {
		return nil
	}
	exists, err := s.follows.IsFollowing(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.follows.Create(ctx, &models.Follow{
		FollowerID: followerID,
		AuthorID:   authorID,
	})
}

// Unfollow removes the follower -> author edge if present.
func (s *FollowService) Unfollow(ctx context.Context, followerID, authorID uint) error {
	if followerID == authorID {
		return nil
	}
	return s.follows.Delete(ctx, followerID, authorID)
}

// IsFollowing reports whether followerID follows authorID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, authorID)
}

// FollowingIDs returns the set of author IDs followerID follows.
func (s *FollowService) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.follows.FollowingIDs(ctx, followerID)
}
