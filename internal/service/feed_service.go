// Package service contains the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
)

// PostPage is one feed page of posts.
type PostPage = pagination.Page[*models.Post]

// FeedService composes feed pages for every scope: global, group, author and
// following. All scopes share the same total ordering (newest first, id as
// tie-break) and the same page size; each page is produced by one count plus
// one eager-loading query.
type FeedService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	pageSize int
}

// NewFeedService creates a FeedService. pageSize <= 0 falls back to the default.
func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		pageSize: pageSize,
	}
}

// PageSize returns the configured page size.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// GlobalPage returns one page of the site-wide feed.
func (s *FeedService) GlobalPage(ctx context.Context, pageNum int) (PostPage, error) {
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return PostPage{}, err
	}
	number, offset := pagination.Resolve(total, s.pageSize, pageNum)
	posts, err := s.posts.List(ctx, s.pageSize, offset)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.New(posts, total, s.pageSize, number), nil
}

// GroupPage returns the group identified by slug and one page of its posts.
// An unresolved slug surfaces as a not-found error.
func (s *FeedService) GroupPage(ctx context.Context, slug string, pageNum int) (*models.Group, PostPage, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, err
	}
	total, err := s.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, PostPage{}, err
	}
	number, offset := pagination.Resolve(total, s.pageSize, pageNum)
	posts, err := s.posts.ListByGroup(ctx, group.ID, s.pageSize, offset)
	if err != nil {
		return nil, PostPage{}, err
	}
	return group, pagination.New(posts, total, s.pageSize, number), nil
}

// AuthorPage returns the author identified by username, one page of their
// posts, and whether requesterID currently follows the author (always false
// for requesterID 0, the anonymous requester).
func (s *FeedService) AuthorPage(ctx context.Context, username string, requesterID uint, pageNum int) (*models.User, PostPage, bool, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, PostPage{}, false, err
	}
	total, err := s.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, PostPage{}, false, err
	}
	number, offset := pagination.Resolve(total, s.pageSize, pageNum)
	posts, err := s.posts.ListByAuthor(ctx, author.ID, s.pageSize, offset)
	if err != nil {
		return nil, PostPage{}, false, err
	}

	following := false
	if requesterID != 0 {
		following, err = s.follows.IsFollowing(ctx, requesterID, author.ID)
		if err != nil {
			return nil, PostPage{}, false, err
		}
	}

	return author, pagination.New(posts, total, s.pageSize, number), following, nil
}

// FollowingPage returns one page of posts authored by anyone userID follows.
// An empty following set yields an empty page, never an error.
func (s *FeedService) FollowingPage(ctx context.Context, userID uint, pageNum int) (PostPage, error) {
	authorIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return PostPage{}, err
	}
	total, err := s.posts.CountByAuthors(ctx, authorIDs)
	if err != nil {
		return PostPage{}, err
	}
	number, offset := pagination.Resolve(total, s.pageSize, pageNum)
	posts, err := s.posts.ListByAuthors(ctx, authorIDs, s.pageSize, offset)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.New(posts, total, s.pageSize, number), nil
}
