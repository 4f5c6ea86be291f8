package ports

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

// ProjectRepository defines persistence for projects and their embedded
// vote/comment sub-collections.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	// FindByOwner returns the owner's projects, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Project, error)
	// FindAllWithOwner returns all projects newest first with the owner's
	// display fields joined in.
	FindAllWithOwner(ctx context.Context) ([]*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByIDWithOwner(ctx context.Context, id string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error

	// ToggleVote applies one vote action atomically on the stored document:
	// same-side vote removes the caller (toggle-off), opposite-side vote
	// switches sides, and the stored counts are recomputed from the sets in
	// the same write. Returns the updated project.
	ToggleVote(ctx context.Context, projectID, userID string, dir domain.VoteDirection) (*domain.Project, error)

	// AddComment prepends cm to the project's comment list.
	AddComment(ctx context.Context, projectID string, cm domain.Comment) (*domain.Project, error)
	// RemoveComment deletes one comment by ID. The caller is responsible for
	// the author-only check.
	RemoveComment(ctx context.Context, projectID, commentID string) (*domain.Project, error)

	EnsureIndexes(ctx context.Context) error
}

// CommunityCache caches the joined community feed between writes.
type CommunityCache interface {
	Get(ctx context.Context) ([]*domain.Project, bool)
	Set(ctx context.Context, projects []*domain.Project)
	Invalidate(ctx context.Context)
}
