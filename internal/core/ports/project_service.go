package ports

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a project. Legacy
// title/description aliases are normalized into the canonical fields before
// this struct is built.
type CreateProjectInput struct {
	OwnerID            string
	ProjectName        string
	ProjectDescription string
	TechUsed           domain.TechCategory
	ProjectURL         string
	GithubURL          string
	ScreenshotURL      string
}

// ProjectService defines project, vote and comment use-cases.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	ListOwn(ctx context.Context, ownerID string) ([]*domain.Project, error)
	ListCommunity(ctx context.Context) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	// Delete removes the project and its uploaded screenshot. Owner-only.
	Delete(ctx context.Context, id, callerID string) error

	Vote(ctx context.Context, projectID, userID string, dir domain.VoteDirection) (*domain.Project, error)
	// AddComment stamps the author's current display name onto the comment.
	AddComment(ctx context.Context, projectID, authorID, text string) (*domain.Project, error)
	// DeleteComment removes one comment. Author-only.
	DeleteComment(ctx context.Context, projectID, commentID, callerID string) (*domain.Project, error)
}
