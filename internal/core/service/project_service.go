package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/eduport/portfolio-api/internal/api/metrics"
	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

// ProjectService implements project, vote and comment use-cases. All state
// transitions on votes happen inside the repository as single-document
// atomic updates; this layer owns validation and ownership rules.
type ProjectService struct {
	repo   ports.ProjectRepository
	users  ports.UserRepository
	files  ports.FileStore
	cache  ports.CommunityCache
	logger zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, users ports.UserRepository, files ports.FileStore, cache ports.CommunityCache, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, users: users, files: files, cache: cache, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if !input.TechUsed.Valid() {
		return nil, domain.ErrInvalidTech
	}

	project := &domain.Project{
		UserID:             input.OwnerID,
		ProjectName:        input.ProjectName,
		ProjectDescription: input.ProjectDescription,
		TechUsed:           input.TechUsed,
		ProjectURL:         input.ProjectURL,
		GithubURL:          input.GithubURL,
		ScreenshotURL:      input.ScreenshotURL,
		UpvotedBy:          []string{},
		DownvotedBy:        []string{},
		Comments:           []domain.Comment{},
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", input.OwnerID).Msg("failed to create project")
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info().Str("project_id", created.ID).Str("owner", created.UserID).Msg("project created")
	return created, nil
}

func (s *ProjectService) ListOwn(ctx context.Context, ownerID string) ([]*domain.Project, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// ListCommunity returns every project with its owner joined in, newest first.
// Reads go through the cache; any project write invalidates it.
func (s *ProjectService) ListCommunity(ctx context.Context) ([]*domain.Project, error) {
	if s.cache != nil {
		if projects, ok := s.cache.Get(ctx); ok {
			return projects, nil
		}
	}

	projects, err := s.repo.FindAllWithOwner(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, projects)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByIDWithOwner(ctx, id)
}

// Delete removes a project and its uploaded screenshot. Only the owner may
// delete; ownership is identity equality, independent of role.
func (s *ProjectService) Delete(ctx context.Context, id, callerID string) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.UserID != callerID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if project.ScreenshotURL != "" && s.files != nil {
		if err := s.files.Remove(ctx, project.ScreenshotURL); err != nil {
			// The document is gone; a stranded file is not worth failing the request.
			s.logger.Warn().Err(err).Str("path", project.ScreenshotURL).Msg("failed to remove screenshot")
		}
	}

	s.invalidate(ctx)
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// Vote applies the toggle policy for one (project, user) pair: a same-side
// repeat reverts to neutral, an opposite-side vote switches sides. The
// repository performs the whole transition as one atomic document update.
func (s *ProjectService) Vote(ctx context.Context, projectID, userID string, dir domain.VoteDirection) (*domain.Project, error) {
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return nil, domain.ErrInvalidVote
	}

	updated, err := s.repo.ToggleVote(ctx, projectID, userID, dir)
	if err != nil {
		return nil, err
	}

	metrics.VotesTotal.WithLabelValues(string(dir)).Inc()
	s.invalidate(ctx)
	return updated, nil
}

func (s *ProjectService) AddComment(ctx context.Context, projectID, authorID, text string) (*domain.Project, error) {
	text = strings.TrimSpace(text)
	// The bound is characters, not bytes; multi-byte text counts by rune.
	if text == "" || utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return nil, domain.ErrInvalidComment
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	cm := domain.Comment{
		UserID:    author.ID,
		UserName:  author.Name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.repo.AddComment(ctx, projectID, cm)
	if err != nil {
		return nil, err
	}

	metrics.CommentsTotal.WithLabelValues("added").Inc()
	s.invalidate(ctx)
	return updated, nil
}

// DeleteComment removes one comment. Only its author may remove it.
func (s *ProjectService) DeleteComment(ctx context.Context, projectID, commentID, callerID string) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cm, ok := project.CommentByID(commentID)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	if cm.UserID != callerID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.RemoveComment(ctx, projectID, commentID)
	if err != nil {
		return nil, err
	}

	metrics.CommentsTotal.WithLabelValues("deleted").Inc()
	s.invalidate(ctx)
	return updated, nil
}

func (s *ProjectService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
