package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects, votes and comments.
type ProjectHandler struct {
	projectService ports.ProjectService
	files          ports.FileStore
}

func NewProjectHandler(projectService ports.ProjectService, files ports.FileStore) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, files: files}
}

// Create handles POST /api/projects (multipart, screenshot required).
//
// @Summary      Create a project
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Project
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	screenshot, err := c.FormFile("screenshot")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "screenshot is required"})
	}
	src, err := screenshot.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	screenshotURL, err := h.files.Save(c.Request().Context(), "screenshots", screenshot.Filename, src)
	if err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), ports.CreateProjectInput{
		OwnerID:            userID,
		ProjectName:        req.ProjectName,
		ProjectDescription: req.ProjectDescription,
		TechUsed:           domain.TechCategory(req.TechUsed),
		ProjectURL:         req.ProjectURL,
		GithubURL:          req.GithubURL,
		ScreenshotURL:      screenshotURL,
	})
	if err != nil {
		// The document never landed; don't leave the upload stranded.
		_ = h.files.Remove(c.Request().Context(), screenshotURL)
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// ListOwn handles GET /api/projects — the caller's projects, newest first.
//
// @Summary      List own projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Project
// @Router       /api/projects [get]
func (h *ProjectHandler) ListOwn(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.ListOwn(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// ListCommunity handles GET /api/projects/community — every project with its
// owner's display fields joined in.
//
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Project
// @Router       /api/projects/community [get]
func (h *ProjectHandler) ListCommunity(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	projects, err := h.projectService.ListCommunity(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Get handles GET /api/projects/:id.
//
// @Summary      Get one project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /api/projects/:id. Owner-only.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  deleteProjectResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.projectService.Delete(c.Request().Context(), id, userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteProjectResponse{Message: "Project removed", ID: id})
}

// Upvote handles PUT|POST /api/projects/:id/upvote.
//
// @Summary      Toggle an upvote
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id}/upvote [put]
func (h *ProjectHandler) Upvote(c echo.Context) error {
	return h.vote(c, domain.VoteUp)
}

// Downvote handles PUT|POST /api/projects/:id/downvote.
//
// @Summary      Toggle a downvote
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id}/downvote [put]
func (h *ProjectHandler) Downvote(c echo.Context) error {
	return h.vote(c, domain.VoteDown)
}

func (h *ProjectHandler) vote(c echo.Context, dir domain.VoteDirection) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.Vote(c.Request().Context(), c.Param("id"), userID, dir)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// AddComment handles POST /api/projects/:id/comments. Route-gated to teachers.
//
// @Summary      Comment on a project
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      commentRequest  true  "Comment text"
// @Success      201   {object}  commentsResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/projects/{id}/comments [post]
func (h *ProjectHandler) AddComment(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	project, err := h.projectService.AddComment(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, commentsResponse{Comments: project.Comments})
}

// DeleteComment handles DELETE /api/projects/:id/comments/:commentId.
// Author-only.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "Project ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  commentsResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/projects/{id}/comments/{commentId} [delete]
func (h *ProjectHandler) DeleteComment(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, commentsResponse{Comments: project.Comments})
}
