package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
	files       ports.FileStore
}

func NewUserHandler(userService ports.UserService, files ports.FileStore) *UserHandler {
	return &UserHandler{userService: userService, files: files}
}

// Me returns the authenticated user without the password hash.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial multipart profile edit. Text fields are
// only written when present in the form; profileImage and resume parts, when
// present, are stored and their URL paths saved.
//
// @Summary      Update profile
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "multipart form expected"})
	}

	update := ports.ProfileUpdate{
		Name:     formField(form.Value, "name"),
		Username: formField(form.Value, "username"),
		Bio:      formField(form.Value, "bio"),
	}

	if bio := update.Bio; bio != nil && len(*bio) > 500 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bio must be at most 500 characters"})
	}

	if links := socialLinksFrom(form.Value); links != nil {
		update.SocialLinks = links
	}

	if path, err := h.saveFormFile(c, "profileImage", "avatars"); err != nil {
		return err
	} else if path != "" {
		update.ProfileImage = &path
	}
	if path, err := h.saveFormFile(c, "resume", "resumes"); err != nil {
		return err
	} else if path != "" {
		update.ResumeURL = &path
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, update)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// StudentProfile returns a student's public profile with their projects.
// Route-gated to teachers.
//
// @Summary      View a student's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Student user ID"
// @Success      200     {object}  studentProfileResponse
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/students/{userId}/profile [get]
func (h *UserHandler) StudentProfile(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	profile, err := h.userService.StudentProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, studentProfileResponse{
		Student:  profile.Profile,
		Projects: profile.Projects,
	})
}

type studentProfileResponse struct {
	Student  domain.PublicProfile `json:"student"`
	Projects []*domain.Project    `json:"projects"`
}

// saveFormFile stores an optional multipart file part; empty string means the
// part was absent.
func (h *UserHandler) saveFormFile(c echo.Context, field, kind string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.files.Save(c.Request().Context(), kind, fh.Filename, src)
}

func formField(values map[string][]string, key string) *string {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

// socialLinksFrom builds a SocialLinks update when any link field is present.
func socialLinksFrom(values map[string][]string) *domain.SocialLinks {
	linkedin := formField(values, "linkedin")
	github := formField(values, "github")
	portfolio := formField(values, "portfolio")
	twitter := formField(values, "twitter")
	if linkedin == nil && github == nil && portfolio == nil && twitter == nil {
		return nil
	}

	links := &domain.SocialLinks{}
	if linkedin != nil {
		links.LinkedIn = *linkedin
	}
	if github != nil {
		links.GitHub = *github
	}
	if portfolio != nil {
		links.Portfolio = *portfolio
	}
	if twitter != nil {
		links.Twitter = *twitter
	}
	return links
}
