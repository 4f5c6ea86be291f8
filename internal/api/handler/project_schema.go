package handler

import "github.com/eduport/portfolio-api/internal/core/domain"

// createProjectRequest is the multipart create form. Legacy clients send
// title/description; those aliases are folded into the canonical fields
// before validation so the rest of the system never sees them.
type createProjectRequest struct {
	ProjectName        string `form:"projectName" validate:"required"`
	ProjectDescription string `form:"projectDescription" validate:"required"`
	TechUsed           string `form:"techUsed" validate:"required,oneof=web-development android-development ios-development ai-ml data-science blockchain game-development desktop-app devops cybersecurity iot other"`
	ProjectURL         string `form:"projectUrl" validate:"required,url"`
	GithubURL          string `form:"githubUrl" validate:"omitempty,url"`

	// Legacy aliases, resolved in normalize().
	Title       string `form:"title"`
	Description string `form:"description"`
}

// normalize resolves the legacy aliases into the canonical fields.
func (r *createProjectRequest) normalize() {
	if r.ProjectName == "" {
		r.ProjectName = r.Title
	}
	if r.ProjectDescription == "" {
		r.ProjectDescription = r.Description
	}
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type deleteProjectResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type commentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}
