package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

type stubProjectService struct {
	created   []ports.CreateProjectInput
	createErr error

	project *domain.Project
	err     error

	votes    []domain.VoteDirection
	comments []string
	deleted  []string
}

func (s *stubProjectService) Create(_ context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, input)
	return s.project, nil
}

func (s *stubProjectService) ListOwn(_ context.Context, ownerID string) ([]*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Project{s.project}, nil
}

func (s *stubProjectService) ListCommunity(_ context.Context) ([]*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Project{s.project}, nil
}

func (s *stubProjectService) Get(_ context.Context, id string) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

func (s *stubProjectService) Delete(_ context.Context, id, callerID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProjectService) Vote(_ context.Context, projectID, userID string, dir domain.VoteDirection) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.votes = append(s.votes, dir)
	return s.project, nil
}

func (s *stubProjectService) AddComment(_ context.Context, projectID, authorID, text string) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.comments = append(s.comments, text)
	return s.project, nil
}

func (s *stubProjectService) DeleteComment(_ context.Context, projectID, commentID, callerID string) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

type recordingFileStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *recordingFileStore) Save(_ context.Context, kind, filename string, _ io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := "/uploads/" + kind + "/" + filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *recordingFileStore) Remove(_ context.Context, urlPath string) error {
	f.removed = append(f.removed, urlPath)
	return nil
}

func sampleProject() *domain.Project {
	return &domain.Project{
		ID:          "project_1",
		UserID:      "user_1",
		ProjectName: "Portfolio Site",
		TechUsed:    domain.TechWebDevelopment,
		UpvotedBy:   []string{},
		DownvotedBy: []string{},
		Comments:    []domain.Comment{{ID: "comment_1", UserID: "user_2", UserName: "teacher", Text: "nice"}},
	}
}

func authedContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleStudent)
	return c, rec
}

func multipartProjectForm(t *testing.T, fields map[string]string, withScreenshot bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withScreenshot {
		fw, err := w.CreateFormFile("screenshot", "shot.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestProjectHandler_Create_Created(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	files := &recordingFileStore{}
	h := NewProjectHandler(svc, files)

	body, contentType := multipartProjectForm(t, map[string]string{
		"projectName":        "Portfolio Site",
		"projectDescription": "A personal portfolio",
		"techUsed":           "web-development",
		"projectUrl":         "https://example.com",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := authedContext(t, req)

	if err := h.Create(c); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(svc.created) != 1 {
		t.Fatalf("service not called: %+v", svc.created)
	}
	in := svc.created[0]
	if in.OwnerID != "user_1" || in.TechUsed != domain.TechWebDevelopment {
		t.Fatalf("unexpected create input: %+v", in)
	}
	if len(files.saved) != 1 || in.ScreenshotURL != files.saved[0] {
		t.Fatalf("screenshot url not threaded through: %+v vs %+v", in.ScreenshotURL, files.saved)
	}
}

func TestProjectHandler_Create_LegacyAliases(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	body, contentType := multipartProjectForm(t, map[string]string{
		"title":       "Old Client Project",
		"description": "sent with legacy field names",
		"techUsed":    "other",
		"projectUrl":  "https://example.com",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := authedContext(t, req)

	if err := h.Create(c); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.created[0].ProjectName != "Old Client Project" {
		t.Fatalf("legacy title not folded in: %+v", svc.created[0])
	}
}

func TestProjectHandler_Create_MissingScreenshot(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	body, contentType := multipartProjectForm(t, map[string]string{
		"projectName":        "Portfolio Site",
		"projectDescription": "A personal portfolio",
		"techUsed":           "web-development",
		"projectUrl":         "https://example.com",
	}, false)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := authedContext(t, req)

	if err := h.Create(c); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without screenshot, got %d", rec.Code)
	}
	if len(svc.created) != 0 {
		t.Fatalf("service called without a screenshot")
	}
}

func TestProjectHandler_Create_CleansUpUploadOnServiceError(t *testing.T) {
	svc := &stubProjectService{createErr: domain.ErrInvalidTech}
	files := &recordingFileStore{}
	h := NewProjectHandler(svc, files)

	body, contentType := multipartProjectForm(t, map[string]string{
		"projectName":        "Portfolio Site",
		"projectDescription": "A personal portfolio",
		"techUsed":           "web-development",
		"projectUrl":         "https://example.com",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := authedContext(t, req)

	if err := h.Create(c); err != domain.ErrInvalidTech {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
	if len(files.removed) != 1 || files.removed[0] != files.saved[0] {
		t.Fatalf("stranded upload not cleaned up: %+v", files.removed)
	}
}

func TestProjectHandler_Vote_Directions(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	for _, tc := range []struct {
		handle func(echo.Context) error
		want   domain.VoteDirection
	}{
		{h.Upvote, domain.VoteUp},
		{h.Downvote, domain.VoteDown},
	} {
		req := httptest.NewRequest(http.MethodPut, "/api/projects/project_1/"+string(tc.want), nil)
		c, rec := authedContext(t, req)
		c.SetParamNames("id")
		c.SetParamValues("project_1")

		if err := tc.handle(c); err != nil {
			t.Fatalf("%s returned error: %v", tc.want, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", tc.want, rec.Code)
		}
	}
	if len(svc.votes) != 2 || svc.votes[0] != domain.VoteUp || svc.votes[1] != domain.VoteDown {
		t.Fatalf("directions not forwarded: %+v", svc.votes)
	}
}

func TestProjectHandler_Vote_Unauthenticated(t *testing.T) {
	h := NewProjectHandler(&stubProjectService{}, &recordingFileStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/projects/project_1/upvote", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("project_1")

	err := h.Upvote(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestProjectHandler_AddComment_Created(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/project_1/comments",
		strings.NewReader(`{"text":"great work"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := authedContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("project_1")

	if err := h.AddComment(c); err != nil {
		t.Fatalf("add comment returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp commentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].Text != "nice" {
		t.Fatalf("unexpected comments payload: %+v", resp.Comments)
	}
	if len(svc.comments) != 1 || svc.comments[0] != "great work" {
		t.Fatalf("comment text not forwarded: %+v", svc.comments)
	}
}

func TestProjectHandler_AddComment_EmptyText(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/project_1/comments",
		strings.NewReader(`{"text":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := authedContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("project_1")

	if err := h.AddComment(c); err != nil {
		t.Fatalf("add comment returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", rec.Code)
	}
	if len(svc.comments) != 0 {
		t.Fatalf("empty comment reached the service")
	}
}

func TestProjectHandler_Delete_OK(t *testing.T) {
	svc := &stubProjectService{project: sampleProject()}
	h := NewProjectHandler(svc, &recordingFileStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/project_1", nil)
	c, rec := authedContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("project_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp deleteProjectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Message != "Project removed" || resp.ID != "project_1" {
		t.Fatalf("unexpected delete payload: %+v", resp)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "project_1" {
		t.Fatalf("delete not forwarded: %+v", svc.deleted)
	}
}

func TestProjectHandler_Delete_ForbiddenPropagates(t *testing.T) {
	svc := &stubProjectService{err: domain.ErrForbidden}
	h := NewProjectHandler(svc, &recordingFileStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/project_1", nil)
	c, _ := authedContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("project_1")

	if err := h.Delete(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}
