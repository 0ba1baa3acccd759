package api

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/netx"
)

// Client is the backend surface used by the screens.
type Client interface {
	Do(ctx context.Context, method, path string, body any, out any) error
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	UploadResume(ctx context.Context, fileName string, content io.Reader) (string, error)
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalyzeResponse, error)
	Profile(ctx context.Context) (*models.Profile, error)
	GoogleAuthURL() string
}

// ResumeField is the multipart field name the upload endpoint expects.
const ResumeField = "resume"

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp models.TokenResponse
	if err := c.request(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}

// Register creates the account. The response body is ignored; the user
// signs in separately.
func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.request(ctx, http.MethodPost, "/auth/register", req, nil)
}

func (c *HTTPClient) UploadResume(ctx context.Context, fileName string, content io.Reader) (string, error) {
	body, contentType, err := netx.MultipartFile(ResumeField, fileName, content)
	if err != nil {
		return "", err
	}

	var resp models.UploadResponse
	if err := c.request(ctx, http.MethodPost, "/resume/upload", &Multipart{Body: body, ContentType: contentType}, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", ErrEmptyID
	}
	return resp.ID, nil
}

func (c *HTTPClient) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalyzeResponse, error) {
	var resp models.AnalyzeResponse
	if err := c.request(ctx, http.MethodPost, "/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var resp models.ProfileResponse
	if err := c.request(ctx, http.MethodGet, "/users/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GoogleAuthURL is the page the browser must visit to start the OAuth flow.
// It is a full-page redirect, not an API call.
func (c *HTTPClient) GoogleAuthURL() string {
	return c.base + "/auth/google"
}
