// Package backend is the typed client for the recruitment backend API.
// The backend is an opaque HTTP service; this client only shapes requests,
// attaches the bearer credential, and classifies failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
)

// Client calls the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given backend origin.
// timeout bounds every call end to end; the underlying transport adds
// dial and header deadlines so a stalled connection cannot hang forever.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   DialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   TLSHandshakeTimeout,
				ResponseHeaderTimeout: ResponseHeaderTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON issues a JSON request and decodes the response into out.
// body and out may be nil.
func (c *Client) doJSON(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// classifyStatus maps a non-2xx response to the error taxonomy.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return ErrBackendUnavailable
	default:
		return &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(resp.Body),
		}
	}
}

// extractMessage pulls the backend's message field out of an error payload.
// The backend is inconsistent about the field name, so both are tried.
func extractMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// UploadFile is one file in an upload batch.
type UploadFile struct {
	Name    string
	Content io.Reader
	Size    int64
}

// progressReader reports bytes read against an expected total.
type progressReader struct {
	r        io.Reader
	read     int64
	total    int64
	onChange func(percent int)
	last     int
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.onChange != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.onChange(percent)
		}
	}
	return n, err
}

// uploadResponse is the backend's batch-processing payload.
type uploadResponse struct {
	Results []model.UploadResult `json:"results"`
}

// UploadCVBatch submits one atomic multipart request to the CV processor.
// fields carries optional scalar form values (e.g. a target email).
// onProgress, when non-nil, receives best-effort 0-100 updates as the
// body is transmitted; it is cosmetic only.
func (c *Client) UploadCVBatch(ctx context.Context, token string, files []UploadFile, fields map[string]string, onProgress func(percent int)) ([]model.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}

	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("copy file %s: %w", f.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	body := &progressReader{
		r:        &buf,
		total:    int64(buf.Len()),
		onChange: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cv/admin_upload", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = body.total
	c.setAuth(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return payload.Results, nil
}

// Job offers.

// ListOffers fetches every admin-visible job offer.
func (c *Client) ListOffers(ctx context.Context, token string) ([]model.JobOffer, error) {
	var offers []model.JobOffer
	if err := c.doJSON(ctx, token, http.MethodGet, "/api/job/admin_offers", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// CreateOffer creates a job offer.
func (c *Client) CreateOffer(ctx context.Context, token string, offer model.JobOffer) (*model.JobOffer, error) {
	var created model.JobOffer
	if err := c.doJSON(ctx, token, http.MethodPost, "/api/job/create-admin", offer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOffer updates a job offer.
func (c *Client) UpdateOffer(ctx context.Context, token string, offer model.JobOffer) (*model.JobOffer, error) {
	var updated model.JobOffer
	if err := c.doJSON(ctx, token, http.MethodPut, "/api/job/update-admin", offer, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOffer deletes a job offer by id.
func (c *Client) DeleteOffer(ctx context.Context, token, id string) error {
	body := map[string]string{"id": id}
	return c.doJSON(ctx, token, http.MethodDelete, "/api/job/delete-admin", body, nil)
}

// Admin config.

// GetAdminConfig fetches the backend's admin configuration document.
func (c *Client) GetAdminConfig(ctx context.Context, token string) (map[string]any, error) {
	var cfg map[string]any
	if err := c.doJSON(ctx, token, http.MethodGet, "/api/admin/config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetAdminConfig replaces the backend's admin configuration document.
func (c *Client) SetAdminConfig(ctx context.Context, token string, cfg map[string]any) error {
	return c.doJSON(ctx, token, http.MethodPost, "/api/admin/config", cfg, nil)
}

// ListMatchings fetches candidate/offer matching scores.
func (c *Client) ListMatchings(ctx context.Context, token string) ([]model.Matching, error) {
	var matchings []model.Matching
	if err := c.doJSON(ctx, token, http.MethodGet, "/api/admin/matchings", nil, &matchings); err != nil {
		return nil, err
	}
	return matchings, nil
}

// Proposals.

// ListProposals fetches pending outreach proposals.
func (c *Client) ListProposals(ctx context.Context, token string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	if err := c.doJSON(ctx, token, http.MethodGet, "/api/proposals", nil, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// SendProposal triggers delivery of one proposal.
func (c *Client) SendProposal(ctx context.Context, token, id string) (*model.Proposal, error) {
	var sent model.Proposal
	path := "/api/proposals/" + url.PathEscape(id) + "/send"
	if err := c.doJSON(ctx, token, http.MethodPatch, path, nil, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}

// Email database.

// ListEmails fetches the email database.
func (c *Client) ListEmails(ctx context.Context, token string) ([]model.EmailRecord, error) {
	var records []model.EmailRecord
	if err := c.doJSON(ctx, token, http.MethodGet, "/api/admin/emails", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateEmail adds a record to the email database.
func (c *Client) CreateEmail(ctx context.Context, token string, record model.EmailRecord) (*model.EmailRecord, error) {
	var created model.EmailRecord
	if err := c.doJSON(ctx, token, http.MethodPost, "/api/admin/emails", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateEmail updates an email database record.
func (c *Client) UpdateEmail(ctx context.Context, token string, record model.EmailRecord) (*model.EmailRecord, error) {
	var updated model.EmailRecord
	path := "/api/admin/emails/" + url.PathEscape(record.ID)
	if err := c.doJSON(ctx, token, http.MethodPut, path, record, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEmail removes an email database record.
func (c *Client) DeleteEmail(ctx context.Context, token, id string) error {
	path := "/api/admin/emails/" + url.PathEscape(id)
	return c.doJSON(ctx, token, http.MethodDelete, path, nil, nil)
}

// Training.

// ListCourses fetches all training courses.
func (c *Client) ListCourses(ctx context.Context, token string) ([]model.Course, error) {
	var courses []model.Course
	if err := c.doJSON(ctx, token, http.MethodGet, "/training/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse creates a training course.
func (c *Client) CreateCourse(ctx context.Context, token string, course model.Course) (*model.Course, error) {
	var created model.Course
	if err := c.doJSON(ctx, token, http.MethodPost, "/training/courses", course, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCourse updates a training course.
func (c *Client) UpdateCourse(ctx context.Context, token string, course model.Course) (*model.Course, error) {
	var updated model.Course
	path := "/training/courses/" + url.PathEscape(course.ID)
	if err := c.doJSON(ctx, token, http.MethodPut, path, course, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCourse removes a training course.
func (c *Client) DeleteCourse(ctx context.Context, token, id string) error {
	path := "/training/courses/" + url.PathEscape(id)
	return c.doJSON(ctx, token, http.MethodDelete, path, nil, nil)
}

// CreateLesson adds a lesson to a course.
func (c *Client) CreateLesson(ctx context.Context, token string, lesson model.Lesson) (*model.Lesson, error) {
	var created model.Lesson
	path := "/training/courses/" + url.PathEscape(lesson.CourseID) + "/lessons"
	if err := c.doJSON(ctx, token, http.MethodPost, path, lesson, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLesson updates a lesson.
func (c *Client) UpdateLesson(ctx context.Context, token string, lesson model.Lesson) (*model.Lesson, error) {
	var updated model.Lesson
	path := "/training/lessons/" + url.PathEscape(lesson.ID)
	if err := c.doJSON(ctx, token, http.MethodPut, path, lesson, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteLesson removes a lesson.
func (c *Client) DeleteLesson(ctx context.Context, token, id string) error {
	path := "/training/lessons/" + url.PathEscape(id)
	return c.doJSON(ctx, token, http.MethodDelete, path, nil, nil)
}
