// Package gateway is the client for the remote resume/job matching service.
//
// Every response arrives wrapped in an envelope whose body field is itself
// JSON text; the client unwraps it so callers only see domain values.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/rsilvagit/resumatch/internal/httpclient"
	"github.com/rsilvagit/resumatch/internal/model"
)

const maxBodySize = 16 << 20

// Options configures a Client.
type Options struct {
	BaseURL        string
	DefaultTimeout time.Duration
	UploadTimeout  time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Debug          bool
	Transport      http.RoundTripper
}

// Client talks to the gateway over HTTP/JSON.
type Client struct {
	http           *httpclient.Client
	probe          *httpclient.Client
	baseURL        string
	defaultTimeout time.Duration
	uploadTimeout  time.Duration
	debug          bool
}

// New creates a Client. Reads are retried per MaxRetries/RetryDelay; health
// probes and writes are sent once.
func New(opts Options) *Client {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 60 * time.Second
	}
	return &Client{
		http: httpclient.New(httpclient.Options{
			MaxRetries: opts.MaxRetries,
			RetryDelay: opts.RetryDelay,
			Transport:  opts.Transport,
		}),
		probe: httpclient.New(httpclient.Options{
			MaxRetries: 1,
			Transport:  opts.Transport,
		}),
		baseURL:        opts.BaseURL,
		defaultTimeout: opts.DefaultTimeout,
		uploadTimeout:  opts.UploadTimeout,
		debug:          opts.Debug,
	}
}

// BaseURL returns the gateway address this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// CheckHealth reports whether the gateway answers a lightweight read with
// HTTP 200. Network failures, timeouts and any other status count as
// unreachable.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs", nil)
	if err != nil {
		log.Printf("[gateway] health check: building request: %v", err)
		return false
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		log.Printf("[gateway] health check failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode != http.StatusOK {
		log.Printf("[gateway] health check failed: status %d", resp.StatusCode)
		return false
	}
	return true
}

// ListJobs returns every job posting.
func (c *Client) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.getJSON(ctx, "/jobs", &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

// GetJob returns a single job posting.
func (c *Client) GetJob(ctx context.Context, id string) (model.Job, error) {
	var job model.Job
	err := c.getJSON(ctx, "/jobs/"+url.PathEscape(id), &job)
	return job, err
}

// CreateJob submits a new job and returns the record created by the gateway.
func (c *Client) CreateJob(ctx context.Context, job model.NewJob) (model.Job, error) {
	var created model.Job
	err := c.sendJSON(ctx, http.MethodPost, "/jobs", job, &created)
	return created, err
}

// UpdateJob replaces the fields of an existing job.
func (c *Client) UpdateJob(ctx context.Context, id string, job model.NewJob) (model.Job, error) {
	var updated model.Job
	err := c.sendJSON(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), job, &updated)
	return updated, err
}

// DeleteJob removes a job.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, "", c.defaultTimeout)
	return err
}

type matchScoresPayload struct {
	MatchScores []model.MatchScore `json:"matchScores"`
}

// ListMatchScores returns every match score.
func (c *Client) ListMatchScores(ctx context.Context) ([]model.MatchScore, error) {
	return c.listMatches(ctx, "/matches")
}

// ListMatchScoresForJob returns the match scores computed against one job.
func (c *Client) ListMatchScoresForJob(ctx context.Context, jobID string) ([]model.MatchScore, error) {
	return c.listMatches(ctx, "/matches/"+url.PathEscape(jobID))
}

// ListMatchScoresByResume returns the match scores of one resume.
func (c *Client) ListMatchScoresByResume(ctx context.Context, resumeID string) ([]model.MatchScore, error) {
	params := url.Values{}
	params.Set("resumeId", resumeID)
	return c.listMatches(ctx, "/matches?"+params.Encode())
}

// TopMatchScores returns at most limit match scores, best first as ranked
// by the gateway. A non-positive limit defaults to 10.
func (c *Client) TopMatchScores(ctx context.Context, limit int) ([]model.MatchScore, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	return c.listMatches(ctx, "/matches?"+params.Encode())
}

func (c *Client) listMatches(ctx context.Context, path string) ([]model.MatchScore, error) {
	var payload matchScoresPayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}
	if payload.MatchScores == nil {
		payload.MatchScores = []model.MatchScore{}
	}
	return payload.MatchScores, nil
}

// UploadResume submits a resume file for the given job and candidate. The
// upload timeout applies and the request is never retried.
func (c *Client) UploadResume(ctx context.Context, fileName string, content io.Reader, jobID, candidateEmail string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, fileName))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("gateway: building upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("gateway: reading resume %q: %w", fileName, err)
	}
	if err := mw.WriteField("jobId", jobID); err != nil {
		return fmt.Errorf("gateway: building upload: %w", err)
	}
	if err := mw.WriteField("candidateEmail", candidateEmail); err != nil {
		return fmt.Errorf("gateway: building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("gateway: building upload: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/resume/upload", &buf, mw.FormDataContentType(), c.uploadTimeout)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, "", c.defaultTimeout)
	if err != nil {
		return err
	}
	return c.decode(path, body, v)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("gateway: encoding %s %s: %w", method, path, err)
	}
	body, err := c.do(ctx, method, path, bytes.NewReader(payload), "application/json", c.defaultTimeout)
	if err != nil {
		return err
	}
	return c.decode(path, body, out)
}

func (c *Client) decode(path string, body []byte, v any) error {
	if status := envelopeStatus(body); status >= 400 {
		return c.fail(&APIError{
			Status:     status,
			Message:    firstNonEmpty(extractMessage(body, "application/json"), statusMessage(status)),
			URL:        path,
			fromServer: true,
		})
	}
	if err := decodeEnvelope(body, v); err != nil {
		return c.fail(&APIError{Message: err.Error(), URL: path, Err: err})
	}
	return nil
}

// do performs a request and returns the raw body of a 2xx response. Every
// failure is logged and returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: building request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.debug {
		log.Printf("[gateway] → %s %s", method, path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("timeout after %v", timeout)
		}
		return nil, c.fail(&APIError{Message: msg, URL: path, Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.fail(&APIError{Status: resp.StatusCode, Message: "reading body: " + err.Error(), URL: path, Err: err})
	}

	if c.debug {
		log.Printf("[gateway] ← %d %s", resp.StatusCode, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, URL: path}
		if msg := extractMessage(data, resp.Header.Get("Content-Type")); msg != "" {
			apiErr.Message = msg
			apiErr.fromServer = true
		} else {
			apiErr.Message = statusMessage(resp.StatusCode)
		}
		return nil, c.fail(apiErr)
	}

	return data, nil
}

func (c *Client) fail(err *APIError) error {
	log.Printf("[gateway] error status=%d message=%q url=%s", err.Status, err.Message, err.URL)
	if err.Status == http.StatusBadGateway || err.Status == http.StatusServiceUnavailable {
		log.Printf("[gateway] serverless function error at %s: function may be cold starting or timed out", err.URL)
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
