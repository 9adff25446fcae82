package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rsilvagit/resumatch/internal/model"
)

func gatewayEnv(t *testing.T, h http.Handler, useMock bool) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	t.Setenv("RESUMATCH_API_URL", srv.URL)
	t.Setenv("RESUMATCH_MAX_RETRIES", "1")
	t.Setenv("RESUMATCH_REDIS_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	if useMock {
		t.Setenv("RESUMATCH_USE_MOCK_FALLBACK", "true")
	} else {
		t.Setenv("RESUMATCH_USE_MOCK_FALLBACK", "false")
	}
}

func liveJobs(jobs ...model.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(jobs)
		json.NewEncoder(w).Encode(map[string]any{"statusCode": 200, "body": string(body)})
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestJobs_MockFallback(t *testing.T) {
	gatewayEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), true)

	code, out, _ := runCLI(t, "jobs")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Backend unavailable - using mock data", "job-1", "job-2", "job-3", "StartupXYZ"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMatches_Live(t *testing.T) {
	gatewayEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.URL.Path == "/matches" {
			body, _ = json.Marshal(map[string]any{"matchScores": []map[string]any{
				{"id": "m1", "jobId": "j1", "candidateName": "Ana", "matchScore": 91, "skills": []string{"Go"}},
			}})
		} else {
			body, _ = json.Marshal([]model.Job{{ID: "j1"}})
		}
		json.NewEncoder(w).Encode(map[string]any{"statusCode": 200, "body": string(body)})
	}), false)

	code, out, _ := runCLI(t, "matches", "-order", "asc")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Total Matches: 1", "Average Score: 91.0%", "Active Jobs: 1", "Ana", "Excellent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUpload_DroppedDocxRejected(t *testing.T) {
	gatewayEnv(t, liveJobs(model.Job{ID: "job-1", Title: "Frontend Developer"}), false)

	path := filepath.Join(t.TempDir(), "resume.docx")
	if err := os.WriteFile(path, []byte("PK\x03\x04"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "upload", "-file", path, "-drop", "-job", "job-1", "-email", "ann@example.com")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(out, "Please drop a valid PDF file.") {
		t.Errorf("output = %q", out)
	}
}

func TestUpload_MissingEmail(t *testing.T) {
	gatewayEnv(t, liveJobs(model.Job{ID: "job-1"}), false)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "upload", "-file", path, "-job", "job-1")
	if code != 2 || !strings.Contains(out, "Please select a file, job, and provide your email address") {
		t.Errorf("exit %d, output %q", code, out)
	}
}

func TestHealth(t *testing.T) {
	gatewayEnv(t, liveJobs(), false)

	code, out, _ := runCLI(t, "health")
	if code != 0 || !strings.Contains(out, "State:   LIVE") {
		t.Errorf("exit %d, output %q", code, out)
	}
}

func TestHealth_ReprobeChecksOnce(t *testing.T) {
	var hits atomic.Int32
	jobs := liveJobs()
	gatewayEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		jobs(w, r)
	}), false)

	code, out, _ := runCLI(t, "health", "-reprobe")
	if code != 0 || !strings.Contains(out, "State:   LIVE") {
		t.Errorf("exit %d, output %q", code, out)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("gateway requests = %d, want 1", n)
	}
}

func TestUpload_ServerRejection(t *testing.T) {
	jobs := liveJobs(model.Job{ID: "job-1"})
	gatewayEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/resume/upload" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid file type"}`))
			return
		}
		jobs(w, r)
	}), false)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "upload", "-file", path, "-job", "job-1", "-email", "ann@example.com")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "Invalid file type") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(errOut, "returned 400") {
		t.Errorf("stderr = %q, want the gateway status", errOut)
	}
}

func TestUsage(t *testing.T) {
	gatewayEnv(t, liveJobs(), false)

	if code, _, _ := runCLI(t); code != 2 {
		t.Errorf("no command: exit %d, want 2", code)
	}
	if code, _, errOut := runCLI(t, "frobnicate"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Errorf("unknown command: exit %d, stderr %q", code, errOut)
	}
	if code, _, errOut := runCLI(t, "matches", "-order", "sideways"); code != 2 || !strings.Contains(errOut, `unknown sort order "sideways"`) {
		t.Errorf("bad order: exit %d, want 2, stderr %q", code, errOut)
	}
}
