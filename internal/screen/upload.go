package screen

import (
	"context"
	"log"
	"sync"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/mock"
	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
	"github.com/rsilvagit/resumatch/internal/upload"
)

// UploadStore is the part of the gateway the upload screen uses.
type UploadStore interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	upload.Uploader
}

// Upload is the resume upload screen: a job selector and the upload form.
type Upload struct {
	store UploadStore
	avail *availability.Service
	notes Notifier
	form  *upload.Form
	gen   generation

	mu     sync.RWMutex
	jobs   []model.Job
	banner string
}

// NewUpload returns an upload screen with an empty form.
func NewUpload(store UploadStore, avail *availability.Service, notes Notifier) *Upload {
	return &Upload{
		store: store,
		avail: avail,
		notes: notes,
		form:  upload.NewForm(store, avail, notes),
		jobs:  []model.Job{},
	}
}

// Load fetches the jobs offered by the selector.
func (s *Upload) Load(ctx context.Context) bool {
	token := s.gen.next()
	res := availability.Resolve(ctx, s.avail, s.store.ListJobs, mock.Jobs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gen.current(token) {
		log.Printf("[screen] upload: discarding stale load")
		return false
	}
	s.jobs, s.banner = res.Items, res.Banner
	if res.Err != nil {
		log.Printf("[screen] upload: load failed: %v", res.Err)
		s.notes.Show(msgJobsLoadFailed, notify.Error)
	}
	return true
}

// Form returns the upload form.
func (s *Upload) Form() *upload.Form { return s.form }

// Jobs returns the jobs offered by the selector.
func (s *Upload) Jobs() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Job{}, s.jobs...)
}

// HasJob reports whether id is one of the selectable jobs.
func (s *Upload) HasJob(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return true
		}
	}
	return false
}

// Banner is the unavailability notice, "" when live.
func (s *Upload) Banner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banner
}

// EmptyState is shown when there is no job to select.
func (s *Upload) EmptyState() Empty {
	return Empty{Title: "No jobs available. Please create jobs first."}
}
