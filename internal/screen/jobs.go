package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/mock"
	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
	"github.com/rsilvagit/resumatch/internal/sizeguard"
	"github.com/rsilvagit/resumatch/internal/view"
)

const (
	msgJobsLoadFailed  = "Failed to load jobs. Please check your connection."
	msgJobCreated      = "Job created successfully!"
	msgJobCreatedMock  = "Job created (mock mode - backend unavailable)"
	msgJobCreateFailed = "Failed to create job. Please try again."
	msgJobRequired     = "Title, company and description are required."
	msgJobTooLarge     = "Job details are too large to be saved."
)

// JobStore is the part of the gateway the jobs screen uses.
type JobStore interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	CreateJob(ctx context.Context, job model.NewJob) (model.Job, error)
}

// Jobs is the job postings screen.
type Jobs struct {
	store JobStore
	avail *availability.Service
	notes Notifier
	now   func() time.Time
	gen   generation

	mu     sync.RWMutex
	jobs   []model.Job
	source availability.Source
	banner string
}

// NewJobs returns an empty jobs screen.
func NewJobs(store JobStore, avail *availability.Service, notes Notifier) *Jobs {
	return &Jobs{
		store: store,
		avail: avail,
		notes: notes,
		now:   time.Now,
		jobs:  []model.Job{},
	}
}

// Load fetches the job list. It reports false when a newer load started
// before this one finished, in which case its result was discarded.
func (s *Jobs) Load(ctx context.Context) bool {
	token := s.gen.next()
	res := availability.Resolve(ctx, s.avail, s.store.ListJobs, mock.Jobs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gen.current(token) {
		log.Printf("[screen] jobs: discarding stale load")
		return false
	}
	s.jobs, s.source, s.banner = res.Items, res.Source, res.Banner
	if res.Err != nil {
		log.Printf("[screen] jobs: load failed: %v", res.Err)
		s.notes.Show(msgJobsLoadFailed, notify.Error)
	}
	return true
}

// Create validates job and saves it through the gateway, or locally while
// the gateway is unavailable. The created job is prepended to the list.
// On failure the list is unchanged and the caller keeps its input.
func (s *Jobs) Create(ctx context.Context, job model.NewJob) (model.Job, error) {
	if err := validateJob(job); err != nil {
		return model.Job{}, err
	}

	var created model.Job
	if s.avail.Init(ctx) == availability.StateLive {
		var err error
		created, err = s.store.CreateJob(ctx, job)
		if err != nil {
			log.Printf("[screen] jobs: create failed: %v", err)
			s.notes.Show(msgJobCreateFailed, notify.Error)
			return model.Job{}, err
		}
		s.notes.Show(msgJobCreated, notify.Success)
	} else {
		now := s.now()
		created = job.ToJob(fmt.Sprintf("job-%d", now.UnixMilli()), now)
		s.notes.Show(msgJobCreatedMock, notify.Warning)
	}

	s.mu.Lock()
	// Loads started before this point would publish a list without created.
	s.gen.next()
	s.jobs = append([]model.Job{created}, s.jobs...)
	s.mu.Unlock()
	return created, nil
}

func validateJob(job model.NewJob) error {
	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.Company) == "" || strings.TrimSpace(job.Description) == "" {
		return &ValidationError{Message: msgJobRequired}
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("screen: encoding job: %w", err)
	}
	if sizeguard.IsTooLarge(string(payload)) {
		return &ValidationError{Message: msgJobTooLarge}
	}
	return nil
}

// View derives the visible page of jobs.
func (s *Jobs) View(q view.Query) view.JobPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Jobs(s.jobs, q)
}

// All returns every loaded job in display order.
func (s *Jobs) All() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Job{}, s.jobs...)
}

// Source tells whether the list is live, mock or empty.
func (s *Jobs) Source() availability.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Banner is the unavailability notice, "" when live.
func (s *Jobs) Banner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banner
}

// EmptyState is shown when there are no jobs.
func (s *Jobs) EmptyState() Empty {
	if s.avail.Available() {
		return Empty{Title: "No jobs found", Hint: "Create your first job position to get started."}
	}
	return Empty{Title: "No jobs found", Hint: msgUnavailable}
}
