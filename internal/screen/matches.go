package screen

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/mock"
	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
	"github.com/rsilvagit/resumatch/internal/view"
)

const msgMatchesLoadFailed = "Failed to load match scores. Please check your connection."

// MatchStore is the part of the gateway the match scores screen uses.
type MatchStore interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	ListMatchScores(ctx context.Context) ([]model.MatchScore, error)
}

// Matches is the match scores screen. It needs the job list for the job
// filter and the active jobs count.
type Matches struct {
	store MatchStore
	avail *availability.Service
	notes Notifier
	gen   generation

	mu     sync.RWMutex
	jobs   []model.Job
	scores []model.MatchScore
	source availability.Source
	banner string
}

// NewMatches returns an empty match scores screen.
func NewMatches(store MatchStore, avail *availability.Service, notes Notifier) *Matches {
	return &Matches{
		store:  store,
		avail:  avail,
		notes:  notes,
		jobs:   []model.Job{},
		scores: []model.MatchScore{},
	}
}

// Load fetches jobs and match scores concurrently and publishes both once
// both finished. If either read fails both collections fall back together.
func (s *Matches) Load(ctx context.Context) bool {
	token := s.gen.next()

	var (
		jobs   availability.Result[model.Job]
		scores availability.Result[model.MatchScore]
		err    error
	)
	live := s.avail.Init(ctx) == availability.StateLive
	if live {
		jobs, scores, err = s.fetch(ctx)
		if err != nil {
			s.avail.MarkUnavailable(ctx)
			live = false
		}
	}
	if !live {
		jobs = availability.Fallback(s.avail, mock.Jobs)
		scores = availability.Fallback(s.avail, mock.MatchScores)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gen.current(token) {
		log.Printf("[screen] matches: discarding stale load")
		return false
	}
	s.jobs, s.scores = jobs.Items, scores.Items
	s.source, s.banner = scores.Source, scores.Banner
	if err != nil {
		log.Printf("[screen] matches: load failed: %v", err)
		s.notes.Show(msgMatchesLoadFailed, notify.Error)
	}
	return true
}

func (s *Matches) fetch(ctx context.Context) (availability.Result[model.Job], availability.Result[model.MatchScore], error) {
	var (
		jobs   []model.Job
		scores []model.MatchScore
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.store.ListJobs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.store.ListMatchScores(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return availability.Result[model.Job]{}, availability.Result[model.MatchScore]{}, err
	}

	if jobs == nil {
		jobs = []model.Job{}
	}
	if scores == nil {
		scores = []model.MatchScore{}
	}
	return availability.Result[model.Job]{Items: jobs, Source: availability.SourceLive},
		availability.Result[model.MatchScore]{Items: scores, Source: availability.SourceLive},
		nil
}

// View derives the visible page of match scores and its summary.
func (s *Matches) View(q view.Query) view.MatchPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Matches(s.scores, q)
}

// Jobs returns the jobs offered by the job filter.
func (s *Matches) Jobs() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Job{}, s.jobs...)
}

// ActiveJobs is the number of loaded jobs.
func (s *Matches) ActiveJobs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Source tells whether the scores are live, mock or empty.
func (s *Matches) Source() availability.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Banner is the unavailability notice, "" when live.
func (s *Matches) Banner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banner
}

// EmptyState is shown when no match score passes the filters.
func (s *Matches) EmptyState() Empty {
	if s.avail.Available() {
		return Empty{Title: "No match scores found", Hint: "Upload resumes to see match scores."}
	}
	return Empty{Title: "No match scores found", Hint: msgUnavailable}
}
