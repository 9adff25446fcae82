package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/gateway"
	"github.com/rsilvagit/resumatch/internal/notify"
)

// MockDelay is how long a submission takes while the gateway is unavailable.
const MockDelay = 2 * time.Second

const (
	msgMissingFields = "Please select a file, job, and provide your email address"
	msgInvalidEmail  = "Please enter a valid email address"
	msgPickInvalid   = "Please select a valid PDF file."
	msgDropInvalid   = "Please drop a valid PDF file."
	msgTooLarge      = "File exceeds the 10MB limit."

	msgLiveDone   = "Resume uploaded successfully! Match score will be calculated shortly."
	noteLiveDone  = "Resume uploaded successfully! Processing will begin shortly."
	msgMockDone   = "Resume uploaded (mock mode - backend unavailable). Match score will be calculated shortly."
	noteMockDone  = "Resume uploaded (mock mode - backend unavailable)"
	msgUploadFail = "Failed to upload resume. Please try again."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Source is how a file reached the form.
type Source int

const (
	Picker Source = iota
	Drop
)

// ValidationError is an input problem found before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Uploader sends a resume to the gateway.
type Uploader interface {
	UploadResume(ctx context.Context, fileName string, content io.Reader, jobID, candidateEmail string) error
}

// Notifier shows transient notifications.
type Notifier interface {
	Show(text string, severity notify.Severity) notify.Notification
}

// Outcome is the result of a submission that reached the SUCCESS state.
type Outcome struct {
	Message string
	Mock    bool
}

// Form holds the fields of the upload form and its submission state.
type Form struct {
	uploader  Uploader
	avail     *availability.Service
	notes     Notifier
	mockDelay time.Duration

	mu      sync.Mutex
	state   State
	file    *File
	jobID   string
	email   string
	message string
}

// NewForm returns an empty form in the IDLE state.
func NewForm(up Uploader, avail *availability.Service, notes Notifier) *Form {
	return &Form{
		uploader:  up,
		avail:     avail,
		notes:     notes,
		mockDelay: MockDelay,
		state:     StateIdle,
	}
}

// SelectFile offers f to the form. Only PDFs within MaxFileSize are
// accepted; a rejected file leaves the current selection unchanged.
func (f *Form) SelectFile(file File, src Source) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.settle(); err != nil {
		return "", err
	}

	if file.ContentType != PDFType {
		msg := msgPickInvalid
		if src == Drop {
			msg = msgDropInvalid
		}
		f.message = msg
		return "", &ValidationError{Message: msg}
	}
	if file.Size > MaxFileSize {
		f.message = msgTooLarge
		return "", &ValidationError{Message: msgTooLarge}
	}

	f.file = &file
	verb := "Selected"
	if src == Drop {
		verb = "Dropped"
	}
	f.message = fmt.Sprintf("%s: %s", verb, file.Name)
	return f.message, nil
}

// SetJob selects the job the resume is matched against.
func (f *Form) SetJob(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobID = id
}

// SetEmail sets the candidate email address.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

// Submit validates the form and uploads the resume, or simulates the upload
// while the gateway is unavailable. Input errors are *ValidationError and
// never reach the network. Fields are cleared on success and kept on
// failure.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if err := f.settle(); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	if err := f.transition(StateValidating); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	if verr := f.validate(); verr != nil {
		f.message = verr.Message
		f.state = StateIdle
		f.mu.Unlock()
		return Outcome{}, verr
	}
	if err := f.transition(StateSubmitting); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	file, jobID, email := *f.file, f.jobID, f.email
	f.message = ""
	f.mu.Unlock()

	mock := f.avail.Init(ctx) != availability.StateLive
	var err error
	if mock {
		err = f.simulate(ctx)
	} else {
		err = f.send(ctx, file, jobID, email)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		if terr := f.transition(StateFailure); terr != nil {
			return Outcome{}, errors.Join(err, terr)
		}
		msg := msgUploadFail
		if server, ok := gateway.ServerMessage(err); ok {
			msg = server
		}
		f.message = msg
		f.notes.Show(msg, notify.Error)
		log.Printf("[upload] %s for job %s failed: %v", file.Name, jobID, err)
		return Outcome{}, err
	}

	if err := f.transition(StateSuccess); err != nil {
		return Outcome{}, err
	}
	f.file, f.jobID, f.email = nil, "", ""
	out := Outcome{Message: msgLiveDone, Mock: mock}
	if mock {
		out.Message = msgMockDone
		f.notes.Show(noteMockDone, notify.Warning)
	} else {
		f.notes.Show(noteLiveDone, notify.Success)
	}
	f.message = out.Message
	return out, nil
}

func (f *Form) validate() *ValidationError {
	if f.file == nil || f.jobID == "" || f.email == "" {
		return &ValidationError{Message: msgMissingFields}
	}
	if !emailPattern.MatchString(f.email) {
		return &ValidationError{Message: msgInvalidEmail}
	}
	return nil
}

func (f *Form) send(ctx context.Context, file File, jobID, email string) error {
	if file.Open == nil {
		return errors.New("upload: file has no content")
	}
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("upload: opening %s: %w", file.Name, err)
	}
	defer rc.Close()
	return f.uploader.UploadResume(ctx, file.Name, rc, jobID, email)
}

func (f *Form) simulate(ctx context.Context) error {
	t := time.NewTimer(f.mockDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle returns a finished form to IDLE so it can be edited again.
func (f *Form) settle() error {
	switch f.state {
	case StateSuccess, StateFailure:
		return f.transition(StateIdle)
	case StateIdle:
		return nil
	}
	return &TransitionError{From: f.state, To: StateIdle}
}

func (f *Form) transition(to State) error {
	if !IsTransitionAllowed(f.state, to) {
		return &TransitionError{From: f.state, To: to}
	}
	f.state = to
	return nil
}

// State returns the current submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the inline message last shown by the form.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Fields returns the selected file name, job and email.
func (f *Form) Fields() (fileName, jobID, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file != nil {
		fileName = f.file.Name
	}
	return fileName, f.jobID, f.email
}
