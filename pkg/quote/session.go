package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lawnquote/pkg/preview"
)

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithPreviewStore sets the store used to issue preview references.
func WithPreviewStore(store preview.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScheduler replaces the scheduler used for the submission delay.
func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithSubmitDelay overrides DefaultSubmitDelay. Non-positive values are
// ignored.
func WithSubmitDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock overrides the time source used to stamp submitted requests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// OnSubmitted registers a hook called once, outside the session lock, when
// the session reaches StateSubmitted.
func OnSubmitted(fn func(Request)) Option {
	return func(s *Session) {
		s.onSubmitted = fn
	}
}

// OnStateChange registers a hook called, outside the session lock, for every
// state transition.
func OnStateChange(fn func(from, to State)) Option {
	return func(s *Session) {
		s.onStateChange = fn
	}
}

// Selection summarises one photo selection pass.
type Selection struct {
	Accepted []string
	Rejected []string
}

// Session is one quote form instance. The zero value is not usable; call
// New.
type Session struct {
	mu sync.Mutex

	id        string
	store     preview.Store
	scheduler Scheduler
	delay     time.Duration
	now       func() time.Time

	onSubmitted   func(Request)
	onStateChange func(from, to State)

	length   string
	area     Area
	photos   []Photo
	previews []preview.Ref
	errors   []string
	state    State

	timer    Timer
	timerGen uint64
	closed   bool
}

// New constructs an idle session.
func New(options ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		scheduler: RealScheduler,
		delay:     DefaultSubmitDelay,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.store == nil {
		s.store = preview.NewMemoryStore()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetLength records the length field. An empty string means unset.
func (s *Session) SetLength(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	s.length = value
	return nil
}

// SetArea records the area selector.
func (s *Session) SetArea(area Area) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	s.area = area
	return nil
}

// SelectPhotos replaces the current photo selection with the accepted
// members of photos. Previously issued preview references are revoked
// before anything else happens, and the error list is replaced with one
// rejection message per rejected photo.
func (s *Session) SelectPhotos(ctx context.Context, photos []Photo) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return Selection{}, err
	}

	preview.RevokeAll(s.store, s.previews)
	s.errors = nil
	s.photos = nil
	s.previews = nil

	var (
		result   Selection
		accepted = make([]Photo, 0, len(photos))
		refs     = make([]preview.Ref, 0, len(photos))
		errs     []string
	)
	for _, photo := range photos {
		if !AcceptFilename(photo.Name) {
			errs = append(errs, RejectionMessage(photo.Name))
			result.Rejected = append(result.Rejected, photo.Name)
			continue
		}
		ref, err := s.store.Issue(ctx, preview.Blob{
			Name:        photo.Name,
			ContentType: photo.ContentType,
			Data:        photo.Data,
		})
		if err != nil {
			preview.RevokeAll(s.store, refs)
			return Selection{}, fmt.Errorf("quote: issue preview for %q: %w", photo.Name, err)
		}
		accepted = append(accepted, photo)
		refs = append(refs, ref)
		result.Accepted = append(result.Accepted, photo.Name)
	}

	s.photos = accepted
	s.previews = refs
	s.errors = errs
	return result, nil
}

// Submit runs field validation and, when it passes, schedules the simulated
// submission. It returns the state the session is in afterwards: idle when
// validation failed, submitting when the timer was scheduled.
func (s *Session) Submit(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	switch {
	case s.closed:
		state := s.state
		s.mu.Unlock()
		return state, ErrSessionClosed
	case s.state == StateSubmitted:
		s.mu.Unlock()
		return StateSubmitted, ErrAlreadySubmitted
	case s.state == StateSubmitting:
		s.mu.Unlock()
		return StateSubmitting, ErrSubmitInProgress
	}

	var transitions [][2]State
	s.errors = nil
	s.state = StateSubmitting
	transitions = append(transitions, [2]State{StateIdle, StateSubmitting})

	if errs := validateLocked(s.length, s.area, len(s.photos)); len(errs) > 0 {
		s.errors = errs
		s.state = StateIdle
		transitions = append(transitions, [2]State{StateSubmitting, StateIdle})
		s.mu.Unlock()
		s.notify(transitions, nil)
		return StateIdle, nil
	}

	s.timerGen++
	gen := s.timerGen
	s.timer = s.scheduler.AfterFunc(s.delay, func() { s.complete(gen) })
	s.mu.Unlock()

	s.notify(transitions, nil)
	return StateSubmitting, nil
}

func validateLocked(length string, area Area, photoCount int) []string {
	var errs []string
	if length == "" {
		errs = append(errs, MsgLengthRequired)
	}
	if !area.IsSet() {
		errs = append(errs, MsgAreaRequired)
	}
	if photoCount < 1 {
		errs = append(errs, MsgPhotosRequired)
	}
	return errs
}

// complete is the timer callback. Stale generations and closed sessions are
// ignored.
func (s *Session) complete(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.timerGen || s.state != StateSubmitting {
		s.mu.Unlock()
		return
	}
	s.state = StateSubmitted
	s.timer = nil

	names := make([]string, 0, len(s.photos))
	for _, photo := range s.photos {
		names = append(names, photo.Name)
	}
	req := Request{
		SessionID:   s.id,
		Length:      s.length,
		Area:        s.area,
		PhotoNames:  names,
		SubmittedAt: s.now(),
	}
	s.mu.Unlock()

	s.notify([][2]State{{StateSubmitting, StateSubmitted}}, &req)
}

func (s *Session) notify(transitions [][2]State, req *Request) {
	if s.onStateChange != nil {
		for _, t := range transitions {
			s.onStateChange(t[0], t[1])
		}
	}
	if req != nil && s.onSubmitted != nil {
		s.onSubmitted(*req)
	}
}

// Close tears the session down: the pending submission timer is cancelled,
// every preview reference is revoked and later events fail with
// ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++

	preview.RevokeAll(s.store, s.previews)
	s.photos = nil
	s.previews = nil
	return nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// State returns the current submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Errors returns a copy of the current error list.
func (s *Session) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}

// Photos returns a copy of the accepted photo set.
func (s *Session) Photos() []Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Photo(nil), s.photos...)
}

// Previews returns a copy of the preview set, index-aligned with Photos.
func (s *Session) Previews() []preview.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]preview.Ref(nil), s.previews...)
}

// Length returns the length field.
func (s *Session) Length() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length
}

// Area returns the area selection.
func (s *Session) Area() Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area
}

func (s *Session) checkEditableLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}
