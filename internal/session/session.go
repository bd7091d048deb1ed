// Package session orchestrates profile fetches for the presentation layer:
// it owns the loading/result state machine, the supersession rule for
// overlapping fetches, and the save/recency side effects.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/orgball2608/insta-profile-viewer/internal/metrics"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/recency"
	"github.com/orgball2608/insta-profile-viewer/internal/username"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"go.uber.org/fx"
)

// Phase is the lifecycle position of the session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// handoffFreshness bounds how old a deep-linked username may be before
// Ingest drops it instead of replaying a stale delivery.
const handoffFreshness = 10 * time.Second

// State is an immutable snapshot published to subscribers. Profile is set
// only in PhaseLoaded, Err only in PhaseFailed.
type State struct {
	Phase   Phase
	Profile *domain.Profile
	Err     error
	Saved   []domain.SavedEntry
	History []domain.SavedEntry
	IsSaved bool
}

type Opts struct {
	fx.In

	Client  instagram.Client
	Recency recency.Repository
	Logger  logger.Logger
}

type Session struct {
	mu      sync.Mutex
	state   State
	token   uint64
	subs    map[int]chan State
	nextSub int

	client  instagram.Client
	recency recency.Repository
	logger  logger.Logger
	now     func() time.Time
}

func New(opts Opts) *Session {
	return &Session{
		state:   State{Phase: PhaseIdle},
		subs:    make(map[int]chan State),
		client:  opts.Client,
		recency: opts.Recency,
		logger:  opts.Logger.WithComponent("ProfileSession"),
		now:     time.Now,
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a state observer. Snapshots are delivered on a
// buffered channel; a slow consumer misses intermediate snapshots rather
// than blocking the session. The returned func cancels the subscription.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// FetchProfile looks up usernameOrURL and publishes the outcome. A fetch
// issued while another is in flight supersedes it: each request captures a
// monotonically increasing token, and a completion whose token no longer
// matches is discarded, so only the last issued request becomes visible.
// The superseded transport call is not cancelled; the token check is the
// guarantee.
func (s *Session) FetchProfile(ctx context.Context, usernameOrURL string) error {
	name, err := username.Normalize(usernameOrURL)
	if err != nil {
		s.mu.Lock()
		s.token++
		s.state = State{Phase: PhaseFailed, Err: err, Saved: s.state.Saved, History: s.state.History}
		s.publishLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.token++
	token := s.token
	s.state = State{Phase: PhaseLoading, Saved: s.state.Saved, History: s.state.History}
	s.publishLocked()
	s.mu.Unlock()

	profile, err := s.client.FetchProfile(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		metrics.StaleResults.Inc()
		s.logger.Debug("Discarding superseded fetch result", "username", name)
		return err
	}

	if err != nil {
		s.state = State{Phase: PhaseFailed, Err: err, Saved: s.state.Saved, History: s.state.History}
		s.publishLocked()
		return err
	}

	s.state = State{Phase: PhaseLoaded, Profile: profile}
	if err := s.recency.RecordView(ctx, profile.User); err != nil {
		s.logger.Warn("Failed to record view", "username", profile.User.Username, "error", err)
	}
	s.refreshSnapshotsLocked(ctx)
	s.publishLocked()
	return nil
}

// Ingest feeds a username delivered by a deep link or share handoff into the
// session, dropping deliveries older than the freshness window.
func (s *Session) Ingest(ctx context.Context, name string, observedAt time.Time) error {
	if s.now().Sub(observedAt) >= handoffFreshness {
		s.logger.Info("Ignoring stale handoff", "username", name)
		return nil
	}
	return s.FetchProfile(ctx, name)
}

// ToggleSave flips the saved-list membership of the loaded profile's user.
// Outside PhaseLoaded it is a no-op.
func (s *Session) ToggleSave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseLoaded || s.state.Profile == nil {
		return nil
	}
	user := s.state.Profile.User

	saved, err := s.recency.IsSaved(ctx, user.ID)
	if err != nil {
		return err
	}
	if saved {
		err = s.recency.Unsave(ctx, user.ID)
	} else {
		err = s.recency.Save(ctx, user)
	}
	if err != nil {
		return err
	}

	s.refreshSnapshotsLocked(ctx)
	s.publishLocked()
	return nil
}

// Reset returns to Idle and clears any result. It has no side effects on the
// stored lists.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token++
	s.state = State{Phase: PhaseIdle, Saved: s.state.Saved, History: s.state.History}
	s.publishLocked()
}

// RefreshLists reloads the saved and history snapshots without touching the
// fetch state.
func (s *Session) RefreshLists(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshSnapshotsLocked(ctx)
	s.publishLocked()
}

func (s *Session) refreshSnapshotsLocked(ctx context.Context) {
	saved, err := s.recency.ListSaved(ctx)
	if err != nil {
		s.logger.Warn("Failed to load saved list", "error", err)
	}

	excluding := make(map[string]struct{}, len(saved))
	for _, entry := range saved {
		excluding[entry.ID] = struct{}{}
	}
	history, err := s.recency.ListHistory(ctx, excluding)
	if err != nil {
		s.logger.Warn("Failed to load history list", "error", err)
	}

	s.state.Saved = saved
	s.state.History = history

	if s.state.Phase == PhaseLoaded && s.state.Profile != nil {
		isSaved, err := s.recency.IsSaved(ctx, s.state.Profile.User.ID)
		if err == nil {
			s.state.IsSaved = isSaved
		}
	}
}

func (s *Session) publishLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- s.state:
		default:
		}
	}
}
