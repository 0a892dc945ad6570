package booth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booth/internal/domain"
	"booth/internal/infra"
)

// State is the coarse session state shown to the user.
type State string

const (
	StateIdle       State = "idle"
	StateCaptured   State = "captured"
	StateGenerating State = "generating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Publisher uploads an artifact and returns a shareable link.
type Publisher interface {
	Publish(ctx context.Context, ref string) (domain.ShareLink, error)
}

// ImageInfo describes the acquired photo without its payload.
type ImageInfo struct {
	MediaType string `json:"media_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int    `json:"size"`
}

// Snapshot is a consistent copy of a session's observable state. Seq grows
// with every committed change; a snapshot with a lower Seq is older.
type Snapshot struct {
	ID          string                    `json:"id"`
	Seq         uint64                    `json:"seq"`
	State       State                     `json:"state"`
	Progress    *Progress                 `json:"progress,omitempty"`
	Err         error                     `json:"-"`
	HasImage    bool                      `json:"has_image"`
	HasArtifact bool                      `json:"has_artifact"`
	Image       *ImageInfo                `json:"image,omitempty"`
	Artifact    *domain.CompositeArtifact `json:"artifact,omitempty"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// SessionDeps are shared by every session of a registry.
type SessionDeps struct {
	Orchestrator *Orchestrator
	Publisher    Publisher
	Online       func() bool
	Logger       *infra.Logger
}

// Session holds one user's photo, run progress and artifact. Every mutation
// bumps epoch when it invalidates work in flight; a run only commits if the
// epoch it started with is still current.
type Session struct {
	id   string
	deps SessionDeps
	now  func() time.Time

	mu        sync.Mutex
	state     State
	image     *domain.CanonicalImage
	progress  *Progress
	err       error
	outcome   *Outcome
	link      *domain.ShareLink
	epoch     uint64
	running   bool
	updatedAt time.Time
	lastSeen  time.Time
	seq       uint64
	observers map[int]func(Snapshot)
	nextObs   int

	// notifyMu orders observer delivery; delivered is the last Seq handed out.
	notifyMu  sync.Mutex
	delivered uint64

	shareMu sync.Mutex
	wg      sync.WaitGroup
}

// NewSession returns an idle session.
func NewSession(id string, deps SessionDeps) *Session {
	if deps.Logger == nil {
		deps.Logger = infra.Discard()
	}
	if deps.Online == nil {
		deps.Online = func() bool { return true }
	}
	s := &Session{id: id, deps: deps, now: time.Now, state: StateIdle, observers: make(map[int]func(Snapshot))}
	s.updatedAt = s.now()
	s.lastSeen = s.updatedAt
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Subscribe registers fn for every state change and returns a function that
// removes it. Deliveries are serialized in Seq order and a snapshot older than
// one already delivered is skipped. fn runs outside the session lock, must not
// block for long and must not mutate the session.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// SetImage replaces the photo and clears the previous artifact, error and
// share link. Any run in flight is disregarded.
func (s *Session) SetImage(img domain.CanonicalImage) Snapshot {
	s.mu.Lock()
	s.epoch++
	s.running = false
	s.image = &img
	s.state = StateCaptured
	s.progress = nil
	s.err = nil
	s.outcome = nil
	s.link = nil
	return s.commitLocked()
}

// Reset returns the session to idle. Remote calls already issued keep running
// but their results are dropped.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	s.epoch++
	s.running = false
	s.image = nil
	s.state = StateIdle
	s.progress = nil
	s.err = nil
	s.outcome = nil
	s.link = nil
	return s.commitLocked()
}

// Generate runs the pipeline synchronously.
func (s *Session) Generate(ctx context.Context) (*Outcome, error) {
	epoch, img, err := s.begin()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, epoch, img)
}

// Start checks the preconditions of Generate and runs it in the background.
func (s *Session) Start(ctx context.Context) error {
	epoch, img, err := s.begin()
	if err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.run(ctx, epoch, img)
	}()
	return nil
}

// Wait blocks until background runs started with Start have returned.
func (s *Session) Wait() { s.wg.Wait() }

func (s *Session) begin() (uint64, domain.CanonicalImage, error) {
	s.mu.Lock()
	s.lastSeen = s.now()
	switch {
	case !s.deps.Online():
		s.mu.Unlock()
		return 0, domain.CanonicalImage{}, fmt.Errorf("%w: cannot generate while offline", domain.ErrOffline)
	case s.image == nil:
		s.mu.Unlock()
		return 0, domain.CanonicalImage{}, fmt.Errorf("%w: capture or upload a photo first", domain.ErrValidation)
	case s.running:
		s.mu.Unlock()
		return 0, domain.CanonicalImage{}, domain.ErrBusy
	}
	s.epoch++
	s.running = true
	s.state = StateGenerating
	s.progress = nil
	s.err = nil
	s.outcome = nil
	s.link = nil
	epoch, img := s.epoch, *s.image
	s.commitLocked()
	return epoch, img, nil
}

func (s *Session) run(ctx context.Context, epoch uint64, img domain.CanonicalImage) (*Outcome, error) {
	log := s.deps.Logger.With().Str("session_id", s.id).Logger()
	log.Info().Int("styles", len(s.deps.Orchestrator.styles)).Msg("booth: generation started")

	outcome, err := s.deps.Orchestrator.Run(ctx, &img, func(p Progress) {
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return
		}
		s.progress = &p
		s.commitLocked()
	})

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		log.Info().Msg("booth: discarding superseded generation")
		return outcome, err
	}
	s.running = false
	s.progress = nil
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.commitLocked()
		log.Warn().Err(err).Msg("booth: generation failed")
		return nil, err
	}
	s.state = StateDone
	s.outcome = outcome
	s.commitLocked()
	log.Info().Msg("booth: generation finished")
	return outcome, nil
}

// Outcome returns the committed results and artifact.
func (s *Session) Outcome() (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	if s.outcome == nil {
		return nil, fmt.Errorf("%w: no artifact yet", domain.ErrNotFound)
	}
	return s.outcome, nil
}

// ShareLink publishes the current artifact on first use and caches the link
// until the artifact changes.
func (s *Session) ShareLink(ctx context.Context) (domain.ShareLink, error) {
	s.shareMu.Lock()
	defer s.shareMu.Unlock()

	s.mu.Lock()
	s.lastSeen = s.now()
	if s.outcome == nil {
		s.mu.Unlock()
		return domain.ShareLink{}, fmt.Errorf("%w: nothing to share yet", domain.ErrValidation)
	}
	if s.link != nil {
		link := *s.link
		s.mu.Unlock()
		return link, nil
	}
	if s.deps.Publisher == nil {
		s.mu.Unlock()
		return domain.ShareLink{}, fmt.Errorf("%w: no share backend configured", domain.ErrConfiguration)
	}
	epoch, ref := s.epoch, s.outcome.Artifact.URL
	s.mu.Unlock()

	link, err := s.deps.Publisher.Publish(ctx, ref)
	if err != nil {
		s.deps.Logger.Warn().Err(err).Str("session_id", s.id).Msg("booth: share upload failed")
		return domain.ShareLink{}, err
	}

	s.mu.Lock()
	if s.epoch == epoch {
		s.link = &link
	}
	s.mu.Unlock()
	return link, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.snapshotLocked()
}

// idleSince reports when the session was last touched and whether a run is
// in flight.
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.running
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		Seq:         s.seq,
		State:       s.state,
		Err:         s.err,
		HasImage:    s.image != nil,
		HasArtifact: s.outcome != nil,
		UpdatedAt:   s.updatedAt,
	}
	if s.progress != nil {
		p := *s.progress
		snap.Progress = &p
	}
	if s.image != nil {
		snap.Image = &ImageInfo{
			MediaType: s.image.MediaType,
			Width:     s.image.Width,
			Height:    s.image.Height,
			Size:      s.image.Size,
		}
	}
	if s.outcome != nil {
		a := s.outcome.Artifact
		snap.Artifact = &a
	}
	return snap
}

// commitLocked stamps the change, releases the lock and notifies observers.
// A commit that loses the race for notifyMu to a newer one is not delivered.
func (s *Session) commitLocked() Snapshot {
	s.seq++
	s.updatedAt = s.now()
	s.lastSeen = s.updatedAt
	snap := s.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if snap.Seq <= s.delivered {
		return snap
	}
	s.delivered = snap.Seq
	for _, fn := range observers {
		fn(snap)
	}
	return snap
}
