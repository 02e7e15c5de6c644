package race

import (
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
	"unicode/utf8"
)

// ParagraphSource supplies the text for a new race.
type ParagraphSource interface {
	RandomParagraph() string
}

type Options struct {
	ID           string
	Text         string
	Icons        []string
	FallbackIcon string
	// Timeout is the idle period after which the room expires. Zero disables expiry.
	Timeout    time.Duration
	MaxPlayers int
	Paragraphs ParagraphSource
	// OnExpire runs on the timer goroutine, without the room lock held.
	OnExpire func(id string)
	// Pick returns a random index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

type JoinResult struct {
	Icon     string
	Icons    map[string]string
	Text     string
	Fallback bool
}

type StartResult struct {
	Text   string
	Replay bool
}

type ProgressResult struct {
	Score    int
	Finished bool
	// Place is the 1-based finishing position in arrival order, 0 if not finished.
	Place     int
	Elapsed   time.Duration
	Scores    map[string]int
	Completed bool
	Finishers []string
}

type Snapshot struct {
	ID             string            `json:"id"`
	Text           string            `json:"text"`
	Status         Status            `json:"status"`
	Icons          map[string]string `json:"icons"`
	Scores         map[string]int    `json:"scores"`
	Finishers      []string          `json:"finishers"`
	CreatedAt      time.Time         `json:"createdAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
}

// Room is one race session. Every exported method runs under the room lock, so callers
// never observe a partially applied operation.
type Room struct {
	ID           string
	createdAt    time.Time
	timeout      time.Duration
	maxPlayers   int
	fallbackIcon string
	catalog      map[string]struct{}
	paragraphs   ParagraphSource
	onExpire     func(id string)
	pick         func(n int) int

	lock           sync.Mutex
	text           string
	status         Status
	participants   map[string]string
	order          []string
	availableIcons []string
	scores         map[string]int
	finishers      []string
	startedAt      time.Time
	lastActivityAt time.Time
	expiry         *time.Timer
	generation     uint64
}

// NewRoom builds a waiting room. The idle timer is armed by the first join.
func NewRoom(opts Options) *Room {
	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	catalog := make(map[string]struct{}, len(opts.Icons))
	for _, icon := range opts.Icons {
		catalog[icon] = struct{}{}
	}
	now := time.Now()
	return &Room{
		ID:             opts.ID,
		createdAt:      now,
		timeout:        opts.Timeout,
		maxPlayers:     opts.MaxPlayers,
		fallbackIcon:   opts.FallbackIcon,
		catalog:        catalog,
		paragraphs:     opts.Paragraphs,
		onExpire:       opts.OnExpire,
		pick:           pick,
		text:           opts.Text,
		status:         Waiting,
		participants:   make(map[string]string),
		availableIcons: slices.Clone(opts.Icons),
		scores:         make(map[string]int),
		lastActivityAt: now,
	}
}

func (r *Room) Join(username string) (JoinResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.status == Expired {
		return JoinResult{}, ErrRoomNotFound
	}
	if r.status != Waiting {
		return JoinResult{}, ErrRoomBusy
	}
	if _, taken := r.participants[username]; taken {
		return JoinResult{}, ErrDuplicateUsername
	}
	if r.maxPlayers > 0 && len(r.participants) >= r.maxPlayers {
		return JoinResult{}, ErrRoomFull
	}
	icon, fallback := r.allocateIcon()
	r.participants[username] = icon
	r.order = append(r.order, username)
	r.resetIdleTimer()
	return JoinResult{
		Icon:     icon,
		Icons:    maps.Clone(r.participants),
		Text:     r.text,
		Fallback: fallback,
	}, nil
}

func (r *Room) allocateIcon() (string, bool) {
	if len(r.availableIcons) == 0 {
		return r.fallbackIcon, true
	}
	i := r.pick(len(r.availableIcons))
	icon := r.availableIcons[i]
	r.availableIcons = slices.Delete(r.availableIcons, i, i+1)
	return icon, false
}

// Leave removes a participant before the race starts and returns their icon to the pool.
// It returns the number of participants left.
func (r *Room) Leave(username string) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.status == Expired {
		return len(r.participants), ErrRoomNotFound
	}
	if r.status != Waiting {
		return len(r.participants), ErrRoomBusy
	}
	icon, ok := r.participants[username]
	if !ok {
		return len(r.participants), ErrNotParticipant
	}
	delete(r.participants, username)
	delete(r.scores, username)
	r.order = slices.DeleteFunc(r.order, func(u string) bool { return u == username })
	if r.releasable(icon) {
		r.availableIcons = append(r.availableIcons, icon)
	}
	return len(r.participants), nil
}

// releasable reports whether icon can go back to the pool: it belongs to the catalog, is
// not already available and nobody else holds it (the fallback icon can be shared).
func (r *Room) releasable(icon string) bool {
	if _, ok := r.catalog[icon]; !ok {
		return false
	}
	if slices.Contains(r.availableIcons, icon) {
		return false
	}
	for _, held := range r.participants {
		if held == icon {
			return false
		}
	}
	return true
}

// StartRace moves the room into a race. If scores from an earlier race exist the room
// gets a fresh paragraph and the scores are cleared first. Starting a race that is already
// running is allowed and only restarts the countdown on the clients. A Completed room is
// not final: starting it again is a replay and moves it back to InProgress.
func (r *Room) StartRace() (StartResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.status == Expired {
		return StartResult{}, ErrRoomNotFound
	}
	replay := len(r.scores) > 0
	if replay {
		if r.paragraphs != nil {
			r.text = r.paragraphs.RandomParagraph()
		}
		clear(r.scores)
	}
	r.finishers = nil
	r.status = InProgress
	r.startedAt = time.Now()
	r.resetIdleTimer()
	return StartResult{Text: r.text, Replay: replay}, nil
}

// RecordProgress stores the length of the correctly typed prefix for username. Scores
// are clamped to the text length; the latest report wins even if it is lower.
func (r *Room) RecordProgress(username string, score int) (ProgressResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.status == Expired {
		return ProgressResult{}, ErrRoomNotFound
	}
	length := utf8.RuneCountInString(r.text)
	score = max(0, min(score, length))
	r.scores[username] = score

	res := ProgressResult{Score: score, Finished: score >= length}
	if res.Finished && r.status != Waiting {
		place := slices.Index(r.finishers, username)
		if place < 0 {
			r.finishers = append(r.finishers, username)
			place = len(r.finishers) - 1
		}
		res.Place = place + 1
		res.Elapsed = time.Since(r.startedAt)
		if r.status == InProgress && r.allFinished(length) {
			r.status = Completed
			res.Completed = true
		}
	}
	res.Scores = maps.Clone(r.scores)
	res.Finishers = slices.Clone(r.finishers)
	r.resetIdleTimer()
	return res, nil
}

func (r *Room) allFinished(length int) bool {
	if len(r.participants) == 0 {
		return false
	}
	for username := range r.participants {
		if r.scores[username] < length {
			return false
		}
	}
	return true
}

// ResetIdleTimer replaces the pending expiry with a new one a full timeout from now.
func (r *Room) ResetIdleTimer() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.resetIdleTimer()
}

func (r *Room) resetIdleTimer() {
	if r.status == Expired {
		return
	}
	r.lastActivityAt = time.Now()
	if r.expiry != nil {
		r.expiry.Stop()
		r.expiry = nil
	}
	r.generation++
	if r.timeout <= 0 {
		return
	}
	gen := r.generation
	r.expiry = time.AfterFunc(r.timeout, func() { r.expire(gen) })
}

// expire runs when a timer fires. A timer replaced after it fired but before it got the
// lock carries a stale generation and does nothing.
func (r *Room) expire(gen uint64) {
	r.lock.Lock()
	if gen != r.generation || r.status == Expired {
		r.lock.Unlock()
		return
	}
	r.status = Expired
	r.expiry = nil
	onExpire := r.onExpire
	r.lock.Unlock()

	if onExpire != nil {
		onExpire(r.ID)
	}
}

// Close stops the idle timer and marks the room expired without running OnExpire.
func (r *Room) Close() {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.expiry != nil {
		r.expiry.Stop()
		r.expiry = nil
	}
	r.generation++
	r.status = Expired
}

func (r *Room) Participant(username string) (string, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	icon, ok := r.participants[username]
	return icon, ok
}

// Participants returns usernames in join order.
func (r *Room) Participants() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return slices.Clone(r.order)
}

func (r *Room) Status() Status {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.status
}

func (r *Room) Text() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.text
}

func (r *Room) Icons() map[string]string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return maps.Clone(r.participants)
}

func (r *Room) Scores() map[string]int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return maps.Clone(r.scores)
}

func (r *Room) AvailableIcons() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return slices.Clone(r.availableIcons)
}

func (r *Room) Snapshot() Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Snapshot{
		ID:             r.ID,
		Text:           r.text,
		Status:         r.status,
		Icons:          maps.Clone(r.participants),
		Scores:         maps.Clone(r.scores),
		Finishers:      slices.Clone(r.finishers),
		CreatedAt:      r.createdAt,
		LastActivityAt: r.lastActivityAt,
	}
}
