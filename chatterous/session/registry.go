// Package session holds the process-lifetime state shared by the event
// dispatcher: active trivia questions, trivia score tallies and auto-action
// cooldown timestamps. Nothing in here is durable; a restart loses it all,
// which is a documented limitation rather than an accident.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/chatterous/chatterous/internal/common/clock"
	"github.com/disgoorg/snowflake/v2"
)

// CooldownKind separates the auto-react and auto-reply windows; the two are
// tracked independently for the same (user, channel) pair.
type CooldownKind int

const (
	CooldownReact CooldownKind = iota
	CooldownReply
)

type TriviaSession struct {
	Answer  string
	AskerID snowflake.ID
}

type cooldownKey struct {
	kind      CooldownKind
	userID    snowflake.ID
	channelID snowflake.ID
}

type Registry struct {
	mu        sync.Mutex
	trivia    map[snowflake.ID]TriviaSession
	scores    map[snowflake.ID]int
	cooldowns map[cooldownKey]time.Time
	clock     clock.Clock
}

func NewRegistry(clk clock.Clock) *Registry {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &Registry{
		trivia:    make(map[snowflake.ID]TriviaSession),
		scores:    make(map[snowflake.ID]int),
		cooldowns: make(map[cooldownKey]time.Time),
		clock:     clk,
	}
}

// StartTrivia installs a session for the channel, replacing any session
// already active there.
func (r *Registry) StartTrivia(channelID snowflake.ID, answer string, askerID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trivia[channelID] = TriviaSession{Answer: answer, AskerID: askerID}
}

func (r *Registry) ActiveTrivia(channelID snowflake.ID) (TriviaSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.trivia[channelID]
	return s, ok
}

// CheckAnswer compares the message content against the channel's active
// session, case-insensitively and ignoring surrounding whitespace. On a match
// the author's tally is incremented, the session is cleared and the new total
// is returned; the check-and-clear is atomic so only one message can win.
func (r *Registry) CheckAnswer(channelID, authorID snowflake.ID, content string) (total int, matched bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.trivia[channelID]
	if !ok {
		return 0, false
	}
	if !strings.EqualFold(strings.TrimSpace(content), strings.TrimSpace(s.Answer)) {
		return 0, false
	}

	delete(r.trivia, channelID)
	r.scores[authorID]++
	return r.scores[authorID], true
}

func (r *Registry) Score(userID snowflake.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scores[userID]
}

// TryCooldown reports whether the (user, channel) pair is outside the window
// for the given kind, and if so records the action time. The check and the
// record happen under one lock so two racing messages trigger at most once.
func (r *Registry) TryCooldown(kind CooldownKind, userID, channelID snowflake.ID, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cooldownKey{kind: kind, userID: userID, channelID: channelID}
	now := r.clock.Now()
	if last, ok := r.cooldowns[key]; ok && now.Sub(last) < window {
		return false
	}
	r.cooldowns[key] = now
	return true
}
