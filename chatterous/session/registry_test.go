package session

import (
	"sync"
	"testing"
	"time"

	"github.com/chatterous/chatterous/internal/common/clock/mocks"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testChannelID = snowflake.ID(100)
	testAskerID   = snowflake.ID(200)
	testUserID    = snowflake.ID(300)
)

func TestRegistry_CheckAnswer(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		content string
		matched bool
	}{
		{name: "exact match", answer: "paris", content: "paris", matched: true},
		{name: "case insensitive", answer: "paris", content: "PaRiS", matched: true},
		{name: "surrounding whitespace", answer: "paris", content: "  paris  ", matched: true},
		{name: "wrong answer", answer: "paris", content: "london", matched: false},
		{name: "partial answer", answer: "william shakespeare", content: "shakespeare", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(nil)
			r.StartTrivia(testChannelID, tt.answer, testAskerID)

			total, matched := r.CheckAnswer(testChannelID, testUserID, tt.content)
			assert.Equal(t, tt.matched, matched)

			if tt.matched {
				assert.Equal(t, 1, total)
				_, active := r.ActiveTrivia(testChannelID)
				assert.False(t, active, "session should be cleared after a correct answer")
			} else {
				_, active := r.ActiveTrivia(testChannelID)
				assert.True(t, active, "session should survive a wrong answer")
			}
		})
	}
}

func TestRegistry_CheckAnswer_OnlyOneWinner(t *testing.T) {
	r := NewRegistry(nil)
	r.StartTrivia(testChannelID, "81", testAskerID)

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan snowflake.ID, racers)
	for i := 0; i < racers; i++ {
		userID := snowflake.ID(1000 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, matched := r.CheckAnswer(testChannelID, userID, "81"); matched {
				wins <- userID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []snowflake.ID
	for id := range wins {
		winners = append(winners, id)
	}
	require.Len(t, winners, 1, "exactly one message may win a trivia round")
	assert.Equal(t, 1, r.Score(winners[0]))
}

func TestRegistry_StartTrivia_ReplacesActiveSession(t *testing.T) {
	r := NewRegistry(nil)
	r.StartTrivia(testChannelID, "paris", testAskerID)
	r.StartTrivia(testChannelID, "mars", testAskerID)

	_, matched := r.CheckAnswer(testChannelID, testUserID, "paris")
	assert.False(t, matched)
	_, matched = r.CheckAnswer(testChannelID, testUserID, "mars")
	assert.True(t, matched)
}

func TestRegistry_Score_AccumulatesAcrossRounds(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < 3; i++ {
		r.StartTrivia(testChannelID, "81", testAskerID)
		total, matched := r.CheckAnswer(testChannelID, testUserID, "81")
		require.True(t, matched)
		assert.Equal(t, i+1, total)
	}
}

func TestRegistry_TryCooldown(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClock := mocks.NewMockClock(ctrl)
	r := NewRegistry(mockClock)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Second

	mockClock.EXPECT().Now().Return(base)
	assert.True(t, r.TryCooldown(CooldownReact, testUserID, testChannelID, window))

	// Inside the window.
	mockClock.EXPECT().Now().Return(base.Add(5 * time.Second))
	assert.False(t, r.TryCooldown(CooldownReact, testUserID, testChannelID, window))

	// The reply window for the same pair is independent.
	mockClock.EXPECT().Now().Return(base.Add(5 * time.Second))
	assert.True(t, r.TryCooldown(CooldownReply, testUserID, testChannelID, window))

	// After the window expires.
	mockClock.EXPECT().Now().Return(base.Add(11 * time.Second))
	assert.True(t, r.TryCooldown(CooldownReact, testUserID, testChannelID, window))
}

func TestRegistry_TryCooldown_AtMostOnceUnderRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClock := mocks.NewMockClock(ctrl)
	r := NewRegistry(mockClock)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(base).AnyTimes()

	const racers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	fired := 0
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryCooldown(CooldownReply, testUserID, testChannelID, time.Minute) {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired, "racing messages must trigger the action at most once")
}
