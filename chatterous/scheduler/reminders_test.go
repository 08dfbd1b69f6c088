package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/chatterous/chatterous/internal/common/clock/mocks"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeReminderRepo struct {
	due     []*models.Reminder
	dueErr  error
	deleted []int64
}

func (f *fakeReminderRepo) Schedule(context.Context, *models.Reminder) error { return nil }

func (f *fakeReminderRepo) Due(context.Context, time.Time) ([]*models.Reminder, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.due, nil
}

func (f *fakeReminderRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMessenger struct {
	sent    []string
	sendErr error
}

func (f *fakeMessenger) SendMessage(_ context.Context, _ snowflake.ID, message discord.MessageCreate) (*discord.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, message.Content)
	return &discord.Message{}, nil
}

func newTestReminders(t *testing.T, repo *fakeReminderRepo, messenger *fakeMessenger) *Reminders {
	t.Helper()
	mockClock := mocks.NewMockClock(gomock.NewController(t))
	mockClock.EXPECT().Now().Return(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()
	return NewReminders(repo, messenger, mockClock)
}

func TestRunCycle_DeliversAndDeletes(t *testing.T) {
	repo := &fakeReminderRepo{
		due: []*models.Reminder{
			{ID: 1, UserID: "40", ChannelID: "20", Content: "stand up"},
			{ID: 2, UserID: "41", ChannelID: "21", Content: "drink water"},
		},
	}
	messenger := &fakeMessenger{}
	r := newTestReminders(t, repo, messenger)

	require.NoError(t, r.RunCycle(context.Background()))

	require.Len(t, messenger.sent, 2)
	assert.Equal(t, "<@40> ⏰ Reminder: stand up", messenger.sent[0])
	assert.Equal(t, []int64{1, 2}, repo.deleted)
}

func TestRunCycle_DeletesEvenWhenSendFails(t *testing.T) {
	repo := &fakeReminderRepo{
		due: []*models.Reminder{{ID: 7, UserID: "40", ChannelID: "20", Content: "gone"}},
	}
	messenger := &fakeMessenger{sendErr: errors.New("channel deleted")}
	r := newTestReminders(t, repo, messenger)

	require.NoError(t, r.RunCycle(context.Background()))

	assert.Empty(t, messenger.sent)
	assert.Equal(t, []int64{7}, repo.deleted, "delivery is at-most-once, the row goes away regardless")
}

func TestRunCycle_UnresolvableChannelStillDeleted(t *testing.T) {
	repo := &fakeReminderRepo{
		due: []*models.Reminder{{ID: 9, UserID: "40", ChannelID: "not-a-channel", Content: "lost"}},
	}
	messenger := &fakeMessenger{}
	r := newTestReminders(t, repo, messenger)

	require.NoError(t, r.RunCycle(context.Background()))

	assert.Empty(t, messenger.sent)
	assert.Equal(t, []int64{9}, repo.deleted)
}

func TestRunCycle_ScanErrorAbortsCycleOnly(t *testing.T) {
	repo := &fakeReminderRepo{dueErr: errors.New("disk on fire")}
	messenger := &fakeMessenger{}
	r := newTestReminders(t, repo, messenger)

	err := r.RunCycle(context.Background())
	assert.Error(t, err)
	assert.Empty(t, repo.deleted)

	// The next cycle proceeds normally once the store recovers.
	repo.dueErr = nil
	repo.due = []*models.Reminder{{ID: 1, UserID: "40", ChannelID: "20", Content: "back"}}
	require.NoError(t, r.RunCycle(context.Background()))
	assert.Len(t, messenger.sent, 1)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &fakeReminderRepo{}
	messenger := &fakeMessenger{}
	r := newTestReminders(t, repo, messenger)
	r.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
