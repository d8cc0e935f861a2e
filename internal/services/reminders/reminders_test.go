package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReminderCandidates(ctx context.Context, today time.Time) ([]models.ReminderCandidate, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReminderCandidate), args.Error(1)
}

func (m *RepoMock) ClaimOutbox(ctx context.Context, c models.ReminderCandidate) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) ReleaseOutbox(ctx context.Context, kind string, subscriptionID int64) error {
	return m.Called(ctx, kind, subscriptionID).Error(0)
}

func (m *RepoMock) IsOutboxClaimed(ctx context.Context, kind string, subscriptionID int64) (bool, error) {
	args := m.Called(ctx, kind, subscriptionID)
	return args.Bool(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishEmail(ctx context.Context, job any) error {
	return m.Called(ctx, job).Error(0)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(ctx context.Context, to []string, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type countingMetrics struct{ kinds []string }

func (c *countingMetrics) IncReminder(kind string) { c.kinds = append(c.kinds, kind) }

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var today = time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)

func newTestService(repo *RepoMock, pub *PublisherMock, m Metrics) *Service {
	s := NewService(repo, pub, m, time.UTC, noopLogger())
	s.now = func() time.Time { return time.Date(2025, 3, 30, 9, 0, 0, 0, time.UTC) }
	return s
}

func candidates() []models.ReminderCandidate {
	return []models.ReminderCandidate{
		{Kind: models.ReminderExpire7d, SubscriptionID: 1, MemberID: "m1", Email: "a@atom.eg", FirstName: "Omar",
			EndDate: time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)},
		{Kind: models.ReminderSessionsLow, SubscriptionID: 2, MemberID: "m2", Email: "b@atom.eg", SessionsLeft: 1},
		{Kind: models.ReminderSessionsLow, SubscriptionID: 3, MemberID: "m3", Email: ""},
	}
}

func TestRun_QueuesClaimed(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	metrics := &countingMetrics{}
	cs := candidates()

	repo.On("ReminderCandidates", mock.Anything, today).Return(cs, nil)
	repo.On("ClaimOutbox", mock.Anything, cs[0]).Return(true, nil)
	repo.On("ClaimOutbox", mock.Anything, cs[1]).Return(false, nil)
	pub.On("PublishEmail", mock.Anything, BuildJob(cs[0])).Return(nil)

	res, err := newTestService(repo, pub, metrics).Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, res.Queued)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []string{models.ReminderExpire7d}, metrics.kinds)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRun_PublishFailureReleasesClaim(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	cs := candidates()[:1]

	repo.On("ReminderCandidates", mock.Anything, today).Return(cs, nil)
	repo.On("ClaimOutbox", mock.Anything, cs[0]).Return(true, nil)
	repo.On("ReleaseOutbox", mock.Anything, cs[0].Kind, cs[0].SubscriptionID).Return(nil)
	pub.On("PublishEmail", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	res, err := newTestService(repo, pub, nil).Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Queued)
	assert.Equal(t, 1, res.Skipped)
	repo.AssertExpectations(t)
}

func TestRun_DryDoesNotClaim(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	cs := candidates()

	repo.On("ReminderCandidates", mock.Anything, today).Return(cs, nil)
	repo.On("IsOutboxClaimed", mock.Anything, cs[0].Kind, cs[0].SubscriptionID).Return(false, nil)
	repo.On("IsOutboxClaimed", mock.Anything, cs[1].Kind, cs[1].SubscriptionID).Return(true, nil)

	res, err := newTestService(repo, pub, nil).Run(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, res.Dry)
	assert.Equal(t, 1, res.Queued)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Items[0].SubscriptionID)
	repo.AssertNotCalled(t, "ClaimOutbox", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishEmail", mock.Anything, mock.Anything)
}

func TestRun_RepoError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReminderCandidates", mock.Anything, today).Return(nil, errors.New("db down"))

	_, err := newTestService(repo, new(PublisherMock), nil).Run(context.Background(), false)
	require.Error(t, err)
}

func TestBuildJob(t *testing.T) {
	cs := candidates()

	expire := BuildJob(cs[0])
	assert.Equal(t, "Your membership expires in 7 days", expire.Subject)
	assert.Contains(t, expire.Body, "Hello Omar")
	assert.Contains(t, expire.Body, "(on 2025-04-06)")
	assert.Equal(t, "a@atom.eg", expire.To)

	low := BuildJob(cs[1])
	assert.Equal(t, "Only 1 session(s) left", low.Subject)
	assert.Contains(t, low.Body, "Hello there")
}

func TestSender_Handle(t *testing.T) {
	job := models.EmailJob{Kind: models.ReminderExpire7d, SubscriptionID: 1, To: "a@atom.eg", Subject: "s", Body: "b"}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    []byte
		sendErr error
		send    bool
		wantErr bool
	}{
		{name: "sent", body: body, send: true},
		{name: "smtp failure requeues", body: body, send: true, sendErr: errors.New("421"), wantErr: true},
		{name: "permanent smtp rejection dropped", body: body, send: true,
			sendErr: fmt.Errorf("smtp.Send: %w", &textproto.Error{Code: 550, Msg: "mailbox unavailable"})},
		{name: "broken json dropped", body: []byte("{"), send: false},
		{name: "no recipient dropped", body: []byte(`{"kind":"expire_7d"}`), send: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(MailerMock)
			if tt.send {
				mailer.On("Send", mock.Anything, []string{"a@atom.eg"}, "s", "b").Return(tt.sendErr)
			}
			err := NewSender(mailer, time.Second, noopLogger()).Handle(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mailer.AssertExpectations(t)
		})
	}
}

func TestSchedule_StopsOnCancel(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReminderCandidates", mock.Anything, today).Return([]models.ReminderCandidate{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newTestService(repo, new(PublisherMock), nil).Schedule(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
