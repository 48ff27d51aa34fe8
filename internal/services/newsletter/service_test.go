package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *mockRepo) Confirm(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Unsubscribe(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendConfirmation(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

type syncEmailerFunc func(email, token string) error

func (f syncEmailerFunc) SendConfirmation(email, token string) error { return f(email, token) }

var hexToken = mock.MatchedBy(func(token string) bool { return len(token) == 2*bytesNum })

func newTestService(repo *mockRepo, sender *mockSender) (*Service, *metrics.Metrics) {
	m := metrics.NewMetrics("test")
	return NewService(repo, sender, zerolog.Nop(), m), m
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()
	errDB := errors.New("db down")
	errSend := errors.New("smtp down")

	cases := []struct {
		name      string
		createErr error
		sendErr   error
		wantErr   error
		wantSend  bool
	}{
		{"success", nil, nil, nil, true},
		{"duplicate", models.ErrSubscriberExists, nil, models.ErrSubscriberExists, false},
		{"repository error", errDB, nil, errDB, false},
		{"send error", nil, errSend, errSend, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			sender := &mockSender{}
			repo.On("Create", ctx, "jane@example.com", hexToken).Return(tc.createErr).Once()
			if tc.wantSend {
				sender.On("SendConfirmation", ctx, "jane@example.com", hexToken).Return(tc.sendErr).Once()
			}

			svc, _ := newTestService(repo, sender)
			err := svc.Subscribe(ctx, "jane@example.com")

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			sender.AssertExpectations(t)
		})
	}
}

func TestService_CaptureTreatsDuplicateAsSuccess(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("Create", ctx, "jane@example.com", hexToken).Return(models.ErrSubscriberExists).Once()

	svc, _ := newTestService(repo, &mockSender{})

	assert.NoError(t, svc.Capture(ctx, "jane@example.com"))
}

func TestService_CapturePropagatesFailures(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("Create", ctx, "jane@example.com", hexToken).Return(errors.New("db down")).Once()

	svc, _ := newTestService(repo, &mockSender{})

	assert.Error(t, svc.Capture(ctx, "jane@example.com"))
}

func TestService_RejectsMalformedAddress(t *testing.T) {
	ctx := context.Background()

	for _, email := range []string{"", "not-an-email", "jane@", "@example.com", "jane example.com"} {
		t.Run(email, func(t *testing.T) {
			repo := &mockRepo{}
			sender := &mockSender{}
			svc, m := newTestService(repo, sender)

			assert.ErrorIs(t, svc.Subscribe(ctx, email), models.ErrInvalidEmail)
			assert.ErrorIs(t, svc.Capture(ctx, email), models.ErrInvalidEmail, "capture does not swallow it")

			assert.Equal(t, 2.0, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("invalid_email", "warning")))
			assert.Equal(t, 0.0, testutil.ToFloat64(m.SubscribersCreated))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			sender.AssertNotCalled(t, "SendConfirmation", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_ConfirmAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("Confirm", ctx, "good").Return(true, nil).Once()
	repo.On("Confirm", ctx, "bad").Return(false, nil).Once()
	repo.On("Unsubscribe", ctx, "good").Return(true, nil).Once()

	svc, m := newTestService(repo, &mockSender{})

	ok, err := svc.Confirm(ctx, "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Confirm(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Unsubscribe(ctx, "good")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscribersConfirmed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscribersCanceled))
	repo.AssertExpectations(t)
}

func TestDirect(t *testing.T) {
	var gotEmail, gotToken string
	sender := Direct(syncEmailerFunc(func(email, token string) error {
		gotEmail, gotToken = email, token
		return nil
	}))

	require.NoError(t, sender.SendConfirmation(context.Background(), "jane@example.com", "tok"))
	assert.Equal(t, "jane@example.com", gotEmail)
	assert.Equal(t, "tok", gotToken)
}

func TestNewToken(t *testing.T) {
	a, err := newToken()
	require.NoError(t, err)
	b, err := newToken()
	require.NoError(t, err)

	assert.Len(t, a, 2*bytesNum)
	assert.NotEqual(t, a, b)
}
