package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCapturer struct {
	mock.Mock
}

func (m *mockCapturer) Capture(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newTestWidget(opts ...Option) (*Widget, *fakeScheduler) {
	s := &fakeScheduler{}
	return New(append([]Option{WithScheduler(s)}, opts...)...), s
}

func TestWidget_SubmitConfirmsAndReverts(t *testing.T) {
	w, s := newTestWidget()

	w.UpdateEmail("user@example.com")
	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, Confirmed, w.State())
	assert.Equal(t, "", w.Email())
	assert.Equal(t, LabelSubscribed, w.Label())

	s.Advance(DefaultRevertDelay - time.Millisecond)
	assert.Equal(t, Confirmed, w.State())

	s.Advance(time.Millisecond)
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, LabelSubscribe, w.Label())
	assert.Equal(t, 0, w.Pending())
}

func TestWidget_SubmitEmptyIsNoop(t *testing.T) {
	w, s := newTestWidget()

	err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrEmptyEmail)
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, "", w.Email())
	assert.Equal(t, 0, s.armed())
}

func TestWidget_UpdateEmailOverwrites(t *testing.T) {
	w, _ := newTestWidget()

	for _, v := range []string{"a@b.co", "", "  spaced  ", "not-an-email", "жил@пример.рф", "a@b.co"} {
		w.UpdateEmail(v)
		assert.Equal(t, v, w.Email())
	}
	assert.Equal(t, Idle, w.State())
}

func TestWidget_RapidSubmissions(t *testing.T) {
	t.Run("restart policy", func(t *testing.T) {
		w, s := newTestWidget(WithTimerPolicy(RestartTimer))
		ctx := context.Background()

		w.UpdateEmail("first@example.com")
		require.NoError(t, w.Submit(ctx))

		s.Advance(100 * time.Millisecond)
		assert.ErrorIs(t, w.Submit(ctx), ErrEmptyEmail, "buffer was cleared by the first submission")

		w.UpdateEmail("second@example.com")
		require.NoError(t, w.Submit(ctx))
		assert.Equal(t, 1, w.Pending())
		assert.Equal(t, 1, s.armed())

		s.Advance(DefaultRevertDelay - 100*time.Millisecond)
		assert.Equal(t, Confirmed, w.State(), "first revert was cancelled")

		s.Advance(100 * time.Millisecond)
		assert.Equal(t, Idle, w.State())

		s.Advance(10 * time.Second)
		assert.Equal(t, Idle, w.State())
		assert.Equal(t, 0, w.Pending())
	})

	t.Run("overlap policy", func(t *testing.T) {
		w, s := newTestWidget(WithTimerPolicy(OverlapTimers))
		ctx := context.Background()

		w.UpdateEmail("first@example.com")
		require.NoError(t, w.Submit(ctx))

		s.Advance(100 * time.Millisecond)
		w.UpdateEmail("second@example.com")
		require.NoError(t, w.Submit(ctx))
		assert.Equal(t, 2, w.Pending())

		s.Advance(DefaultRevertDelay - 100*time.Millisecond)
		assert.Equal(t, Idle, w.State(), "first timer reverts early")
		assert.Equal(t, 1, w.Pending())

		s.Advance(100 * time.Millisecond)
		assert.Equal(t, Idle, w.State())
		assert.Equal(t, 0, w.Pending())
	})
}

func TestWidget_CloseCancelsPendingRevert(t *testing.T) {
	var transitions []Transition
	w, s := newTestWidget(WithObserver(func(tr Transition) {
		transitions = append(transitions, tr)
	}))
	ctx := context.Background()

	w.UpdateEmail("user@example.com")
	require.NoError(t, w.Submit(ctx))
	w.Close()

	assert.Equal(t, 0, s.armed())
	assert.Equal(t, 0, w.Pending())

	s.Advance(time.Minute)
	assert.Equal(t, []Transition{{From: Idle, To: Confirmed}}, transitions)

	w.UpdateEmail("again@example.com")
	assert.ErrorIs(t, w.Submit(ctx), ErrClosed)

	w.Close()
}

func TestWidget_Capturer(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &mockCapturer{}
		c.On("Capture", mock.Anything, "user@example.com").Return(nil).Once()
		t.Cleanup(func() { c.AssertExpectations(t) })

		w, _ := newTestWidget(WithCapturer(c))
		w.UpdateEmail("user@example.com")

		require.NoError(t, w.Submit(ctx))
		assert.Equal(t, Confirmed, w.State())
	})

	t.Run("failure keeps widget idle", func(t *testing.T) {
		capErr := errors.New("endpoint down")
		c := &mockCapturer{}
		c.On("Capture", mock.Anything, "user@example.com").Return(capErr).Once()
		t.Cleanup(func() { c.AssertExpectations(t) })

		w, s := newTestWidget(WithCapturer(c))
		w.UpdateEmail("user@example.com")

		err := w.Submit(ctx)
		assert.ErrorIs(t, err, capErr)
		assert.Equal(t, Idle, w.State())
		assert.Equal(t, "user@example.com", w.Email())
		assert.Equal(t, 0, s.armed())
	})

	t.Run("not invoked for empty buffer", func(t *testing.T) {
		c := &mockCapturer{}
		t.Cleanup(func() { c.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything) })

		w, _ := newTestWidget(WithCapturer(c))
		assert.ErrorIs(t, w.Submit(ctx), ErrEmptyEmail)
	})
}

func TestWidget_ObserverSeesFullCycle(t *testing.T) {
	var transitions []Transition
	w, s := newTestWidget(
		WithRevertDelay(time.Second),
		WithObserver(func(tr Transition) { transitions = append(transitions, tr) }),
	)

	w.UpdateEmail("user@example.com")
	require.NoError(t, w.Submit(context.Background()))
	s.Advance(time.Second)

	assert.Equal(t, []Transition{
		{From: Idle, To: Confirmed},
		{From: Confirmed, To: Idle},
	}, transitions)
}

func TestWidget_Snapshot(t *testing.T) {
	w, _ := newTestWidget()
	w.UpdateEmail("draft@example.com")

	assert.Equal(t, Snapshot{Email: "draft@example.com", State: "idle", Label: LabelSubscribe}, w.Snapshot())

	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, Snapshot{Email: "", State: "confirmed", Label: LabelSubscribed}, w.Snapshot())
}

func TestWidget_RealSchedulerReverts(t *testing.T) {
	w := New(WithRevertDelay(20 * time.Millisecond))
	w.UpdateEmail("user@example.com")
	require.NoError(t, w.Submit(context.Background()))

	assert.Eventually(t, func() bool {
		return w.State() == Idle
	}, time.Second, 5*time.Millisecond)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "state(7)", State(7).String())
}
