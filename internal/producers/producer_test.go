package producers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/listings-footer/pkg/messaging"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishWithContext(
	ctx context.Context,
	data []byte,
	routingKeys []string,
	optionFuncs ...func(*rabbitmq.PublishOptions),
) error {
	opts := &rabbitmq.PublishOptions{}
	for _, f := range optionFuncs {
		f(opts)
	}
	return m.Called(ctx, data, routingKeys, opts.Exchange).Error(0)
}

type recorder struct {
	keys []string
	errs []error
}

func (r *recorder) RecordRabbitPublish(routingKey string, err error) {
	r.keys = append(r.keys, routingKey)
	r.errs = append(r.errs, err)
}

func TestProducer_SendConfirmation(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	rec := &recorder{}

	pub.On("PublishWithContext", ctx,
		mock.MatchedBy(func(body []byte) bool {
			var evt messaging.NewSubscriberEvent
			return json.Unmarshal(body, &evt) == nil &&
				evt.Email == "jane@example.com" && evt.Token == "tok"
		}),
		[]string{messaging.SubscribeRoutingKey},
		messaging.ExchangeName,
	).Return(nil).Once()

	p := NewProducer(pub, zerolog.Nop(), rec)
	require.NoError(t, p.SendConfirmation(ctx, "jane@example.com", "tok"))

	pub.AssertExpectations(t)
	assert.Equal(t, []string{messaging.SubscribeRoutingKey}, rec.keys)
	assert.Equal(t, []error{nil}, rec.errs)
}

func TestProducer_PublishError(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	rec := &recorder{}
	errBroker := errors.New("channel closed")

	pub.On("PublishWithContext", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errBroker).Once()

	p := NewProducer(pub, zerolog.Nop(), rec)
	err := p.SendConfirmation(ctx, "jane@example.com", "tok")

	assert.ErrorIs(t, err, errBroker)
	assert.Equal(t, []error{errBroker}, rec.errs)
}
