package messaging

const (
	ExchangeName        = "newsletter"
	SubscribeRoutingKey = "subscribe"
	SubscribeQueueName  = "newsletter_subscribe_queue"
)
