package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrNoBrokers      = errors.New("at least one broker is required")
	ErrEmptyTopic     = errors.New("topic cannot be empty")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)
