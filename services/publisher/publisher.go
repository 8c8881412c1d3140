package publisher

// Publisher represents a service for publishing scraped records downstream
type Publisher interface {
	// Publish publishes a message under a key to the configured stream
	Publish(key string, message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
