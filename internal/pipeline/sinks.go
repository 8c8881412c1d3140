package pipeline

import (
	"context"
	"encoding/json"

	"jralmeda/pcxscraper/internal/extract"
	"jralmeda/pcxscraper/internal/storage"
	"jralmeda/pcxscraper/pkg/errors"
	"jralmeda/pcxscraper/services/publisher"
)

// RecordSink receives each merged record as soon as it is final. Sink
// failures are record-local; the pipeline logs them and moves on.
type RecordSink interface {
	Name() string
	Consume(ctx context.Context, record extract.ProductRecord) error
}

// PublisherSink publishes merged records as JSON through a Publisher
type PublisherSink struct {
	Publisher publisher.Publisher
}

// Name implements RecordSink
func (s *PublisherSink) Name() string { return "publisher" }

// Consume implements RecordSink
func (s *PublisherSink) Consume(_ context.Context, record extract.ProductRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewPublisher(errors.StageDetail, "failed to marshal record", err)
	}
	if err := s.Publisher.Publish(record.Link, data); err != nil {
		return errors.NewPublisher(errors.StageDetail, "failed to publish record", err)
	}
	return nil
}

// StoreSink persists merged records to the product store
type StoreSink struct {
	Store *storage.ProductStore
}

// Name implements RecordSink
func (s *StoreSink) Name() string { return "storage" }

// Consume implements RecordSink
func (s *StoreSink) Consume(ctx context.Context, record extract.ProductRecord) error {
	if err := s.Store.Save(ctx, record); err != nil {
		return errors.NewStorage(errors.StageDetail, "failed to save record", err)
	}
	return nil
}
