package pipeline

import (
	"context"
	"fmt"
	"time"

	"jralmeda/pcxscraper/helpers"
	"jralmeda/pcxscraper/internal/extract"
	"jralmeda/pcxscraper/internal/observability"
	"jralmeda/pcxscraper/pkg/errors"
)

// ErrNoListings is the run-fatal condition: the listing page yielded zero
// candidate cards across every fallback stage.
var ErrNoListings = errors.NewValidation(errors.StageListing, "no product listings found")

// Result carries one record's outcome through the run. DetailErr is set
// when the record's detail enrichment failed; the record itself is still
// valid with its listing-stage fields.
type Result struct {
	Record    extract.ProductRecord
	DetailErr error
}

// Pipeline sequences listing extraction, per-record detail fetches and the
// merge step into the final dataset
type Pipeline struct {
	listing *extract.ListingExtractor
	detail  *extract.DetailExtractor
	fetcher Fetcher
	sink    helpers.LoggerInterface
	sinks   []RecordSink
	delay   time.Duration
}

// New creates a pipeline. fetcher and sink are required collaborators;
// record sinks are optional.
func New(listing *extract.ListingExtractor, detail *extract.DetailExtractor, fetcher Fetcher, sink helpers.LoggerInterface, delay time.Duration, sinks ...RecordSink) *Pipeline {
	return &Pipeline{
		listing: listing,
		detail:  detail,
		fetcher: fetcher,
		sink:    sink,
		sinks:   sinks,
		delay:   delay,
	}
}

// Run executes the full extraction: one listing pass, then one sequential
// detail fetch per record in listing order with a polite delay between
// fetches. A record's detail failure is logged and leaves an empty detail
// contribution; it never aborts the run. Cancelling the context stops
// further fetches and returns the records merged so far.
func (p *Pipeline) Run(ctx context.Context, listingURL string) (extract.Dataset, error) {
	body, err := p.fetcher.Fetch(listingURL)
	if err != nil {
		observability.FetchFailures.Inc()
		return nil, errors.NewTransport(errors.StageListing, "failed to fetch listing page", err)
	}
	observability.PagesFetched.Inc()

	records, err := p.listing.Extract(body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoListings
	}
	p.sink.LogInfo("Found %d product listings", len(records))

	dataset := make(extract.Dataset, 0, len(records))
	total := len(records)
	for i, record := range records {
		if ctx.Err() != nil {
			return dataset, ctx.Err()
		}

		p.sink.LogInfo("Scraping %d/%d: %s", i+1, total, record.Name)

		result := p.enrich(record)
		if result.DetailErr != nil {
			p.sink.LogError(errors.StageDetail, result.DetailErr)
		}
		dataset = append(dataset, result.Record)
		observability.RecordsMerged.Inc()

		p.dispatch(ctx, result.Record)

		if i < total-1 && !sleepCtx(ctx, p.delay) {
			return dataset, ctx.Err()
		}
	}

	return dataset, nil
}

// enrich fetches a record's detail page and merges the extracted
// specification attributes over the listing fields. A record without a
// link skips the detail stage entirely with an empty contribution.
func (p *Pipeline) enrich(record extract.ProductRecord) Result {
	if record.Link == "" {
		return Result{Record: record}
	}

	body, err := p.fetcher.Fetch(record.Link)
	if err != nil {
		observability.FetchFailures.Inc()
		message := fmt.Sprintf("failed to fetch: %s", record.Name)
		return Result{Record: record, DetailErr: errors.NewTransport(errors.StageDetail, message, err)}
	}
	observability.PagesFetched.Inc()

	specs, err := p.detail.Extract(body)
	if err != nil {
		return Result{Record: record, DetailErr: err}
	}

	extract.MergeSpecs(&record, specs)
	return Result{Record: record}
}

// dispatch hands the merged record to every configured sink. Sink errors
// are record-local and only logged.
func (p *Pipeline) dispatch(ctx context.Context, record extract.ProductRecord) {
	for _, s := range p.sinks {
		if err := s.Consume(ctx, record); err != nil {
			p.sink.LogError(s.Name(), err)
		}
	}
}

// sleepCtx sleeps for d unless the context is cancelled first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
