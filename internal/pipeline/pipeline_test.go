package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jralmeda/pcxscraper/internal/extract"
)

type testSink struct {
	mu     sync.Mutex
	infos  []string
	errors []error
}

func (s *testSink) LogError(stage string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

func (s *testSink) LogInfo(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, fmt.Sprintf(format, args...))
}

type recordingSink struct {
	records []extract.ProductRecord
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Consume(_ context.Context, record extract.ProductRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func listingHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<div class="product-card"><a href="/products/laptop-%d">Laptop %d</a><span class="price">₱%d,999.00</span></div>`, i, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

const detailHTML = `<html><body>
	<h4>Specification</h4>
	<div>
		<h4>Specification</h4>
		<p>Processor: Intel Core i5-1235U</p>
	</div>
</body></html>`

func newTestPipeline(fetch FetchFunc, sink *testSink, sinks ...RecordSink) *Pipeline {
	return New(
		extract.NewListingExtractor("https://pcx.com.ph", sink),
		extract.NewDetailExtractor(),
		fetch,
		sink,
		0,
		sinks...,
	)
}

func TestPipelineRun(t *testing.T) {
	sink := &testSink{}
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		if strings.Contains(url, "/collections/") {
			return strings.NewReader(listingHTML(2)), nil
		}
		return strings.NewReader(detailHTML), nil
	})

	dataset, err := newTestPipeline(fetch, sink).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.NoError(t, err)
	require.Len(t, dataset, 2)

	assert.Equal(t, "Laptop 1", dataset[0].Name)
	assert.Equal(t, "https://pcx.com.ph/products/laptop-1", dataset[0].Link)
	require.NotNil(t, dataset[0].PricePHP)
	assert.Equal(t, 1999.00, *dataset[0].PricePHP)
	assert.Equal(t, "Intel Core i5-1235U", dataset[0].Specs["Processor"])

	// Progress messages follow the "Scraping i/N: name" shape
	assert.Contains(t, sink.infos, "Scraping 1/2: Laptop 1")
	assert.Contains(t, sink.infos, "Scraping 2/2: Laptop 2")
}

func TestPipelineDetailFailureIsolated(t *testing.T) {
	sink := &testSink{}
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		if strings.Contains(url, "/collections/") {
			return strings.NewReader(listingHTML(5)), nil
		}
		if strings.HasSuffix(url, "laptop-3") {
			return nil, fmt.Errorf("fetch %s unexpected status code: 503", url)
		}
		return strings.NewReader(detailHTML), nil
	})

	dataset, err := newTestPipeline(fetch, sink).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.NoError(t, err, "a detail-stage failure must not abort the run")
	require.Len(t, dataset, 5, "every listing record is processed exactly once")

	// Listing order is preserved
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("Laptop %d", i+1), dataset[i].Name)
	}

	// Record 3 keeps its listing fields and has no detail keys
	assert.Equal(t, "https://pcx.com.ph/products/laptop-3", dataset[2].Link)
	assert.NotNil(t, dataset[2].PricePHP)
	assert.NotContains(t, dataset[2].Specs, "Processor")

	// Its neighbors were enriched normally
	assert.Equal(t, "Intel Core i5-1235U", dataset[1].Specs["Processor"])
	assert.Equal(t, "Intel Core i5-1235U", dataset[3].Specs["Processor"])

	// The failure was reported to the logging collaborator
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0].Error(), "Laptop 3")
}

func TestPipelineNoListingsIsRunFatal(t *testing.T) {
	sink := &testSink{}
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		return strings.NewReader("<html><body><p>maintenance</p></body></html>"), nil
	})

	dataset, err := newTestPipeline(fetch, sink).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.ErrorIs(t, err, ErrNoListings)
	assert.Nil(t, dataset)
	assert.True(t, ErrNoListings.IsRunFatal())
}

func TestPipelineListingFetchFailureIsRunFatal(t *testing.T) {
	sink := &testSink{}
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := newTestPipeline(fetch, sink).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch listing page")
}

func TestPipelineRecordWithoutLinkSkipsDetail(t *testing.T) {
	sink := &testSink{}
	var detailFetches int
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		if strings.Contains(url, "/collections/") {
			return strings.NewReader(`<html><body><h3>ASUS Vivobook Go 15</h3></body></html>`), nil
		}
		detailFetches++
		return strings.NewReader(detailHTML), nil
	})

	dataset, err := newTestPipeline(fetch, sink).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, "ASUS Vivobook Go 15", dataset[0].Name)
	assert.Zero(t, detailFetches, "no link means the detail stage is skipped entirely")
	assert.Empty(t, sink.errors)
}

func TestPipelineSinksReceiveMergedRecords(t *testing.T) {
	sink := &testSink{}
	recording := &recordingSink{}
	failing := &recordingSink{err: fmt.Errorf("stream unavailable")}

	fetch := FetchFunc(func(url string) (io.Reader, error) {
		if strings.Contains(url, "/collections/") {
			return strings.NewReader(listingHTML(2)), nil
		}
		return strings.NewReader(detailHTML), nil
	})

	dataset, err := newTestPipeline(fetch, sink, recording, failing).Run(context.Background(), "https://pcx.com.ph/collections/laptops")
	require.NoError(t, err)
	require.Len(t, dataset, 2)

	// Every merged record reached the sink, already enriched
	require.Len(t, recording.records, 2)
	assert.Equal(t, "Intel Core i5-1235U", recording.records[0].Specs["Processor"])

	// A failing sink is logged per record and never aborts the run
	assert.Len(t, sink.errors, 2)
}

func TestPipelineCancellationKeepsPartialOutput(t *testing.T) {
	sink := &testSink{}
	ctx, cancel := context.WithCancel(context.Background())

	var fetches int
	fetch := FetchFunc(func(url string) (io.Reader, error) {
		if strings.Contains(url, "/collections/") {
			return strings.NewReader(listingHTML(5)), nil
		}
		fetches++
		if fetches == 2 {
			cancel()
		}
		return strings.NewReader(detailHTML), nil
	})

	p := New(
		extract.NewListingExtractor("https://pcx.com.ph", sink),
		extract.NewDetailExtractor(),
		fetch,
		sink,
		10*time.Millisecond,
	)

	dataset, err := p.Run(ctx, "https://pcx.com.ph/collections/laptops")
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, dataset, 2, "already-merged records remain valid after cancellation")
}
