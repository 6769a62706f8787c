package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// pagedEngine serves pages of two records each with cursors c1..cN, then
// repeats the last cursor on an empty page.
type pagedEngine struct {
	pages   int
	sink    *bytes.Buffer
	cursors []string
	// linesAtCall records how many lines were in the sink when each request fired.
	linesAtCall []int
	failAt      int
}

func (p *pagedEngine) ExportPage(
	_ context.Context, _ *request.Request, _ *metadata.Metadata, cursor string,
) (*engine.Response, error) {
	p.cursors = append(p.cursors, cursor)
	p.linesAtCall = append(p.linesAtCall, strings.Count(p.sink.String(), "\n"))
	call := len(p.cursors)
	if p.failAt == call {
		return nil, &engine.Error{Op: "select", Status: 502, Err: engine.ErrRequestFailed}
	}

	if call > p.pages {
		last := FirstCursor
		if p.pages > 0 {
			last = fmt.Sprintf("c%d", p.pages)
		}
		return engine.ParseResponse([]byte(`{"response":{"docs":[]},"nextCursorMark":"` + last + `"}`))
	}
	body := fmt.Sprintf(`{"response":{"numFound":%d,"docs":[
		{"primaryKey":["K%d_1", "PlasmoDB"],"score":1.5,"project":"PlasmoDB"},
		{"primaryKey":["K%d_2"],"score":0.25}
	]},"nextCursorMark":"c%d"}`, p.pages*2, call, call, call)
	return engine.ParseResponse([]byte(body))
}

func testRequest(t *testing.T) *request.Request {
	t.Helper()
	r, err := request.FromJSON([]byte(`{"searchText":"x","documentTypeFilter":{"documentType":"gene"}}`), request.StreamOptions)
	require.NoError(t, err)
	return &r
}

func TestExport_TerminatesAfterRepeatedCursor(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			var sink bytes.Buffer
			pe := &pagedEngine{pages: n, sink: &sink}

			err := New(pe).Export(context.Background(), testRequest(t), nil, &sink)
			require.NoError(t, err)

			assert.Len(t, pe.cursors, n+1, "N pages take N+1 requests")
			assert.Equal(t, FirstCursor, pe.cursors[0])
			assert.Equal(t, 2*n, strings.Count(sink.String(), "\n"))
			for i := range pe.linesAtCall {
				assert.Equal(t, 2*i, pe.linesAtCall[i], "page %d written before request %d", i, i+1)
			}
		})
	}
}

func TestExport_LineFormat(t *testing.T) {
	var sink bytes.Buffer
	pe := &pagedEngine{pages: 1, sink: &sink}

	require.NoError(t, New(pe).Export(context.Background(), testRequest(t), nil, &sink))

	assert.Equal(t, "[\"K1_1\",\"PlasmoDB\"]\t1.5\tPlasmoDB\n[\"K1_2\"]\t0.25\t\n", sink.String())
}

func TestExport_FlushesHTTPWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	pe := &pagedEngine{pages: 2, sink: rec.Body}

	require.NoError(t, New(pe).Export(context.Background(), testRequest(t), nil, rec))
	assert.True(t, rec.Flushed)
	assert.Equal(t, []int{0, 2, 4}, pe.linesAtCall)
}

func TestExport_FailureKeepsWrittenPages(t *testing.T) {
	var sink bytes.Buffer
	pe := &pagedEngine{pages: 5, sink: &sink, failAt: 3}

	err := New(pe).Export(context.Background(), testRequest(t), nil, &sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrRequestFailed)
	assert.Equal(t, 4, strings.Count(sink.String(), "\n"))
}

func TestExport_CanceledBetweenPages(t *testing.T) {
	var sink bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	pe := &cancelingPager{pagedEngine: pagedEngine{pages: 5, sink: &sink}, cancelAfter: 2, cancel: cancel}

	err := New(pe).Export(ctx, testRequest(t), nil, &sink)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, pe.cursors, 2)
	assert.Equal(t, 4, strings.Count(sink.String(), "\n"))
}

func TestExport_MissingCursor(t *testing.T) {
	var sink bytes.Buffer
	pe := pagerFunc(func(string) (*engine.Response, error) {
		return engine.ParseResponse([]byte(`{"response":{"docs":[{"primaryKey":["a"],"score":1}]}}`))
	})

	err := New(pe).Export(context.Background(), testRequest(t), nil, &sink)
	assert.ErrorIs(t, err, engine.ErrBadResponse)
	assert.Empty(t, sink.String())
}

type cancelingPager struct {
	pagedEngine
	cancelAfter int
	cancel      context.CancelFunc
}

func (c *cancelingPager) ExportPage(
	ctx context.Context, req *request.Request, meta *metadata.Metadata, cursor string,
) (*engine.Response, error) {
	resp, err := c.pagedEngine.ExportPage(ctx, req, meta, cursor)
	if len(c.cursors) == c.cancelAfter {
		c.cancel()
	}
	return resp, err
}

type pagerFunc func(cursor string) (*engine.Response, error)

func (f pagerFunc) ExportPage(
	_ context.Context, _ *request.Request, _ *metadata.Metadata, cursor string,
) (*engine.Response, error) {
	return f(cursor)
}
