// Package export streams the identifiers of every record matching a search.
package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/logger"
	"github.com/kailas-cloud/sitesearch/internal/metrics"
)

// FirstCursor starts a cursor export.
const FirstCursor = "*"

// Exporter pages through all matches and writes one line per record.
type Exporter struct {
	pager Pager
}

// New creates an exporter.
func New(p Pager) *Exporter {
	return &Exporter{pager: p}
}

// Export writes primaryKey<TAB>score<TAB>project lines for every matching
// record. Each page is flushed to w before the next page is requested. The
// export ends when the engine returns the cursor it was sent. Lines already
// written stay written when a later page fails.
func (e *Exporter) Export(ctx context.Context, req *request.Request, meta *metadata.Metadata, w io.Writer) error {
	log := logger.FromContext(ctx)
	bw := bufio.NewWriter(w)
	flusher, _ := w.(http.Flusher)

	cursor := FirstCursor
	pages, records := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export canceled after %d pages: %w", pages, err)
		}
		resp, err := e.pager.ExportPage(ctx, req, meta, cursor)
		if err != nil {
			return fmt.Errorf("export page %d: %w", pages+1, err)
		}
		next, ok := resp.NextCursor()
		if !ok {
			return &engine.Error{Op: "export", Err: fmt.Errorf("%w: response has no cursor", engine.ErrBadResponse)}
		}

		for _, d := range resp.Documents() {
			if err = writeRecord(bw, d); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			records++
		}
		if err = bw.Flush(); err != nil {
			return fmt.Errorf("flush page: %w", err)
		}
		if flusher != nil {
			flusher.Flush()
		}
		pages++
		metrics.ExportPagesTotal.Inc()
		metrics.ExportRecordsTotal.Add(float64(len(resp.Documents())))

		if next == cursor {
			break
		}
		cursor = next
	}

	log.Info("export finished", zap.Int("pages", pages), zap.Int("records", records))
	return nil
}

// writeRecord writes one line; the primary key is written as compact JSON text.
func writeRecord(w *bufio.Writer, d engine.Document) error {
	pk, ok := d.Raw(domain.PrimaryKeyField)
	if !ok {
		return fmt.Errorf("%w: record without %s", engine.ErrBadResponse, domain.PrimaryKeyField)
	}
	var line bytes.Buffer
	if err := json.Compact(&line, pk); err != nil {
		return fmt.Errorf("%w: %s: %w", engine.ErrBadResponse, domain.PrimaryKeyField, err)
	}
	score, _ := d.Float(domain.ScoreField)
	project, _ := d.String(domain.ProjectField)

	line.WriteByte('\t')
	line.WriteString(strconv.FormatFloat(score, 'g', -1, 64))
	line.WriteByte('\t')
	line.WriteString(project)
	line.WriteByte('\n')
	_, err := w.Write(line.Bytes())
	return err
}
