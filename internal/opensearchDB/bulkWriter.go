package opensearchDB

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
	"github.com/pipeline-io/opensearch-sink/internal/metrics"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

// BulkWriter turns normalized documents into bulk index calls. Write issues
// one immediate call for the operations it is given; Submit feeds the
// background accumulator, which flushes when the batch size threshold or the
// flush window is hit, whichever first. Per-document outcomes are always
// preserved individually.
type BulkWriter struct {
	client *ClientHolder
	opts   config.BatchOptions
	logger *logger_i.Logger

	pending   chan pendingOp
	stop      chan struct{}
	flusherWG sync.WaitGroup

	closeMu sync.RWMutex
	closed  bool
}

type pendingOp struct {
	op   docModel.BulkOperation
	done chan flushOutcome
}

type flushOutcome struct {
	item docModel.ItemResult
	err  error
}

func NewBulkWriter(client *ClientHolder, opts config.BatchOptions) *BulkWriter {
	w := &BulkWriter{
		client:  client,
		opts:    opts,
		logger:  logger_i.NewLogger("BulkWriter"),
		pending: make(chan pendingOp, opts.BatchSize*2),
		stop:    make(chan struct{}),
	}
	w.flusherWG.Add(1)
	go w.flushLoop()
	return w
}

// Write performs a single bulk call for ops without touching the
// accumulator. Single-document callers take this path so a batch of one
// never waits for a window to fill.
func (w *BulkWriter) Write(ctx context.Context, ops []docModel.BulkOperation) (docModel.BulkResult, error) {
	if len(ops) == 0 {
		return docModel.BulkResult{}, nil
	}

	body, err := buildBulkBody(ops)
	if err != nil {
		return docModel.BulkResult{}, &WriteError{Kind: WriteConnection, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, w.opts.ReadTimeout)
	defer cancel()

	start := time.Now()
	res, err := opensearchapi.BulkRequest{Body: bytes.NewReader(body)}.Do(callCtx, w.client.OS)
	metrics.CaptureExecutionMetrics("bulk_write", time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return docModel.BulkResult{}, &WriteError{Kind: WriteTimeout, Err: err}
		}
		return docModel.BulkResult{}, &WriteError{Kind: WriteConnection, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		kind := WriteConnection
		if res.StatusCode == 408 || res.StatusCode == 504 {
			kind = WriteTimeout
		}
		return docModel.BulkResult{}, &WriteError{Kind: kind, Err: fmt.Errorf("status %d: %s", res.StatusCode, string(raw))}
	}

	result, err := parseBulkResponse(res.Body, ops)
	if err != nil {
		return docModel.BulkResult{}, &WriteError{Kind: WriteConnection, Err: err}
	}

	metrics.CaptureBulkBatch(len(ops), result.Errors)
	if result.Errors {
		w.logger.Warn("Bulk call completed with item errors", "ops", len(ops))
	}
	return result, nil
}

// Submit queues one operation on the accumulator and waits for the outcome
// of the batch it lands in. The read lock is held across the enqueue so Close
// cannot retire the accumulator between the closed check and the send.
func (w *BulkWriter) Submit(ctx context.Context, op docModel.BulkOperation) (docModel.ItemResult, error) {
	p := pendingOp{op: op, done: make(chan flushOutcome, 1)}

	w.closeMu.RLock()
	if w.closed {
		w.closeMu.RUnlock()
		return docModel.ItemResult{}, &WriteError{Kind: WriteConnection, Err: errors.New("bulk writer is closed")}
	}
	select {
	case w.pending <- p:
		w.closeMu.RUnlock()
	case <-ctx.Done():
		w.closeMu.RUnlock()
		return docModel.ItemResult{}, &WriteError{Kind: WriteTimeout, Err: ctx.Err()}
	}

	select {
	case outcome := <-p.done:
		return outcome.item, outcome.err
	case <-ctx.Done():
		return docModel.ItemResult{}, &WriteError{Kind: WriteTimeout, Err: ctx.Err()}
	}
}

// Close flushes whatever is buffered and stops the accumulator. Idempotent.
func (w *BulkWriter) Close() {
	w.closeMu.Lock()
	if w.closed {
		w.closeMu.Unlock()
		return
	}
	w.closed = true
	w.closeMu.Unlock()

	close(w.stop)
	w.flusherWG.Wait()
}

// flushLoop runs the accumulator. The window timer is armed when the first
// op enters an empty batch and left alone as more ops join, so the earliest
// submit never waits longer than one window.
func (w *BulkWriter) flushLoop() {
	defer w.flusherWG.Done()

	window := time.NewTimer(w.opts.FlushWindow)
	stopWindow(window)

	var batch []pendingOp
	for {
		select {
		case p := <-w.pending:
			if len(batch) == 0 {
				window.Reset(w.opts.FlushWindow)
			}
			batch = append(batch, p)
			if len(batch) >= w.opts.BatchSize {
				stopWindow(window)
				w.flush(batch)
				batch = nil
			}

		case <-window.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}

		case <-w.stop:
			//drain what arrived before the stop signal
			for {
				select {
				case p := <-w.pending:
					batch = append(batch, p)
				default:
					if len(batch) > 0 {
						w.flush(batch)
					}
					return
				}
			}
		}
	}
}

// stopWindow halts the timer and clears any fired-but-unread tick so the
// next Reset starts clean.
func stopWindow(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (w *BulkWriter) flush(batch []pendingOp) {
	ops := make([]docModel.BulkOperation, len(batch))
	for i, p := range batch {
		ops[i] = p.op
	}

	result, err := w.Write(context.Background(), ops)
	if err != nil {
		for _, p := range batch {
			p.done <- flushOutcome{err: err}
		}
		return
	}

	for i, p := range batch {
		if i < len(result.Items) {
			p.done <- flushOutcome{item: result.Items[i]}
		} else {
			p.done <- flushOutcome{err: &WriteError{Kind: WriteConnection, Err: fmt.Errorf("bulk response missing item %d", i)}}
		}
	}
}

func buildBulkBody(ops []docModel.BulkOperation) ([]byte, error) {
	var buf bytes.Buffer
	for _, op := range ops {
		meta := map[string]any{
			"index": map[string]any{
				"_index": op.IndexName,
				"_id":    op.Document.OriginalDocID,
			},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		docLine, err := json.Marshal(op.Document)
		if err != nil {
			return nil, err
		}
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

type bulkItemDetail struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

type bulkResponseBody struct {
	Errors bool                        `json:"errors"`
	Items  []map[string]bulkItemDetail `json:"items"`
}

func parseBulkResponse(body io.Reader, ops []docModel.BulkOperation) (docModel.BulkResult, error) {
	var parsed bulkResponseBody
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return docModel.BulkResult{}, err
	}

	result := docModel.BulkResult{Errors: parsed.Errors}
	for i, item := range parsed.Items {
		detail, ok := item["index"]
		if !ok {
			//bulk echoes one action key per item, anything else is unexpected
			for _, d := range item {
				detail = d
			}
		}

		docID := detail.ID
		if docID == "" && i < len(ops) {
			docID = ops[i].Document.OriginalDocID
		}

		itemResult := docModel.ItemResult{
			DocID:   docID,
			Status:  detail.Status,
			Success: detail.Error == nil && detail.Status < 300,
		}
		if detail.Error != nil {
			itemResult.Error = fmt.Sprintf("%s: %s", detail.Error.Type, detail.Error.Reason)
		}
		result.Items = append(result.Items, itemResult)
	}
	return result, nil
}
