// Package watcher subscribes to program logs and dispatches launch events
// exactly once per transaction signature.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/solana"
)

// LaunchMarker is the log line fragment identifying a pool initialization.
const LaunchMarker = "Program log: initialize2: InitializeInstruction2"

// Handler processes one launch event. Invoked as a fire-and-forget task;
// the watcher does not observe its outcome.
type Handler func(ctx context.Context, event domain.LaunchEvent)

// Options configures a Watcher.
type Options struct {
	// Address is the watched program address (mentions filter).
	Address string

	// Commitment level for the subscription. Defaults to "finalized".
	Commitment string

	// Logger for watcher events. Defaults to stderr.
	Logger *log.Logger
}

// Watcher consumes a log subscription and submits one pipeline task per
// unique launch signature.
type Watcher struct {
	ws      solana.WSClient
	handler Handler
	opts    Options
	seen    *SignatureSet
	logger  *log.Logger

	wg sync.WaitGroup
}

// New creates a watcher. The handler is required.
func New(ws solana.WSClient, handler Handler, opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[watcher] ", log.LstdFlags)
	}
	return &Watcher{
		ws:      ws,
		handler: handler,
		opts:    opts,
		seen:    NewSignatureSet(),
		logger:  logger,
	}
}

// Run subscribes and processes notifications until the context is
// cancelled. If the notification channel closes (connection teardown), it
// resubscribes with the identical filter and continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()

	for {
		notifications, err := w.subscribe(ctx)
		if err != nil {
			return err
		}

		if open := w.consume(ctx, notifications); !open {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Printf("notification stream closed, resubscribing")
			observability.RecordResubscribe()
			continue
		}
		return ctx.Err()
	}
}

func (w *Watcher) subscribe(ctx context.Context) (<-chan solana.LogNotification, error) {
	filter := solana.LogsFilter{
		Mentions:   []string{w.opts.Address},
		Commitment: w.opts.Commitment,
	}
	notifications, err := w.ws.SubscribeLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("subscribe logs for %s: %w", w.opts.Address, err)
	}
	w.logger.Printf("watching %s", w.opts.Address)
	return notifications, nil
}

// consume drains the channel. Returns false if the channel closed, true if
// the context ended first.
func (w *Watcher) consume(ctx context.Context, notifications <-chan solana.LogNotification) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case notif, ok := <-notifications:
			if !ok {
				return false
			}
			w.handleNotification(ctx, notif)
		}
	}
}

func (w *Watcher) handleNotification(ctx context.Context, notif solana.LogNotification) {
	observability.RecordLogEvent()

	// Failed transactions never correspond to a live launch.
	if notif.Err != nil {
		observability.RecordFailedTxSkipped()
		return
	}
	// Every unseen signature is recorded before the marker test so a
	// replayed notification never re-enters the pipeline.
	if !w.seen.CheckAndInsert(notif.Signature) {
		w.logger.Printf("duplicate signature %s skipped", notif.Signature)
		observability.RecordDuplicateSkipped()
		return
	}
	if !matchesMarker(notif.Logs) {
		return
	}

	w.logger.Printf("launch detected: %s", notif.Signature)
	observability.RecordLaunchDetected()

	event := domain.LaunchEvent{Signature: notif.Signature, Logs: notif.Logs}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.handler(ctx, event)
	}()
}

func matchesMarker(logs []string) bool {
	for _, line := range logs {
		if strings.Contains(line, LaunchMarker) {
			return true
		}
	}
	return false
}
