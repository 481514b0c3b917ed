package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/WalletFox/internal/pkg/mandate"
	"github.com/ManuelReschke/WalletFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
)

// ErrRequeue signals that a job put itself back on the queue and must not be
// marked completed or failed, e.g. when a worker shuts down mid-poll.
var ErrRequeue = fmt.Errorf("job requeued for a later worker")

// StatusChecker resolves the on-chain status of a submitted transaction signature.
type StatusChecker interface {
	SignatureStatus(ctx context.Context, signature string) (solana.TxStatus, error)
}

// statusChecker returns the checker used by confirmation jobs. Tests swap it out.
var statusChecker = func() StatusChecker { return solana.GetClient() }

// Poll tuning for confirmation jobs. Shortened in tests.
var (
	confirmPollInterval = 2 * time.Second
	confirmDeadline     = 90 * time.Second
)

// processConfirmTransactionJob polls the cluster until the signature is finalized,
// fails, or the deadline passes, then records the outcome in the status cache.
// RPC errors are transient: the loop keeps polling until the deadline.
func (q *Queue) processConfirmTransactionJob(ctx context.Context, job *Job) error {
	payload, err := ConfirmTransactionJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid confirmation payload: %w", err)
	}

	checker := statusChecker()
	deadline := time.Now().Add(confirmDeadline)
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	log.Infof("[Confirm] Watching %s (kind=%s)", solana.Mask(payload.Signature), payload.Kind)

	for {
		status, err := checker.SignatureStatus(ctx, payload.Signature)
		switch {
		case err != nil:
			log.Warnf("[Confirm] Status check for %s failed: %v", solana.Mask(payload.Signature), err)
		case status.Failed:
			log.Warnf("[Confirm] Transaction %s failed on chain", solana.Mask(payload.Signature))
			q.recordConfirmOutcome(payload, mandate.STATUS_FAILED)
			return nil
		case status.Finalized:
			log.Infof("[Confirm] Transaction %s finalized at slot %d", solana.Mask(payload.Signature), status.Slot)
			q.recordConfirmOutcome(payload, mandate.STATUS_CONFIRMED)
			return nil
		}

		if time.Now().After(deadline) {
			log.Warnf("[Confirm] Giving up on %s after %s, marking failed", solana.Mask(payload.Signature), confirmDeadline)
			q.recordConfirmOutcome(payload, mandate.STATUS_FAILED)
			return nil
		}

		select {
		case <-q.stopCh:
			// Shutting down mid-poll; hand the job to a later worker
			if err := q.requeueJob(ctx, job); err != nil {
				return err
			}
			return ErrRequeue
		case <-ticker.C:
		}
	}
}

// recordConfirmOutcome writes the final status to the cache and, on success,
// bumps the matching demo counter.
func (q *Queue) recordConfirmOutcome(payload *ConfirmTransactionJobPayload, status string) {
	if err := mandate.SetStatus(payload.Signature, status); err != nil {
		log.Errorf("[Confirm] Failed to store status for %s: %v", solana.Mask(payload.Signature), err)
	}

	if status != mandate.STATUS_CONFIRMED {
		return
	}

	var event string
	switch payload.Kind {
	case ConfirmKindTransfer:
		event = counter.EventTransfer
	case ConfirmKindMandateCreate:
		event = counter.EventMandateCreate
	case ConfirmKindMandateExecute:
		event = counter.EventMandateExecute
	default:
		return
	}
	if err := counter.AddEvent(event); err != nil {
		log.Warnf("[Confirm] Failed to count %s: %v", event, err)
	}
}
