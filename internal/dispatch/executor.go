package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

// Sender is the provider client capability consumed by the executor. It is
// an interface so tests can substitute a fake without network access.
type Sender interface {
	SendMessage(ctx context.Context, req domain.SendRequest) (*domain.ProviderReceipt, error)
}

// Executor issues planned requests against the provider. Requests are
// independent: a failure on one recipient never cancels or blocks the
// others, and outcomes are collected back into recipient order.
type Executor struct {
	sender         Sender
	sendTimeout    time.Duration
	maxConcurrency int
}

func NewExecutor(sender Sender, sendTimeout time.Duration, maxConcurrency int) *Executor {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &Executor{
		sender:         sender,
		sendTimeout:    sendTimeout,
		maxConcurrency: maxConcurrency,
	}
}

// Execute attempts every request. No fail-fast: once planning has succeeded,
// all planned sends are attempted, and provider errors are converted into
// outcomes rather than propagated.
func (e *Executor) Execute(ctx context.Context, requests []domain.SendRequest) domain.AggregateResult {
	outcomes := make([]domain.DispatchOutcome, len(requests))

	sem := make(chan struct{}, e.maxConcurrency)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		sem <- struct{}{}

		go func(position int, req domain.SendRequest) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[position] = e.sendOne(ctx, position, req)
		}(i, req)
	}

	wg.Wait()

	result := domain.AggregateResult{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Success {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	return result
}

func (e *Executor) sendOne(ctx context.Context, position int, req domain.SendRequest) domain.DispatchOutcome {
	outcome := domain.DispatchOutcome{
		Position:  position,
		Recipient: req.To,
		SentAt:    time.Now(),
	}

	sendCtx := ctx
	if e.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, e.sendTimeout)
		defer cancel()
	}

	receipt, err := e.sender.SendMessage(sendCtx, req)
	if err != nil {
		logger.Errorf("Failed to send to %s: %v", req.To, err)

		var provErr *domain.ProviderError
		switch {
		case errors.As(err, &provErr):
			code := provErr.Code
			msg := provErr.Message
			outcome.ErrorCode = &code
			outcome.ErrorMessage = &msg
		case errors.Is(err, context.DeadlineExceeded):
			msg := fmt.Sprintf("request timed out after %s", e.sendTimeout)
			outcome.ErrorMessage = &msg
		default:
			msg := err.Error()
			outcome.ErrorMessage = &msg
		}

		return outcome
	}

	logger.Debugf("Sent to %s (sid: %s)", req.To, receipt.SID)

	sid := receipt.SID
	outcome.Success = true
	outcome.MessageSID = &sid

	return outcome
}
