package dispatch

import (
	"context"
	"time"

	"github.com/hagateway/twilio-dispatch/internal/domain"
)

// Options is the read-only configuration a Dispatcher is built with. It is
// injected at startup and never mutated during the session.
type Options struct {
	ExternalBaseURL string
	SenderPool      []string
	SendTimeout     time.Duration
	MaxConcurrency  int
}

// Dispatcher runs the full pipeline: normalize recipients, resolve media,
// plan per-recipient requests, execute them against the provider.
type Dispatcher struct {
	opts     Options
	executor *Executor
}

func NewDispatcher(sender Sender, opts Options) *Dispatcher {
	return &Dispatcher{
		opts:     opts,
		executor: NewExecutor(sender, opts.SendTimeout, opts.MaxConcurrency),
	}
}

// Plan runs the pre-flight half of the pipeline without touching the
// provider. It is used on its own to validate queued dispatches at intake.
func (d *Dispatcher) Plan(from string, targets, mediaRefs []string, body string) ([]domain.SendRequest, error) {
	recipients, err := NormalizeRecipients(targets)
	if err != nil {
		return nil, err
	}

	mediaURLs, err := ResolveMediaURLs(mediaRefs, d.opts.ExternalBaseURL)
	if err != nil {
		return nil, err
	}

	return PlanDispatch(from, d.opts.SenderPool, recipients, mediaURLs, body)
}

// Dispatch plans and executes one logical message. A returned error is
// always pre-flight (validation or configuration): nothing was sent.
// Provider failures never surface here; they live in the aggregate result.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	from string,
	targets, mediaRefs []string,
	body string,
) (*domain.AggregateResult, error) {
	requests, err := d.Plan(from, targets, mediaRefs, body)
	if err != nil {
		return nil, err
	}

	result := d.executor.Execute(ctx, requests)
	return &result, nil
}
