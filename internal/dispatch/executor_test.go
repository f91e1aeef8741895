package dispatch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hagateway/twilio-dispatch/internal/domain"
)

// fakeSender is a test double for the provider client. failFor maps a
// recipient to the error its send should return.
type fakeSender struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
	delay   time.Duration
}

func (f *fakeSender) SendMessage(ctx context.Context, req domain.SendRequest) (*domain.ProviderReceipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.To)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := f.failFor[req.To]; ok {
		return nil, err
	}

	return &domain.ProviderReceipt{SID: "SM" + req.To[1:], Status: "queued"}, nil
}

func requestsFor(recipients ...string) []domain.SendRequest {
	reqs := make([]domain.SendRequest, 0, len(recipients))
	for _, to := range recipients {
		reqs = append(reqs, domain.SendRequest{From: "+15550001111", To: to, Body: "hi"})
	}
	return reqs
}

func TestExecutor_AllSucceed(t *testing.T) {
	sender := &fakeSender{}
	executor := NewExecutor(sender, time.Second, 4)

	result := executor.Execute(context.Background(), requestsFor("+15551111111", "+15552222222"))

	if result.Sent != 2 || result.Failed != 0 {
		t.Errorf("expected 2 sent / 0 failed, got %d/%d", result.Sent, result.Failed)
	}
	if result.Status() != domain.StatusSent {
		t.Errorf("expected status sent, got %s", result.Status())
	}
	for _, outcome := range result.Outcomes {
		if !outcome.Success {
			t.Errorf("expected success for %s", outcome.Recipient)
		}
		if outcome.MessageSID == nil {
			t.Errorf("expected message SID for %s", outcome.Recipient)
		}
	}
}

func TestExecutor_PartialFailureDoesNotAbortSiblings(t *testing.T) {
	sender := &fakeSender{
		failFor: map[string]error{
			"+15552222222": &domain.ProviderError{Code: 21211, Message: "invalid 'To' number", Status: 400},
		},
	}
	executor := NewExecutor(sender, time.Second, 2)

	result := executor.Execute(context.Background(), requestsFor("+15551111111", "+15552222222", "+15553333333"))

	if result.Sent != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 sent / 1 failed, got %d/%d", result.Sent, result.Failed)
	}
	if result.Status() != domain.StatusPartial {
		t.Errorf("expected status partial, got %s", result.Status())
	}

	sender.mu.Lock()
	callCount := len(sender.calls)
	sender.mu.Unlock()
	if callCount != 3 {
		t.Errorf("expected all 3 sends attempted, got %d", callCount)
	}

	failed := result.Outcomes[1]
	if failed.Success {
		t.Fatalf("expected outcome for +15552222222 to fail")
	}
	if failed.ErrorCode == nil || *failed.ErrorCode != 21211 {
		t.Errorf("expected provider error code 21211, got %v", failed.ErrorCode)
	}
	if failed.ErrorMessage == nil || *failed.ErrorMessage != "invalid 'To' number" {
		t.Errorf("expected provider error message, got %v", failed.ErrorMessage)
	}
}

func TestExecutor_OutcomesPreserveRecipientOrder(t *testing.T) {
	recipients := []string{"+15551111111", "+15552222222", "+15553333333", "+15554444444"}

	sender := &fakeSender{delay: 5 * time.Millisecond}
	executor := NewExecutor(sender, time.Second, len(recipients))

	result := executor.Execute(context.Background(), requestsFor(recipients...))

	for i, outcome := range result.Outcomes {
		if outcome.Recipient != recipients[i] {
			t.Errorf("position %d: expected %s, got %s", i, recipients[i], outcome.Recipient)
		}
		if outcome.Position != i {
			t.Errorf("expected position %d recorded, got %d", i, outcome.Position)
		}
	}
}

func TestExecutor_AllFail(t *testing.T) {
	sender := &fakeSender{
		failFor: map[string]error{
			"+15551111111": fmt.Errorf("connection refused"),
			"+15552222222": fmt.Errorf("connection refused"),
		},
	}
	executor := NewExecutor(sender, time.Second, 2)

	result := executor.Execute(context.Background(), requestsFor("+15551111111", "+15552222222"))

	if result.Sent != 0 || result.Failed != 2 {
		t.Errorf("expected 0 sent / 2 failed, got %d/%d", result.Sent, result.Failed)
	}
	if result.Status() != domain.StatusFailed {
		t.Errorf("expected status failed, got %s", result.Status())
	}
}

func TestExecutor_TimeoutBecomesOutcome(t *testing.T) {
	sender := &fakeSender{delay: 200 * time.Millisecond}
	executor := NewExecutor(sender, 10*time.Millisecond, 1)

	result := executor.Execute(context.Background(), requestsFor("+15551111111"))

	if result.Failed != 1 {
		t.Fatalf("expected timed-out send to fail, got %d failed", result.Failed)
	}
	outcome := result.Outcomes[0]
	if outcome.ErrorMessage == nil {
		t.Fatalf("expected timeout message in outcome")
	}
	if *outcome.ErrorMessage != "request timed out after 10ms" {
		t.Errorf("unexpected timeout message: %q", *outcome.ErrorMessage)
	}
}
