package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/hagateway/twilio-dispatch/internal/domain"
)

// fakeProcessor is a simple test double for dispatchProcessor.
type fakeProcessor struct {
	resultsToReturn []domain.ProcessResult
	errToReturn     error

	calls int
}

func (f *fakeProcessor) ProcessPendingDispatches(ctx context.Context) ([]domain.ProcessResult, error) {
	f.calls++
	return f.resultsToReturn, f.errToReturn
}

func TestScheduler_ProcessDispatches_MixedResults(t *testing.T) {
	ctx := context.Background()

	processor := &fakeProcessor{
		resultsToReturn: []domain.ProcessResult{
			{DispatchID: "a", Status: domain.StatusSent, Sent: 2},
			{DispatchID: "b", Status: domain.StatusFailed, Failed: 1},
			{DispatchID: "c", Status: domain.StatusPartial, Sent: 1, Failed: 1},
		},
	}
	s := &Scheduler{
		dispatchService: processor,
		interval:        time.Minute,
	}

	// Set some alert config but keep alertWebhook empty so no HTTP calls
	s.alertThreshold = 3
	s.alertWebhook = ""

	s.processDispatches(ctx)

	status := s.GetStatus()
	if status.MessagesSent != 3 {
		t.Errorf("expected MessagesSent=3, got %d", status.MessagesSent)
	}
	if status.RunsCount != 1 {
		t.Errorf("expected RunsCount=1, got %d", status.RunsCount)
	}
	if status.ConsecutiveAllFailCount != 0 {
		t.Errorf("expected ConsecutiveAllFailCount=0, got %d", status.ConsecutiveAllFailCount)
	}
	if processor.calls != 1 {
		t.Fatalf("expected 1 call to ProcessPendingDispatches, got %d", processor.calls)
	}
}

func TestScheduler_ProcessDispatches_AllFailIncrementsCounter(t *testing.T) {
	ctx := context.Background()

	processor := &fakeProcessor{
		resultsToReturn: []domain.ProcessResult{
			{DispatchID: "a", Status: domain.StatusFailed, Failed: 2},
			{DispatchID: "b", Status: domain.StatusFailed, Failed: 1},
		},
	}
	s := &Scheduler{
		dispatchService: processor,
		interval:        time.Minute,
		alertThreshold:  5,  // high enough so sendAlert is not triggered
		alertWebhook:    "", // also prevents HTTP calls
	}

	s.processDispatches(ctx)

	status := s.GetStatus()
	if status.MessagesSent != 0 {
		t.Errorf("expected MessagesSent=0, got %d", status.MessagesSent)
	}
	if status.RunsCount != 1 {
		t.Errorf("expected RunsCount=1, got %d", status.RunsCount)
	}
	if status.ConsecutiveAllFailCount != 1 {
		t.Errorf("expected ConsecutiveAllFailCount=1, got %d", status.ConsecutiveAllFailCount)
	}
}

func TestScheduler_ProcessDispatches_PartialResetsCounter(t *testing.T) {
	ctx := context.Background()

	processor := &fakeProcessor{
		resultsToReturn: []domain.ProcessResult{
			{DispatchID: "a", Status: domain.StatusPartial, Sent: 1, Failed: 1},
		},
	}
	s := &Scheduler{
		dispatchService: processor,
		interval:        time.Minute,
	}
	s.consecutiveAllFailCount = 2

	s.processDispatches(ctx)

	status := s.GetStatus()
	if status.ConsecutiveAllFailCount != 0 {
		t.Errorf("expected ConsecutiveAllFailCount=0 after partial success, got %d", status.ConsecutiveAllFailCount)
	}
	if status.MessagesSent != 1 {
		t.Errorf("expected MessagesSent=1, got %d", status.MessagesSent)
	}
}

func TestScheduler_StartAndStopToggleRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := &fakeProcessor{}
	s := &Scheduler{
		dispatchService: processor,
		interval:        10 * time.Millisecond,
	}

	if s.IsRunning() {
		t.Fatalf("expected scheduler to be not running initially")
	}

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if !s.IsRunning() {
		t.Fatalf("expected scheduler to be running after Start")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	if s.IsRunning() {
		t.Fatalf("expected scheduler to be not running after Stop")
	}
}
