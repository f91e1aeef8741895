package dispatch

import (
	"errors"
	"testing"
)

func TestPlanDispatch_OneRequestPerRecipient(t *testing.T) {
	recipients := []string{"+15551234567", "+15559876543", "+447911123456"}
	media := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}

	requests, err := PlanDispatch("+15550001111", nil, recipients, media, "door opened")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != len(recipients) {
		t.Fatalf("expected %d requests, got %d", len(recipients), len(requests))
	}

	for i, req := range requests {
		if req.To != recipients[i] {
			t.Errorf("request %d: expected recipient %s, got %s", i, recipients[i], req.To)
		}
		if req.From != "+15550001111" {
			t.Errorf("request %d: expected from +15550001111, got %s", i, req.From)
		}
		if req.Body != "door opened" {
			t.Errorf("request %d: body not carried over", i)
		}
		if len(req.MediaURLs) != 2 {
			t.Errorf("request %d: expected full media list, got %v", i, req.MediaURLs)
		}
	}
}

func TestPlanDispatch_InvalidSender(t *testing.T) {
	_, err := PlanDispatch("not-a-number", nil, []string{"+15551234567"}, nil, "hi")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Kind != KindInvalidAddress {
		t.Errorf("expected kind %q, got %q", KindInvalidAddress, valErr.Kind)
	}
}

func TestPlanDispatch_SenderPool(t *testing.T) {
	pool := []string{"+15550001111", "+15550002222"}

	if _, err := PlanDispatch("+15550001111", pool, []string{"+15551234567"}, nil, "hi"); err != nil {
		t.Errorf("pool member rejected: %v", err)
	}

	_, err := PlanDispatch("+15550009999", pool, []string{"+15551234567"}, nil, "hi")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Kind != KindSenderNotAllowed {
		t.Errorf("expected kind %q, got %q", KindSenderNotAllowed, valErr.Kind)
	}
	if valErr.Value != "+15550009999" {
		t.Errorf("expected offending sender in error, got %q", valErr.Value)
	}
}

func TestPlanDispatch_EmptyPoolAcceptsAnyValidSender(t *testing.T) {
	requests, err := PlanDispatch("+15550009999", nil, []string{"+15551234567"}, nil, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("expected 1 request, got %d", len(requests))
	}
}
