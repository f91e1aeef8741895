package dispatch

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeRecipients_ValidNumbers(t *testing.T) {
	got, err := NormalizeRecipients([]string{"+15551234567", "+447911123456"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"+15551234567", "+447911123456"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeRecipients_DeduplicatesPreservingOrder(t *testing.T) {
	got, err := NormalizeRecipients([]string{"+15551234567", "+15559876543", "+15551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"+15551234567", "+15559876543"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected duplicates removed with first-seen order %v, got %v", want, got)
	}
}

func TestNormalizeRecipients_EmptyList(t *testing.T) {
	_, err := NormalizeRecipients(nil)

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Kind != KindEmptyTarget {
		t.Errorf("expected kind %q, got %q", KindEmptyTarget, valErr.Kind)
	}
}

func TestNormalizeRecipients_InvalidAddressFailsWhole(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		bad     string
	}{
		{"missing plus", []string{"15551234567"}, "15551234567"},
		{"leading zero", []string{"+05551234567"}, "+05551234567"},
		{"letters", []string{"+1555abc4567"}, "+1555abc4567"},
		{"too long", []string{"+1234567890123456"}, "+1234567890123456"},
		{"empty string", []string{""}, ""},
		{"valid then invalid", []string{"+15551234567", "not-a-number"}, "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRecipients(tt.targets)
			if got != nil {
				t.Errorf("expected no recipients on failure, got %v", got)
			}

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Kind != KindInvalidAddress {
				t.Errorf("expected kind %q, got %q", KindInvalidAddress, valErr.Kind)
			}
			if valErr.Value != tt.bad {
				t.Errorf("expected offending value %q, got %q", tt.bad, valErr.Value)
			}
		})
	}
}

func TestNormalizeRecipients_MaxLengthNumber(t *testing.T) {
	// 15 digits is the E.164 ceiling
	got, err := NormalizeRecipients([]string{"+123456789012345"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 recipient, got %d", len(got))
	}
}
