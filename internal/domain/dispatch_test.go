package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList_AcceptsStringOrArray(t *testing.T) {
	var payload struct {
		Target StringList `json:"target"`
	}

	if err := json.Unmarshal([]byte(`{"target": "+15551234567"}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(payload.Target, StringList{"+15551234567"}) {
		t.Errorf("single string: got %v", payload.Target)
	}

	if err := json.Unmarshal([]byte(`{"target": ["+15551234567", "+15559876543"]}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(payload.Target, StringList{"+15551234567", "+15559876543"}) {
		t.Errorf("array: got %v", payload.Target)
	}

	if err := json.Unmarshal([]byte(`{"target": 42}`), &payload); err == nil {
		t.Errorf("expected error for non-string payload")
	}
}

func TestAggregateResult_Status(t *testing.T) {
	tests := []struct {
		name   string
		sent   int
		failed int
		want   DispatchStatus
	}{
		{"all sent", 3, 0, StatusSent},
		{"all failed", 0, 3, StatusFailed},
		{"mixed", 2, 1, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AggregateResult{Sent: tt.sent, Failed: tt.failed}
			if got := r.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}
