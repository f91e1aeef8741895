package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type DispatchStatus string

const (
	StatusPending DispatchStatus = "pending"
	StatusSent    DispatchStatus = "sent"
	StatusPartial DispatchStatus = "partial"
	StatusFailed  DispatchStatus = "failed"
)

// StringList accepts either a single JSON string or an array of strings,
// matching the service payload shape (target and media_url fields).
// It is stored as a JSON column in MySQL.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}

	*s = StringList(many)
	return nil
}

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

func (s *StringList) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal string list: %w", err)
	}

	*s = StringList(out)
	return nil
}

// Dispatch is one logical send request: one body and sender fanned out to
// one or more recipients, each producing its own DispatchOutcome.
type Dispatch struct {
	ID          string         `db:"id" json:"id"`
	FromNumber  string         `db:"from_number" json:"fromNumber"`
	Body        string         `db:"body" json:"body"`
	Targets     StringList     `db:"targets" json:"targets"`
	MediaURLs   StringList     `db:"media_urls" json:"mediaUrls"`
	Status      DispatchStatus `db:"status" json:"status"`
	ErrorDetail *string        `db:"error_detail" json:"errorDetail,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time     `db:"completed_at" json:"completedAt,omitempty"`

	Outcomes []DispatchOutcome `db:"-" json:"outcomes,omitempty"`
}

// DispatchOutcome is the per-recipient result of one provider call.
type DispatchOutcome struct {
	ID           int64     `db:"id" json:"-"`
	DispatchID   string    `db:"dispatch_id" json:"-"`
	Position     int       `db:"position" json:"position"`
	Recipient    string    `db:"recipient" json:"recipient"`
	Success      bool      `db:"success" json:"success"`
	MessageSID   *string   `db:"message_sid" json:"messageSid,omitempty"`
	ErrorCode    *int      `db:"error_code" json:"errorCode,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"errorMessage,omitempty"`
	SentAt       time.Time `db:"sent_at" json:"sentAt"`
}

// AggregateResult collects the outcomes of one dispatch in recipient order.
type AggregateResult struct {
	Outcomes []DispatchOutcome `json:"outcomes"`
	Sent     int               `json:"sent"`
	Failed   int               `json:"failed"`
}

// Succeeded reports whether every recipient succeeded.
func (r *AggregateResult) Succeeded() bool {
	return r.Failed == 0 && len(r.Outcomes) > 0
}

// Status derives the dispatch status from the per-recipient outcomes.
func (r *AggregateResult) Status() DispatchStatus {
	switch {
	case r.Failed == 0:
		return StatusSent
	case r.Sent == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// SendRequest is the atomic unit handed to the provider client: one
// recipient, with the full shared media set of the logical message.
type SendRequest struct {
	From      string
	To        string
	Body      string
	MediaURLs []string
}

// ProviderReceipt is the provider's acknowledgement of an accepted message.
type ProviderReceipt struct {
	SID    string
	Status string
}

// ProviderError is a structured error returned by the provider for a single
// request. It is always scoped to one recipient and never aborts siblings.
type ProviderError struct {
	Code    int
	Message string
	Status  int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d (http %d): %s", e.Code, e.Status, e.Message)
}

// IncomingPhoneNumber is a provider-registered sender number.
type IncomingPhoneNumber struct {
	SID          string `json:"sid"`
	PhoneNumber  string `json:"phoneNumber"`
	FriendlyName string `json:"friendlyName"`
}

// DispatchSummaryCache is the compact per-dispatch summary kept in Redis.
type DispatchSummaryCache struct {
	Status      DispatchStatus `json:"status"`
	Sent        int            `json:"sent"`
	Failed      int            `json:"failed"`
	CompletedAt time.Time      `json:"completedAt"`
}

// ProcessResult summarizes one queued dispatch processed by the scheduler.
type ProcessResult struct {
	DispatchID string
	Status     DispatchStatus
	Sent       int
	Failed     int
	Err        error
}
