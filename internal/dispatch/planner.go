package dispatch

import (
	"slices"

	"github.com/hagateway/twilio-dispatch/internal/domain"
)

// PlanDispatch validates the sender and expands the logical message into one
// SendRequest per recipient, in recipient order. Every request carries the
// full resolved media list and the same body and sender.
func PlanDispatch(
	from string,
	senderPool []string,
	recipients []string,
	mediaURLs []string,
	body string,
) ([]domain.SendRequest, error) {
	if !addressPattern.MatchString(from) {
		return nil, &ValidationError{Kind: KindInvalidAddress, Value: from}
	}

	// An empty pool means any syntactically valid sender is accepted.
	if len(senderPool) > 0 && !slices.Contains(senderPool, from) {
		return nil, &ValidationError{Kind: KindSenderNotAllowed, Value: from}
	}

	requests := make([]domain.SendRequest, 0, len(recipients))
	for _, to := range recipients {
		requests = append(requests, domain.SendRequest{
			From:      from,
			To:        to,
			Body:      body,
			MediaURLs: mediaURLs,
		})
	}

	return requests, nil
}
