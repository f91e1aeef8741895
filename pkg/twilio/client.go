package twilio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

const apiVersion = "2010-04-01"

// Client talks to the Twilio REST API. Message creation is never retried at
// this layer: a retried POST could double-send. Idempotent GETs retry once
// on transient failures.
type Client struct {
	httpClient *resty.Client
	accountSID string
}

func NewClient(cfg environments.TwilioConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		httpClient: client,
		accountSID: cfg.AccountSID,
	}
}

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// SendMessage creates one outbound message. Provider rejections come back
// as *domain.ProviderError with Twilio's error code and message preserved.
func (c *Client) SendMessage(ctx context.Context, req domain.SendRequest) (*domain.ProviderReceipt, error) {
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Body", req.Body)
	for _, mediaURL := range req.MediaURLs {
		form.Add("MediaUrl", mediaURL)
	}

	var msg messageResponse
	var errBody apiError

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormDataFromValues(form).
		SetResult(&msg).
		SetError(&errBody).
		Post(fmt.Sprintf("/%s/Accounts/%s/Messages.json", apiVersion, c.accountSID))

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	logger.Debugf("Twilio message request completed in %v (status: %d)", time.Since(startTime), resp.StatusCode())

	if resp.IsError() {
		message := errBody.Message
		if message == "" {
			message = fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode(), resp.String())
		}

		return nil, &domain.ProviderError{
			Code:    errBody.Code,
			Message: message,
			Status:  resp.StatusCode(),
		}
	}

	return &domain.ProviderReceipt{
		SID:    msg.SID,
		Status: msg.Status,
	}, nil
}

type incomingNumbersPage struct {
	IncomingPhoneNumbers []struct {
		SID          string `json:"sid"`
		PhoneNumber  string `json:"phone_number"`
		FriendlyName string `json:"friendly_name"`
	} `json:"incoming_phone_numbers"`
	NextPageURI string `json:"next_page_uri"`
}

// ListIncomingPhoneNumbers returns every phone number registered on the
// account, following next_page_uri until the listing is exhausted.
func (c *Client) ListIncomingPhoneNumbers(ctx context.Context) ([]domain.IncomingPhoneNumber, error) {
	path := fmt.Sprintf("/%s/Accounts/%s/IncomingPhoneNumbers.json?PageSize=50", apiVersion, c.accountSID)

	var numbers []domain.IncomingPhoneNumber

	for path != "" {
		var page incomingNumbersPage
		var errBody apiError

		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetResult(&page).
			SetError(&errBody).
			Get(path)

		if err != nil {
			return nil, fmt.Errorf("failed to list incoming phone numbers: %w", err)
		}

		if resp.IsError() {
			message := errBody.Message
			if message == "" {
				message = fmt.Sprintf("unexpected status code %d", resp.StatusCode())
			}

			return nil, &domain.ProviderError{
				Code:    errBody.Code,
				Message: message,
				Status:  resp.StatusCode(),
			}
		}

		for _, n := range page.IncomingPhoneNumbers {
			numbers = append(numbers, domain.IncomingPhoneNumber{
				SID:          n.SID,
				PhoneNumber:  n.PhoneNumber,
				FriendlyName: n.FriendlyName,
			})
		}

		path = page.NextPageURI
	}

	return numbers, nil
}
