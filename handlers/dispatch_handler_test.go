package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/internal/dispatch"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/internal/service"
	"github.com/hagateway/twilio-dispatch/pkg/response"
	"github.com/hagateway/twilio-dispatch/pkg/validator"
)

// fakeRepo satisfies the service's repository dependency in memory.
type fakeRepo struct {
	created []*domain.Dispatch
}

func (f *fakeRepo) Create(ctx context.Context, d *domain.Dispatch) error {
	f.created = append(f.created, d)
	return nil
}

func (f *fakeRepo) GetPending(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	return nil, nil
}

func (f *fakeRepo) MarkCompleted(ctx context.Context, id string, status domain.DispatchStatus, outcomes []domain.DispatchOutcome) error {
	return nil
}

func (f *fakeRepo) MarkFailed(ctx context.Context, id string, detail string) error { return nil }

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Dispatch, error) {
	for _, d := range f.created {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, status *domain.DispatchStatus, page, pageSize int) ([]domain.Dispatch, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) GetStats(ctx context.Context) (pending, sent, partial, failed int64, err error) {
	return 1, 2, 0, 1, nil
}

func (f *fakeRepo) ReplayFailedByID(ctx context.Context, id string) error { return nil }

func (f *fakeRepo) ReplayAllFailed(ctx context.Context) (int64, error) { return 3, nil }

// fakeSender is the provider double behind the real dispatch engine.
type fakeSender struct {
	failFor map[string]error
}

func (f *fakeSender) SendMessage(ctx context.Context, req domain.SendRequest) (*domain.ProviderReceipt, error) {
	if err, ok := f.failFor[req.To]; ok {
		return nil, err
	}
	return &domain.ProviderReceipt{SID: "SM123", Status: "queued"}, nil
}

type fakeNumbers struct{}

func (fakeNumbers) ListIncomingPhoneNumbers(ctx context.Context) ([]domain.IncomingPhoneNumber, error) {
	return nil, nil
}

func newTestHandler(repo *fakeRepo, sender dispatch.Sender, externalBaseURL string) *DispatchHandler {
	engine := dispatch.NewDispatcher(sender, dispatch.Options{
		ExternalBaseURL: externalBaseURL,
		MaxConcurrency:  2,
	})

	svc := service.NewDispatchService(repo, engine, fakeNumbers{}, environments.MessageConfig{
		BatchSize:     10,
		MaxBodyLength: 1600,
	})

	return NewDispatchHandler(svc)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestSendMessage_Success(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(repo, &fakeSender{}, "https://gateway.example.com")

	body := `{"target": ["+15551234567", "+15559876543"], "message": "door opened", "from_number": "+15550001111"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", body)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp response.SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected Success=true")
	}

	if len(repo.created) != 1 {
		t.Errorf("expected dispatch persisted, got %d", len(repo.created))
	}
}

func TestSendMessage_SingleStringTarget(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(repo, &fakeSender{}, "")

	body := `{"target": "+15551234567", "message": "hi", "from_number": "+15550001111"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", body)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSendMessage_InvalidJSONReturns400(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeSender{}, "")

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", `{not json`)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSendMessage_MissingFieldsReturns422(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeSender{}, "")

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", `{"message": "hi"}`)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSendMessage_InvalidAddressReturns400WithKind(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeSender{}, "")

	body := `{"target": "garbage", "message": "hi", "from_number": "+15550001111"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", body)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp response.DispatchErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Kind != "invalid_address" {
		t.Errorf("expected kind invalid_address, got %q", resp.Kind)
	}
	if resp.Value != "garbage" {
		t.Errorf("expected offending value in response, got %q", resp.Value)
	}
}

func TestSendMessage_LocalMediaWithoutBaseURLReturns503(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeSender{}, "")

	body := `{"target": "+15551234567", "message": "hi", "from_number": "+15550001111", "media_url": "/local/snapshot.jpg"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", body)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp response.DispatchErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Kind != "missing_external_url" {
		t.Errorf("expected kind missing_external_url, got %q", resp.Kind)
	}
}

func TestSendMessage_ProviderFailureReturns502(t *testing.T) {
	sender := &fakeSender{
		failFor: map[string]error{
			"+15559876543": &domain.ProviderError{Code: 21211, Message: "invalid 'To' number", Status: 400},
		},
	}
	h := newTestHandler(&fakeRepo{}, sender, "")

	body := `{"target": ["+15551234567", "+15559876543"], "message": "hi", "from_number": "+15550001111"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages/send", body)

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp response.SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Success {
		t.Errorf("expected Success=false for partial failure")
	}
	if resp.Data == nil {
		t.Errorf("expected per-recipient breakdown in response data")
	}
}

func TestCreateDispatch_Returns201(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(repo, &fakeSender{}, "")

	body := `{"target": "+15551234567", "message": "water leak detected", "from_number": "+15550001111"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/messages", body)

	if err := h.CreateDispatch(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected dispatch persisted, got %d", len(repo.created))
	}
	if repo.created[0].Status != domain.StatusPending {
		t.Errorf("expected queued dispatch pending, got %s", repo.created[0].Status)
	}
}

func TestGetDispatch_NotFoundReturns404(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeSender{}, "")

	c, rec := newJSONContext(t, http.MethodGet, "/api/v1/messages/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.GetDispatch(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
