package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

// Small internal interfaces so we can test without touching real DB/Redis/AMQP/provider.
type dispatchRepository interface {
	Create(ctx context.Context, d *domain.Dispatch) error
	GetPending(ctx context.Context, limit int) ([]domain.Dispatch, error)
	MarkCompleted(ctx context.Context, id string, status domain.DispatchStatus, outcomes []domain.DispatchOutcome) error
	MarkFailed(ctx context.Context, id string, detail string) error

	GetByID(ctx context.Context, id string) (*domain.Dispatch, error)
	List(ctx context.Context, status *domain.DispatchStatus, page, pageSize int) ([]domain.Dispatch, int64, error)
	GetStats(ctx context.Context) (pending, sent, partial, failed int64, err error)

	ReplayFailedByID(ctx context.Context, id string) error
	ReplayAllFailed(ctx context.Context) (int64, error)
}

type dispatchEngine interface {
	Plan(from string, targets, mediaRefs []string, body string) ([]domain.SendRequest, error)
	Dispatch(ctx context.Context, from string, targets, mediaRefs []string, body string) (*domain.AggregateResult, error)
}

type redisClient interface {
	CacheDispatchSummary(ctx context.Context, dispatchID string, summary *domain.DispatchSummaryCache) error
	GetAllCachedSummaries(ctx context.Context) (map[string]*domain.DispatchSummaryCache, error)
}

type eventPublisher interface {
	PublishDispatchCompleted(ctx context.Context, d *domain.Dispatch, result *domain.AggregateResult) error
}

type numberLister interface {
	ListIncomingPhoneNumbers(ctx context.Context) ([]domain.IncomingPhoneNumber, error)
}

type DispatchService struct {
	repo        dispatchRepository
	engine      dispatchEngine
	redisClient redisClient
	events      eventPublisher
	numbers     numberLister
	config      environments.MessageConfig
}

func NewDispatchService(
	repo dispatchRepository,
	engine dispatchEngine,
	numbers numberLister,
	config environments.MessageConfig,
) *DispatchService {
	return &DispatchService{
		repo:    repo,
		engine:  engine,
		numbers: numbers,
		config:  config,
	}
}

// WithCache enables the optional dispatch-summary cache. Passing the client
// through a setter instead of the constructor keeps the interface field
// truly nil when Redis is unavailable.
func (s *DispatchService) WithCache(c redisClient) *DispatchService {
	s.redisClient = c
	return s
}

// WithEvents enables the optional completion-event publisher.
func (s *DispatchService) WithEvents(p eventPublisher) *DispatchService {
	s.events = p
	return s
}

// SendNow runs the dispatch pipeline inline and records the result. The
// returned error is always pre-flight; provider failures are reported
// through the dispatch's outcomes and status, never as an error.
func (s *DispatchService) SendNow(
	ctx context.Context,
	from string,
	targets, mediaRefs domain.StringList,
	body string,
) (*domain.Dispatch, error) {
	if len(body) > s.config.MaxBodyLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", s.config.MaxBodyLength)
	}

	dispatch := &domain.Dispatch{
		ID:         uuid.NewString(),
		FromNumber: from,
		Body:       body,
		Targets:    targets,
		MediaURLs:  mediaRefs,
	}

	result, err := s.engine.Dispatch(ctx, from, targets, mediaRefs, body)
	if err != nil {
		// Pre-flight failure: nothing was sent. Record it for the audit
		// trail and hand the typed error back to the caller.
		s.recordPreflightFailure(ctx, dispatch, err)
		return nil, err
	}

	s.completeDispatch(ctx, dispatch, result)

	if err := s.repo.Create(ctx, dispatch); err != nil {
		logger.Errorf("Failed to record dispatch %s: %v", dispatch.ID, err)
	}

	s.cacheAndPublish(ctx, dispatch, result)

	logger.Infof("Dispatch %s completed: %d sent, %d failed", dispatch.ID, result.Sent, result.Failed)

	return dispatch, nil
}

// Enqueue validates a dispatch and stores it for the scheduler to drain.
// Validation runs at intake so a malformed payload is rejected immediately
// instead of failing silently in a later run.
func (s *DispatchService) Enqueue(
	ctx context.Context,
	from string,
	targets, mediaRefs domain.StringList,
	body string,
) (*domain.Dispatch, error) {
	if len(body) > s.config.MaxBodyLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", s.config.MaxBodyLength)
	}

	if _, err := s.engine.Plan(from, targets, mediaRefs, body); err != nil {
		return nil, err
	}

	dispatch := &domain.Dispatch{
		ID:         uuid.NewString(),
		FromNumber: from,
		Body:       body,
		Targets:    targets,
		MediaURLs:  mediaRefs,
		Status:     domain.StatusPending,
	}

	if err := s.repo.Create(ctx, dispatch); err != nil {
		return nil, fmt.Errorf("failed to enqueue dispatch: %w", err)
	}

	logger.Infof("Enqueued dispatch %s (%d targets)", dispatch.ID, len(targets))

	return dispatch, nil
}

// ProcessPendingDispatches drains one batch of queued dispatches through
// the pipeline. Dispatches are independent: one failing never stops the rest
// of the batch.
func (s *DispatchService) ProcessPendingDispatches(ctx context.Context) ([]domain.ProcessResult, error) {
	pending, err := s.repo.GetPending(ctx, s.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending dispatches: %w", err)
	}

	if len(pending) == 0 {
		logger.Debugf("No pending dispatches to process")
		return nil, nil
	}

	logger.Infof("Processing %d pending dispatches", len(pending))

	results := make([]domain.ProcessResult, 0, len(pending))

	for i := range pending {
		results = append(results, s.processOne(ctx, &pending[i]))
	}

	return results, nil
}

func (s *DispatchService) processOne(ctx context.Context, dispatch *domain.Dispatch) domain.ProcessResult {
	result, err := s.engine.Dispatch(ctx, dispatch.FromNumber, dispatch.Targets, dispatch.MediaURLs, dispatch.Body)
	if err != nil {
		logger.Errorf("Dispatch %s failed pre-flight: %v", dispatch.ID, err)

		if markErr := s.repo.MarkFailed(ctx, dispatch.ID, err.Error()); markErr != nil {
			logger.Errorf("Failed to mark dispatch %s as failed: %v", dispatch.ID, markErr)
		}

		return domain.ProcessResult{
			DispatchID: dispatch.ID,
			Status:     domain.StatusFailed,
			Err:        err,
		}
	}

	s.completeDispatch(ctx, dispatch, result)

	if err := s.repo.MarkCompleted(ctx, dispatch.ID, dispatch.Status, result.Outcomes); err != nil {
		logger.Errorf("Failed to mark dispatch %s as completed: %v", dispatch.ID, err)
	}

	s.cacheAndPublish(ctx, dispatch, result)

	logger.Infof("Dispatch %s completed: %d sent, %d failed", dispatch.ID, result.Sent, result.Failed)

	return domain.ProcessResult{
		DispatchID: dispatch.ID,
		Status:     dispatch.Status,
		Sent:       result.Sent,
		Failed:     result.Failed,
	}
}

func (s *DispatchService) completeDispatch(ctx context.Context, dispatch *domain.Dispatch, result *domain.AggregateResult) {
	now := time.Now()
	dispatch.Status = result.Status()
	dispatch.Outcomes = result.Outcomes
	dispatch.CompletedAt = &now
	for i := range dispatch.Outcomes {
		dispatch.Outcomes[i].DispatchID = dispatch.ID
	}
}

func (s *DispatchService) recordPreflightFailure(ctx context.Context, dispatch *domain.Dispatch, cause error) {
	now := time.Now()
	detail := cause.Error()
	dispatch.Status = domain.StatusFailed
	dispatch.ErrorDetail = &detail
	dispatch.CompletedAt = &now

	if err := s.repo.Create(ctx, dispatch); err != nil {
		logger.Errorf("Failed to record failed dispatch %s: %v", dispatch.ID, err)
	}
}

func (s *DispatchService) cacheAndPublish(ctx context.Context, dispatch *domain.Dispatch, result *domain.AggregateResult) {
	if s.redisClient != nil {
		summary := &domain.DispatchSummaryCache{
			Status:      dispatch.Status,
			Sent:        result.Sent,
			Failed:      result.Failed,
			CompletedAt: *dispatch.CompletedAt,
		}
		if err := s.redisClient.CacheDispatchSummary(ctx, dispatch.ID, summary); err != nil {
			logger.Warnf("Failed to cache dispatch %s summary: %v", dispatch.ID, err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishDispatchCompleted(ctx, dispatch, result); err != nil {
			logger.Warnf("Failed to publish completion event for dispatch %s: %v", dispatch.ID, err)
		}
	}
}

func (s *DispatchService) GetDispatch(ctx context.Context, id string) (*domain.Dispatch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DispatchService) GetAllDispatches(
	ctx context.Context,
	status *domain.DispatchStatus,
	page,
	pageSize int,
) ([]domain.Dispatch, int64, error) {
	return s.repo.List(ctx, status, page, pageSize)
}

func (s *DispatchService) GetStats(ctx context.Context) (pending, sent, partial, failed int64, err error) {
	return s.repo.GetStats(ctx)
}

func (s *DispatchService) GetCachedSummaries(ctx context.Context) (map[string]*domain.DispatchSummaryCache, error) {
	if s.redisClient == nil {
		return nil, fmt.Errorf("redis client not configured")
	}
	return s.redisClient.GetAllCachedSummaries(ctx)
}

func (s *DispatchService) ReplayFailedDispatch(ctx context.Context, id string) error {
	return s.repo.ReplayFailedByID(ctx, id)
}

func (s *DispatchService) ReplayAllFailedDispatches(ctx context.Context) (int64, error) {
	return s.repo.ReplayAllFailed(ctx)
}

func (s *DispatchService) ListProviderNumbers(ctx context.Context) ([]domain.IncomingPhoneNumber, error) {
	return s.numbers.ListIncomingPhoneNumbers(ctx)
}
