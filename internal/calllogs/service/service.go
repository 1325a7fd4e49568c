// Package service implements call logging. Every write follows the same two
// steps: persist the call, then derive a client patch from its outcome and
// apply it. The steps are independent writes; when the second fails the call
// stays stored and a reconcile task is queued if a scheduler is configured.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/calllogs/transport"
	"sales_crm_backend/internal/events"
	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

// AgentListLimit caps the agent's call list.
const AgentListLimit = 50

const (
	defaultStatus     = "open"
	msgClientMismatch = "call log cannot be moved to a different client"
	msgInvalidClient  = "invalid client id"
	msgPatchFailed    = "call log saved but client update failed"
)

// Service provides business logic for call logs.
type Service struct {
	repo       repository.Repository
	clients    ClientStageStore
	bus        events.Bus
	log        *logger.Logger
	reconciler StageReconcileScheduler
	now        func() time.Time
}

// New creates a new call logs service.
func New(repo repository.Repository, clients ClientStageStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		bus:     bus,
		log:     log,
		now:     time.Now,
	}
}

// SetReconcileScheduler enables queued retries of failed client patches.
func (s *Service) SetReconcileScheduler(r StageReconcileScheduler) {
	s.reconciler = r
}

// SetClock replaces the processing clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ListForAgent returns the agent's most recent calls.
func (s *Service) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]transport.CallLogResponse, error) {
	items, err := s.repo.ListForAgent(ctx, agentID, AgentListLimit)
	if err != nil {
		return nil, storeError("failed to list call logs", err)
	}
	return toResponses(items), nil
}

// ListForClient returns every call the agent logged against a client.
// A client owned by someone else simply yields no calls.
func (s *Service) ListForClient(ctx context.Context, clientID, agentID uuid.UUID) ([]transport.CallLogResponse, error) {
	items, err := s.repo.ListForClient(ctx, clientID, agentID, 0)
	if err != nil {
		return nil, storeError("failed to list call logs", err)
	}
	return toResponses(items), nil
}

// GetOne returns a call log owned by the agent.
func (s *Service) GetOne(ctx context.Context, id, agentID uuid.UUID) (transport.CallLogResponse, error) {
	item, err := s.repo.GetByID(ctx, id, agentID)
	if err != nil {
		return transport.CallLogResponse{}, storeError("failed to load call log", err)
	}
	return toResponse(item), nil
}

// Create stores a call and applies its outcome to the client.
func (s *Service) Create(ctx context.Context, agentID uuid.UUID, req transport.CreateCallLogRequest) (transport.CallLogResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return transport.CallLogResponse{}, apperr.Validation(msgInvalidClient)
	}

	if _, err := s.clients.GetStage(ctx, clientID, agentID); err != nil {
		return transport.CallLogResponse{}, storeError("failed to load client", err)
	}

	now := s.now()
	params := repository.CreateParams{
		AgentID:          agentID,
		ClientID:         clientID,
		CallType:         req.CallType,
		Subject:          req.Subject,
		Outcome:          req.Outcome,
		Duration:         req.Duration,
		Status:           req.Status,
		Notes:            req.Notes,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
		FollowUpNotes:    req.FollowUpNotes,
		CallDate:         now,
		ClosedDate:       req.ClosedDate,
	}
	if params.Status == "" {
		params.Status = defaultStatus
	}
	if req.CallDate != nil {
		params.CallDate = *req.CallDate
	}
	if req.DealInfo != nil {
		params.DealValue = req.DealInfo.DealValue
		params.ContractTerm = req.DealInfo.ContractTerm
		params.DealStartDate = req.DealInfo.StartDate
		params.DealRenewalDate = req.DealInfo.RenewalDate
	}

	cl, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.CallLogResponse{}, apperr.Dependency("failed to save call log", err)
	}

	event := pipeline.CallOutcomeEvent{
		Outcome:   pipeline.Outcome(cl.Outcome),
		DealValue: cl.DealValue,
		At:        now,
	}
	if err := s.applyOutcome(ctx, cl.ID, clientID, agentID, event); err != nil {
		return transport.CallLogResponse{}, err
	}

	s.log.WithContext(ctx).Info("call logged", "id", cl.ID, "clientId", clientID, "outcome", cl.Outcome)
	s.bus.Publish(ctx, events.CallLogged{
		BaseEvent:        events.NewBaseEvent(),
		CallLogID:        cl.ID,
		AgentID:          agentID,
		ClientID:         clientID,
		Outcome:          cl.Outcome,
		FollowUpRequired: cl.FollowUpRequired,
		FollowUpDate:     cl.FollowUpDate,
	})

	detail, err := s.repo.GetByID(ctx, cl.ID, agentID)
	if err != nil {
		s.log.WithContext(ctx).Warn("created call log re-read failed", "id", cl.ID, "error", err)
		detail = repository.CallLogDetail{CallLog: cl}
	}
	return toResponse(detail), nil
}

// Update applies a partial update and re-derives the client patch from the
// submitted outcome. The patch always targets the client the call was stored
// against before the write.
func (s *Service) Update(ctx context.Context, id, agentID uuid.UUID, req transport.UpdateCallLogRequest) (transport.CallLogResponse, error) {
	existing, err := s.repo.GetByID(ctx, id, agentID)
	if err != nil {
		return transport.CallLogResponse{}, storeError("failed to load call log", err)
	}
	storedClientID := existing.ClientID

	if req.ClientID != nil {
		requested, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return transport.CallLogResponse{}, apperr.Validation(msgInvalidClient)
		}
		if requested != storedClientID {
			return transport.CallLogResponse{}, apperr.Validation(msgClientMismatch)
		}
	}

	params := repository.UpdateParams{
		ID:               id,
		AgentID:          agentID,
		CallType:         req.CallType,
		Subject:          req.Subject,
		Outcome:          req.Outcome,
		Duration:         req.Duration,
		Status:           req.Status,
		Notes:            req.Notes,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
		FollowUpNotes:    req.FollowUpNotes,
		CallDate:         req.CallDate,
		ClosedDate:       req.ClosedDate,
	}
	var payloadDeal *float64
	if req.DealInfo != nil {
		params.DealValue = req.DealInfo.DealValue
		params.ContractTerm = req.DealInfo.ContractTerm
		params.DealStartDate = req.DealInfo.StartDate
		params.DealRenewalDate = req.DealInfo.RenewalDate
		payloadDeal = req.DealInfo.DealValue
	}

	cl, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.CallLogResponse{}, storeError("failed to update call log", err)
	}

	var outcome pipeline.Outcome
	if req.Outcome != nil {
		outcome = pipeline.Outcome(*req.Outcome)
	}
	event := pipeline.CallOutcomeEvent{Outcome: outcome, DealValue: payloadDeal, At: s.now()}
	if err := s.applyOutcome(ctx, cl.ID, storedClientID, agentID, event); err != nil {
		return transport.CallLogResponse{}, err
	}

	s.log.WithContext(ctx).Info("call log updated", "id", cl.ID)
	if req.FollowUpRequired != nil || req.FollowUpDate != nil {
		s.bus.Publish(ctx, events.CallLogged{
			BaseEvent:        events.NewBaseEvent(),
			CallLogID:        cl.ID,
			AgentID:          agentID,
			ClientID:         storedClientID,
			Outcome:          cl.Outcome,
			FollowUpRequired: cl.FollowUpRequired,
			FollowUpDate:     cl.FollowUpDate,
		})
	}
	return toResponse(repository.CallLogDetail{CallLog: cl, Client: existing.Client, Agent: existing.Agent}), nil
}

// Delete removes a call log. The client's stage is left as it is.
func (s *Service) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, agentID); err != nil {
		return storeError("failed to delete call log", err)
	}
	s.log.WithContext(ctx).Info("call log deleted", "id", id)
	return nil
}

// ReconcileStage re-applies a stored call's outcome to its client. Calls or
// clients that no longer exist are skipped.
func (s *Service) ReconcileStage(ctx context.Context, callLogID uuid.UUID) error {
	cl, err := s.repo.GetByIDUnscoped(ctx, callLogID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.Warn("reconcile skipped, call log gone", "id", callLogID)
			return nil
		}
		return err
	}

	event := pipeline.CallOutcomeEvent{
		Outcome:   pipeline.Outcome(cl.Outcome),
		DealValue: cl.DealValue,
		At:        cl.CallDate,
	}
	err = s.patchClient(ctx, cl.ID, cl.ClientID, cl.AgentID, event)
	if apperr.Is(err, apperr.KindNotFound) {
		s.log.Warn("reconcile skipped, client gone", "id", callLogID, "clientId", cl.ClientID)
		return nil
	}
	return err
}

// GetForReminder loads a call for the follow-up reminder job.
func (s *Service) GetForReminder(ctx context.Context, callLogID uuid.UUID) (repository.CallLogDetail, error) {
	return s.repo.GetByIDUnscoped(ctx, callLogID)
}

// storeError keeps typed domain errors and wraps everything else as a
// dependency failure.
func storeError(message string, err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Dependency(message, err)
}

// applyOutcome runs the second step of a call write and converts a failure
// into a dependency error after queueing a reconcile.
func (s *Service) applyOutcome(ctx context.Context, callLogID, clientID, agentID uuid.UUID, event pipeline.CallOutcomeEvent) error {
	err := s.patchClient(ctx, callLogID, clientID, agentID, event)
	if err == nil {
		return nil
	}

	s.log.WithContext(ctx).Error("client patch failed after call log write",
		"callLogId", callLogID,
		"clientId", clientID,
		"error", err,
	)
	if s.reconciler != nil {
		if schedErr := s.reconciler.ScheduleStageReconcile(ctx, callLogID); schedErr != nil {
			s.log.Error("failed to queue stage reconcile", "callLogId", callLogID, "error", schedErr)
		}
	}
	return apperr.Dependency(msgPatchFailed, err)
}

func (s *Service) patchClient(ctx context.Context, callLogID, clientID, agentID uuid.UUID, event pipeline.CallOutcomeEvent) error {
	current, err := s.clients.GetStage(ctx, clientID, agentID)
	if err != nil {
		return err
	}

	patch := pipeline.DeriveClientUpdate(event, current)
	if err := s.clients.ApplyStagePatch(ctx, clientID, agentID, patch); err != nil {
		return err
	}

	if patch.ChangesStage(current) {
		s.bus.Publish(ctx, events.ClientStageChanged{
			BaseEvent: events.NewBaseEvent(),
			ClientID:  clientID,
			AgentID:   agentID,
			CallLogID: callLogID,
			From:      string(current),
			To:        string(*patch.Stage),
			Outcome:   string(event.Outcome),
		})
	}
	return nil
}
