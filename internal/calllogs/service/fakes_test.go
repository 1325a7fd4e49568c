package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
)

type memoryRepo struct {
	mu    sync.Mutex
	calls map[uuid.UUID]repository.CallLog
	seq   int
	// summaries are joined onto GetByID results by client id.
	summaries map[uuid.UUID]repository.ClientSummary
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		calls:     make(map[uuid.UUID]repository.CallLog),
		summaries: make(map[uuid.UUID]repository.ClientSummary),
	}
}

func (r *memoryRepo) ListForAgent(_ context.Context, agentID uuid.UUID, limit int) ([]repository.CallLogDetail, error) {
	return r.filter(func(cl repository.CallLog) bool { return cl.AgentID == agentID }, limit), nil
}

func (r *memoryRepo) ListForClient(_ context.Context, clientID, agentID uuid.UUID, limit int) ([]repository.CallLogDetail, error) {
	return r.filter(func(cl repository.CallLog) bool {
		return cl.ClientID == clientID && cl.AgentID == agentID
	}, limit), nil
}

func (r *memoryRepo) filter(keep func(repository.CallLog) bool, limit int) []repository.CallLogDetail {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]repository.CallLogDetail, 0)
	for _, cl := range r.calls {
		if keep(cl) {
			out = append(out, repository.CallLogDetail{CallLog: cl})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallDate.After(out[j].CallDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memoryRepo) GetByID(_ context.Context, id, agentID uuid.UUID) (repository.CallLogDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.calls[id]
	if !ok || cl.AgentID != agentID {
		return repository.CallLogDetail{}, apperr.NotFound("Call log not found")
	}
	detail := repository.CallLogDetail{CallLog: cl}
	if summary, ok := r.summaries[cl.ClientID]; ok {
		detail.Client = &summary
	}
	return detail, nil
}

func (r *memoryRepo) GetByIDUnscoped(_ context.Context, id uuid.UUID) (repository.CallLogDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.calls[id]
	if !ok {
		return repository.CallLogDetail{}, apperr.NotFound("Call log not found")
	}
	return repository.CallLogDetail{CallLog: cl}, nil
}

func (r *memoryRepo) Create(_ context.Context, p repository.CreateParams) (repository.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stamp := time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	cl := repository.CallLog{
		ID:               uuid.New(),
		AgentID:          p.AgentID,
		ClientID:         p.ClientID,
		CallType:         p.CallType,
		Subject:          p.Subject,
		Outcome:          p.Outcome,
		Duration:         p.Duration,
		Status:           p.Status,
		Notes:            p.Notes,
		DealValue:        p.DealValue,
		ContractTerm:     p.ContractTerm,
		DealStartDate:    p.DealStartDate,
		DealRenewalDate:  p.DealRenewalDate,
		FollowUpRequired: p.FollowUpRequired,
		FollowUpDate:     p.FollowUpDate,
		FollowUpNotes:    p.FollowUpNotes,
		CallDate:         p.CallDate,
		ClosedDate:       p.ClosedDate,
		CreatedAt:        stamp,
		UpdatedAt:        stamp,
	}
	r.calls[cl.ID] = cl
	return cl, nil
}

func (r *memoryRepo) Update(_ context.Context, p repository.UpdateParams) (repository.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.calls[p.ID]
	if !ok || cl.AgentID != p.AgentID {
		return repository.CallLog{}, apperr.NotFound("Call log not found")
	}
	setString(&cl.CallType, p.CallType)
	setString(&cl.Subject, p.Subject)
	setString(&cl.Outcome, p.Outcome)
	setString(&cl.Status, p.Status)
	setString(&cl.Notes, p.Notes)
	setString(&cl.FollowUpNotes, p.FollowUpNotes)
	if p.Duration != nil {
		cl.Duration = *p.Duration
	}
	if p.DealValue != nil {
		cl.DealValue = p.DealValue
	}
	if p.ContractTerm != nil {
		cl.ContractTerm = p.ContractTerm
	}
	if p.FollowUpRequired != nil {
		cl.FollowUpRequired = *p.FollowUpRequired
	}
	if p.FollowUpDate != nil {
		cl.FollowUpDate = p.FollowUpDate
	}
	if p.CallDate != nil {
		cl.CallDate = *p.CallDate
	}
	if p.ClosedDate != nil {
		cl.ClosedDate = p.ClosedDate
	}
	r.calls[cl.ID] = cl
	return cl, nil
}

func (r *memoryRepo) Delete(_ context.Context, id, agentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.calls[id]
	if !ok || cl.AgentID != agentID {
		return apperr.NotFound("Call log not found")
	}
	delete(r.calls, id)
	return nil
}

func (r *memoryRepo) DeleteByClient(_ context.Context, clientID, agentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, cl := range r.calls {
		if cl.ClientID == clientID && cl.AgentID == agentID {
			delete(r.calls, id)
			n++
		}
	}
	return n, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

type clientState struct {
	agentID         uuid.UUID
	stage           pipeline.Stage
	dealValue       float64
	closedDate      *time.Time
	lastContactDate *time.Time
}

type memoryClients struct {
	mu       sync.Mutex
	clients  map[uuid.UUID]*clientState
	applyErr error
	// beforeApply runs once, outside the lock, right before a patch is written.
	beforeApply func()
}

func newMemoryClients() *memoryClients {
	return &memoryClients{clients: make(map[uuid.UUID]*clientState)}
}

func (m *memoryClients) add(agentID uuid.UUID, stage pipeline.Stage) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.clients[id] = &clientState{agentID: agentID, stage: stage}
	return id
}

func (m *memoryClients) get(id uuid.UUID) clientState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.clients[id]
}

func (m *memoryClients) GetStage(_ context.Context, id, agentID uuid.UUID) (pipeline.Stage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok || c.agentID != agentID {
		return "", apperr.NotFound("Client not found")
	}
	return c.stage, nil
}

func (m *memoryClients) ApplyStagePatch(_ context.Context, id, agentID uuid.UUID, patch pipeline.ClientPatch) error {
	m.mu.Lock()
	hook := m.beforeApply
	m.beforeApply = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.applyErr != nil {
		return m.applyErr
	}
	c, ok := m.clients[id]
	if !ok || c.agentID != agentID {
		return apperr.NotFound("Client not found")
	}
	contact := patch.LastContactDate
	c.lastContactDate = &contact
	if patch.Stage != nil {
		c.stage = *patch.Stage
	}
	if patch.ClosedDate != nil {
		c.closedDate = patch.ClosedDate
	}
	if patch.DealValue != nil {
		c.dealValue = *patch.DealValue
	}
	return nil
}

type recordingReconciler struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingReconciler) ScheduleStageReconcile(_ context.Context, callLogID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, callLogID)
	return nil
}

var errStoreDown = errors.New("connection refused")
