package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales_crm_backend/internal/email"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultConcurrency = 5

// ErrNotConfigured is returned when the worker has no Redis URL.
var ErrNotConfigured = errors.New("redis url not configured")

// AgentContact is the reminder recipient.
type AgentContact struct {
	Name     string
	Email    string
	IsActive bool
}

// AgentDirectory resolves an agent's contact details.
type AgentDirectory interface {
	GetAgentContact(ctx context.Context, agentID uuid.UUID) (AgentContact, error)
}

// StageReconciler re-applies a stored call's outcome to its client.
type StageReconciler interface {
	ReconcileStage(ctx context.Context, callLogID uuid.UUID) error
}

// ReminderCall is the slice of a call log a reminder needs.
type ReminderCall struct {
	ID               uuid.UUID
	AgentID          uuid.UUID
	ClientName       string
	Company          string
	Subject          string
	FollowUpRequired bool
	FollowUpDate     *time.Time
	FollowUpNotes    string
}

// CallFinder loads a call log regardless of owner. It returns a NotFound
// error when the call no longer exists.
type CallFinder interface {
	FindReminderCall(ctx context.Context, callLogID uuid.UUID) (ReminderCall, error)
}

// WorkerDeps are the domain services the task handlers call into.
type WorkerDeps struct {
	Reconciler StageReconciler
	Calls      CallFinder
	Agents     AgentDirectory
	Mailer     email.Sender
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tasks  *taskHandlers
	log    *logger.Logger
}

type taskHandlers struct {
	deps WorkerDeps
	log  *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deps WorkerDeps, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetSchedulerConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	tasks := &taskHandlers{deps: deps, log: log}
	mux.HandleFunc(TaskReconcileStage, tasks.handleReconcileStage)
	mux.HandleFunc(TaskFollowUpReminder, tasks.handleFollowUpReminder)

	return &Worker{
		server: server,
		mux:    mux,
		tasks:  tasks,
		log:    log,
	}, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (t *taskHandlers) handleReconcileStage(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReconcileStagePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	callLogID, err := uuid.Parse(payload.CallLogID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := t.deps.Reconciler.ReconcileStage(ctx, callLogID); err != nil {
		return err
	}
	t.log.Info("client stage reconciled", "callLogId", callLogID)
	return nil
}

func (t *taskHandlers) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	callLogID, err := uuid.Parse(payload.CallLogID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	call, err := t.deps.Calls.FindReminderCall(ctx, callLogID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if !reminderStillDue(call, payload) {
		t.log.Debug("follow-up reminder skipped", "callLogId", callLogID)
		return nil
	}

	agent, err := t.deps.Agents.GetAgentContact(ctx, call.AgentID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if !agent.IsActive || agent.Email == "" {
		return nil
	}

	if t.deps.Mailer == nil {
		return nil
	}

	err = t.deps.Mailer.SendFollowUpReminder(ctx, agent.Email, email.FollowUpReminder{
		AgentName:  agent.Name,
		ClientName: call.ClientName,
		Company:    call.Company,
		Subject:    call.Subject,
		DueDate:    *call.FollowUpDate,
		Notes:      call.FollowUpNotes,
	})
	if err != nil {
		return err
	}

	t.log.Info("follow-up reminder sent", "callLogId", callLogID, "agentId", call.AgentID)
	return nil
}

// reminderStillDue reports whether the call still wants the follow-up the
// task was scheduled for.
func reminderStillDue(call ReminderCall, payload FollowUpReminderPayload) bool {
	if !call.FollowUpRequired || call.FollowUpDate == nil {
		return false
	}
	if call.AgentID.String() != payload.AgentID {
		return false
	}
	return call.FollowUpDate.Unix() == payload.DueAt.Unix()
}
