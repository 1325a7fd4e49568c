package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/pipeline"
)

// ClientStageStore reads and patches the client a call was logged against.
// Both methods are scoped to the owning agent and return NotFound otherwise.
type ClientStageStore interface {
	GetStage(ctx context.Context, clientID, agentID uuid.UUID) (pipeline.Stage, error)
	ApplyStagePatch(ctx context.Context, clientID, agentID uuid.UUID, patch pipeline.ClientPatch) error
}

// StageReconcileScheduler queues a retry of the client patch for a stored call.
type StageReconcileScheduler interface {
	ScheduleStageReconcile(ctx context.Context, callLogID uuid.UUID) error
}

// FollowUpScheduler queues a reminder email for a call that needs follow-up.
type FollowUpScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, callLogID, agentID uuid.UUID, runAt time.Time) error
}
