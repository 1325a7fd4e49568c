package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskReconcileStage = "calllogs.reconcile_stage"

const TaskFollowUpReminder = "calllogs.follow_up_reminder"

type ReconcileStagePayload struct {
	CallLogID string `json:"callLogId"`
}

// FollowUpReminderPayload carries the due time the reminder was scheduled
// for so a rescheduled follow-up does not fire twice.
type FollowUpReminderPayload struct {
	CallLogID string    `json:"callLogId"`
	AgentID   string    `json:"agentId"`
	DueAt     time.Time `json:"dueAt"`
}

func NewReconcileStageTask(payload ReconcileStagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileStage, data), nil
}

func ParseReconcileStagePayload(task *asynq.Task) (ReconcileStagePayload, error) {
	var payload ReconcileStagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReconcileStagePayload{}, err
	}
	return payload, nil
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
