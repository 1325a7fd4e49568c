package adapters

import (
	"context"
	"strings"

	"github.com/google/uuid"

	callrepo "sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/scheduler"
)

// ReminderCallFinder loads calls for the follow-up reminder job.
type ReminderCallFinder struct {
	repo callrepo.CallLogReader
}

// NewReminderCallFinder creates an adapter over the call logs reader.
func NewReminderCallFinder(repo callrepo.CallLogReader) *ReminderCallFinder {
	return &ReminderCallFinder{repo: repo}
}

func (a *ReminderCallFinder) FindReminderCall(ctx context.Context, callLogID uuid.UUID) (scheduler.ReminderCall, error) {
	item, err := a.repo.GetByIDUnscoped(ctx, callLogID)
	if err != nil {
		return scheduler.ReminderCall{}, err
	}

	call := scheduler.ReminderCall{
		ID:               item.ID,
		AgentID:          item.AgentID,
		Subject:          item.Subject,
		FollowUpRequired: item.FollowUpRequired,
		FollowUpDate:     item.FollowUpDate,
		FollowUpNotes:    item.FollowUpNotes,
	}
	if item.Client != nil {
		call.ClientName = strings.TrimSpace(item.Client.FirstName + " " + item.Client.LastName)
		call.Company = item.Client.Company
	}
	return call, nil
}

var _ scheduler.CallFinder = (*ReminderCallFinder)(nil)
