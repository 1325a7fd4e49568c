package calllogs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/logger"
)

type scheduledReminder struct {
	callLogID uuid.UUID
	agentID   uuid.UUID
	runAt     time.Time
}

type recordingReminders struct {
	scheduled []scheduledReminder
}

func (r *recordingReminders) ScheduleFollowUpReminder(_ context.Context, callLogID, agentID uuid.UUID, runAt time.Time) error {
	r.scheduled = append(r.scheduled, scheduledReminder{callLogID: callLogID, agentID: agentID, runAt: runAt})
	return nil
}

func TestCallLoggedSchedulesFollowUp(t *testing.T) {
	reminders := &recordingReminders{}
	m := &Module{log: logger.Discard(), reminders: reminders}
	due := time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)
	e := events.CallLogged{
		BaseEvent:        events.NewBaseEvent(),
		CallLogID:        uuid.New(),
		AgentID:          uuid.New(),
		FollowUpRequired: true,
		FollowUpDate:     &due,
	}

	require.NoError(t, m.Handle(context.Background(), e))

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, e.CallLogID, reminders.scheduled[0].callLogID)
	assert.Equal(t, e.AgentID, reminders.scheduled[0].agentID)
	assert.True(t, reminders.scheduled[0].runAt.Equal(due))
}

func TestCallLoggedWithoutFollowUpSchedulesNothing(t *testing.T) {
	reminders := &recordingReminders{}
	m := &Module{log: logger.Discard(), reminders: reminders}
	due := time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)

	require.NoError(t, m.Handle(context.Background(), events.CallLogged{CallLogID: uuid.New()}))
	require.NoError(t, m.Handle(context.Background(), events.CallLogged{CallLogID: uuid.New(), FollowUpDate: &due}))
	require.NoError(t, m.Handle(context.Background(), events.CallLogged{CallLogID: uuid.New(), FollowUpRequired: true}))

	assert.Empty(t, reminders.scheduled)
}

func TestCallLoggedWithoutSchedulerIsIgnored(t *testing.T) {
	m := &Module{log: logger.Discard()}
	due := time.Now()

	assert.NoError(t, m.Handle(context.Background(), events.CallLogged{FollowUpRequired: true, FollowUpDate: &due}))
}

func TestStageChangedIsOnlyLogged(t *testing.T) {
	m := &Module{log: logger.Discard()}

	assert.NoError(t, m.Handle(context.Background(), events.ClientStageChanged{
		ClientID:  uuid.New(),
		CallLogID: uuid.New(),
		From:      "lead",
		To:        "qualified",
		Outcome:   "qualified",
	}))
}
