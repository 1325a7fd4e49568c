package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/calllogs/transport"
	"sales_crm_backend/internal/events"
	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

var processedAt = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	repo    *memoryRepo
	clients *memoryClients
	agentID uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logger.Discard()
	repo := newMemoryRepo()
	clients := newMemoryClients()
	svc := New(repo, clients, events.NewInMemoryBus(log), log)
	svc.SetClock(func() time.Time { return processedAt })
	return fixture{svc: svc, repo: repo, clients: clients, agentID: uuid.New()}
}

func callRequest(clientID uuid.UUID, outcome pipeline.Outcome) transport.CreateCallLogRequest {
	return transport.CreateCallLogRequest{
		ClientID: clientID.String(),
		CallType: "outbound",
		Subject:  "Intro call",
		Outcome:  string(outcome),
		Duration: 12,
		Notes:    "Discussed pricing",
	}
}

func float(v float64) *float64 { return &v }

func TestCreateClosesFromAnyStage(t *testing.T) {
	tests := []struct {
		outcome pipeline.Outcome
		want    pipeline.Stage
	}{
		{pipeline.OutcomeClosedWon, pipeline.StageClosedWon},
		{pipeline.OutcomeClosedLost, pipeline.StageClosedLost},
		{pipeline.OutcomeProposalSent, pipeline.StageProposal},
		{pipeline.OutcomeNegotiation, pipeline.StageNegotiation},
		{pipeline.OutcomeNotInterested, pipeline.StageClosedLost},
	}

	for _, tc := range tests {
		for _, start := range pipeline.AllStages {
			f := newFixture(t)
			clientID := f.clients.add(f.agentID, start)

			_, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, tc.outcome))
			require.NoError(t, err)

			assert.Equal(t, tc.want, f.clients.get(clientID).stage, "outcome %s from %s", tc.outcome, start)
		}
	}
}

func TestCreateQualifiedOnlyAdvancesLead(t *testing.T) {
	for _, start := range pipeline.AllStages {
		f := newFixture(t)
		clientID := f.clients.add(f.agentID, start)

		_, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, pipeline.OutcomeQualified))
		require.NoError(t, err)

		want := start
		if start == pipeline.StageLead {
			want = pipeline.StageQualified
		}
		assert.Equal(t, want, f.clients.get(clientID).stage, "from %s", start)
	}
}

func TestCreateNeutralOutcomesTouchOnlyLastContact(t *testing.T) {
	neutral := []pipeline.Outcome{
		pipeline.OutcomeNoAnswer,
		pipeline.OutcomeVoicemail,
		pipeline.OutcomeCallbackRequested,
	}

	for _, outcome := range neutral {
		f := newFixture(t)
		clientID := f.clients.add(f.agentID, pipeline.StageProposal)

		_, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, outcome))
		require.NoError(t, err)

		state := f.clients.get(clientID)
		assert.Equal(t, pipeline.StageProposal, state.stage)
		require.NotNil(t, state.lastContactDate)
		assert.True(t, state.lastContactDate.Equal(processedAt))
		assert.Nil(t, state.closedDate)
	}
}

func TestCreateThenGetReturnsSubmittedFields(t *testing.T) {
	f := newFixture(t)
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	callDate := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	followUp := time.Date(2026, 5, 8, 9, 0, 0, 0, time.UTC)
	term := "12 months"
	req := callRequest(clientID, pipeline.OutcomeVoicemail)
	req.Status = "in-progress"
	req.CallDate = &callDate
	req.FollowUpRequired = true
	req.FollowUpDate = &followUp
	req.FollowUpNotes = "Try again <b>Friday</b>"
	req.DealInfo = &transport.DealInfo{DealValue: float(1200), ContractTerm: &term}

	created, err := f.svc.Create(context.Background(), f.agentID, req)
	require.NoError(t, err)

	got, err := f.svc.GetOne(context.Background(), created.ID, f.agentID)
	require.NoError(t, err)

	assert.Equal(t, clientID, got.ClientID)
	assert.Equal(t, f.agentID, got.AgentID)
	assert.Equal(t, req.CallType, got.CallType)
	assert.Equal(t, req.Subject, got.Subject)
	assert.Equal(t, req.Outcome, got.Outcome)
	assert.Equal(t, req.Duration, got.Duration)
	assert.Equal(t, req.Status, got.Status)
	assert.Equal(t, req.Notes, got.Notes)
	assert.Equal(t, req.FollowUpNotes, got.FollowUpNotes)
	assert.True(t, got.FollowUpRequired)
	assert.True(t, got.CallDate.Equal(callDate))
	require.NotNil(t, got.FollowUpDate)
	assert.True(t, got.FollowUpDate.Equal(followUp))
	require.NotNil(t, got.DealInfo)
	assert.Equal(t, 1200.0, *got.DealInfo.DealValue)
	assert.Equal(t, term, *got.DealInfo.ContractTerm)
}

func TestCreateDefaultsStatusAndCallDate(t *testing.T) {
	f := newFixture(t)
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	created, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)

	assert.Equal(t, "open", created.Status)
	assert.True(t, created.CallDate.Equal(processedAt))
}

func TestCreateRejectsClientOfAnotherAgent(t *testing.T) {
	f := newFixture(t)
	clientID := f.clients.add(uuid.New(), pipeline.StageLead)

	_, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, pipeline.OutcomeClosedWon))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, f.repo.calls)
	assert.Equal(t, pipeline.StageLead, f.clients.get(clientID).stage)
}

func TestCreateRejectsMalformedClientID(t *testing.T) {
	f := newFixture(t)
	req := callRequest(uuid.Nil, pipeline.OutcomeNoAnswer)
	req.ClientID = "not-a-uuid"

	_, err := f.svc.Create(context.Background(), f.agentID, req)

	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestQualifiedThenClosedWonScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	_, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeQualified))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageQualified, f.clients.get(clientID).stage)

	won := callRequest(clientID, pipeline.OutcomeClosedWon)
	won.DealInfo = &transport.DealInfo{DealValue: float(5000)}
	_, err = f.svc.Create(ctx, f.agentID, won)
	require.NoError(t, err)

	state := f.clients.get(clientID)
	assert.Equal(t, pipeline.StageClosedWon, state.stage)
	assert.Equal(t, 5000.0, state.dealValue)
	require.NotNil(t, state.closedDate)
	assert.True(t, state.closedDate.Equal(processedAt))
}

func TestDeleteLeavesClientUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNegotiation))
	require.NoError(t, err)
	before := f.clients.get(clientID)

	require.NoError(t, f.svc.Delete(ctx, created.ID, f.agentID))

	assert.Equal(t, before, f.clients.get(clientID))
	_, err = f.svc.GetOne(ctx, created.ID, f.agentID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOperationsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)

	other := uuid.New()

	_, err = f.svc.GetOne(ctx, created.ID, other)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	subject := "Hijack"
	_, err = f.svc.Update(ctx, created.ID, other, transport.UpdateCallLogRequest{Subject: &subject})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.True(t, apperr.Is(f.svc.Delete(ctx, created.ID, other), apperr.KindNotFound))

	list, err := f.svc.ListForClient(ctx, clientID, other)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListForAgentNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	for i := 0; i < 3; i++ {
		req := callRequest(clientID, pipeline.OutcomeNoAnswer)
		date := processedAt.Add(time.Duration(i) * time.Hour)
		req.CallDate = &date
		_, err := f.svc.Create(ctx, f.agentID, req)
		require.NoError(t, err)
	}

	list, err := f.svc.ListForAgent(ctx, f.agentID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CallDate.After(list[1].CallDate))
	assert.True(t, list[1].CallDate.After(list[2].CallDate))
}

func TestUpdateAppliesPayloadOutcomeToStoredClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)

	outcome := string(pipeline.OutcomeClosedWon)
	_, err = f.svc.Update(ctx, created.ID, f.agentID, transport.UpdateCallLogRequest{
		Outcome:  &outcome,
		DealInfo: &transport.DealInfo{DealValue: float(750)},
	})
	require.NoError(t, err)

	state := f.clients.get(clientID)
	assert.Equal(t, pipeline.StageClosedWon, state.stage)
	assert.Equal(t, 750.0, state.dealValue)
}

func TestUpdateWithoutOutcomeKeepsStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNegotiation))
	require.NoError(t, err)

	notes := "Sent revised terms"
	got, err := f.svc.Update(ctx, created.ID, f.agentID, transport.UpdateCallLogRequest{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, notes, got.Notes)
	assert.Equal(t, pipeline.StageNegotiation, f.clients.get(clientID).stage)
}

func TestUpdateRejectsClientRelink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	otherClient := f.clients.add(f.agentID, pipeline.StageLead)
	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)

	relink := otherClient.String()
	outcome := string(pipeline.OutcomeClosedLost)
	_, err = f.svc.Update(ctx, created.ID, f.agentID, transport.UpdateCallLogRequest{ClientID: &relink, Outcome: &outcome})

	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, pipeline.StageLead, f.clients.get(otherClient).stage)
	assert.Equal(t, pipeline.StageLead, f.clients.get(clientID).stage)

	same := clientID.String()
	_, err = f.svc.Update(ctx, created.ID, f.agentID, transport.UpdateCallLogRequest{ClientID: &same, Outcome: &outcome})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageClosedLost, f.clients.get(clientID).stage)
}

func TestPatchFailureKeepsCallAndQueuesReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reconciler := &recordingReconciler{}
	f.svc.SetReconcileScheduler(reconciler)
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	f.clients.applyErr = errStoreDown

	_, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeProposalSent))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDependency))
	require.Len(t, f.repo.calls, 1)
	require.Len(t, reconciler.ids, 1)
	assert.Equal(t, pipeline.StageLead, f.clients.get(clientID).stage)

	f.clients.applyErr = nil
	require.NoError(t, f.svc.ReconcileStage(ctx, reconciler.ids[0]))
	assert.Equal(t, pipeline.StageProposal, f.clients.get(clientID).stage)
}

func TestReconcileSkipsMissingRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.svc.ReconcileStage(ctx, uuid.New()))

	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	created, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)
	delete(f.clients.clients, clientID)

	assert.NoError(t, f.svc.ReconcileStage(ctx, created.ID))
}

// A concurrent call can land between the stage read and the patch. The guard
// decides on the stage it read, so the later patch wins and the client moves
// back from proposal to qualified.
func TestQualifiedGuardDecidesOnStaleStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.clients.add(f.agentID, pipeline.StageLead)

	f.clients.beforeApply = func() {
		_, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeProposalSent))
		require.NoError(t, err)
		require.Equal(t, pipeline.StageProposal, f.clients.get(clientID).stage)
	}

	_, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeQualified))
	require.NoError(t, err)

	assert.Equal(t, pipeline.StageQualified, f.clients.get(clientID).stage)
	assert.Len(t, f.repo.calls, 2)
}

func TestCreatePublishesCallLogged(t *testing.T) {
	log := logger.Discard()
	bus := events.NewInMemoryBus(log)
	received := make(chan events.CallLogged, 1)
	bus.Subscribe(events.CallLogged{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		received <- e.(events.CallLogged)
		return nil
	}))

	clients := newMemoryClients()
	agentID := uuid.New()
	clientID := clients.add(agentID, pipeline.StageLead)
	svc := New(newMemoryRepo(), clients, bus, log)

	followUp := processedAt.Add(48 * time.Hour)
	req := callRequest(clientID, pipeline.OutcomeCallbackRequested)
	req.FollowUpRequired = true
	req.FollowUpDate = &followUp

	created, err := svc.Create(context.Background(), agentID, req)
	require.NoError(t, err)
	bus.Wait()

	select {
	case e := <-received:
		assert.Equal(t, created.ID, e.CallLogID)
		assert.True(t, e.FollowUpRequired)
		require.NotNil(t, e.FollowUpDate)
		assert.True(t, e.FollowUpDate.Equal(followUp))
	default:
		t.Fatal("expected CallLogged event")
	}
}

func TestUpdatePublishesCallLoggedOnlyForFollowUpChanges(t *testing.T) {
	log := logger.Discard()
	bus := events.NewInMemoryBus(log)
	received := make(chan events.CallLogged, 4)
	bus.Subscribe(events.CallLogged{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		received <- e.(events.CallLogged)
		return nil
	}))

	clients := newMemoryClients()
	agentID := uuid.New()
	clientID := clients.add(agentID, pipeline.StageLead)
	svc := New(newMemoryRepo(), clients, bus, log)

	created, err := svc.Create(context.Background(), agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)
	bus.Wait()
	<-received

	subject := "Renamed"
	_, err = svc.Update(context.Background(), created.ID, agentID, transport.UpdateCallLogRequest{Subject: &subject})
	require.NoError(t, err)
	bus.Wait()
	assert.Len(t, received, 0)

	required := true
	due := processedAt.Add(72 * time.Hour)
	_, err = svc.Update(context.Background(), created.ID, agentID, transport.UpdateCallLogRequest{
		FollowUpRequired: &required,
		FollowUpDate:     &due,
	})
	require.NoError(t, err)
	bus.Wait()

	require.Len(t, received, 1)
	e := <-received
	assert.Equal(t, created.ID, e.CallLogID)
	assert.Equal(t, clientID, e.ClientID)
	assert.True(t, e.FollowUpRequired)
	require.NotNil(t, e.FollowUpDate)
	assert.True(t, e.FollowUpDate.Equal(due))
}

func TestCreateReturnsClientSummary(t *testing.T) {
	f := newFixture(t)
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	f.repo.summaries[clientID] = repository.ClientSummary{
		ID:        clientID,
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "(650) 253-0000",
	}

	created, err := f.svc.Create(context.Background(), f.agentID, callRequest(clientID, pipeline.OutcomeNoAnswer))
	require.NoError(t, err)

	require.NotNil(t, created.Client)
	assert.Equal(t, "Jane", created.Client.FirstName)
	assert.Equal(t, "Doe", created.Client.LastName)
	assert.Equal(t, "(650) 253-0000", created.Client.Phone)
}

func TestReconcileKeepsCallDateAsLastContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reconciler := &recordingReconciler{}
	f.svc.SetReconcileScheduler(reconciler)
	clientID := f.clients.add(f.agentID, pipeline.StageLead)
	f.clients.applyErr = errStoreDown

	_, err := f.svc.Create(ctx, f.agentID, callRequest(clientID, pipeline.OutcomeQualified))
	require.Error(t, err)
	require.Len(t, reconciler.ids, 1)

	f.clients.applyErr = nil
	f.svc.SetClock(func() time.Time { return processedAt.Add(6 * time.Hour) })
	require.NoError(t, f.svc.ReconcileStage(ctx, reconciler.ids[0]))

	state := f.clients.get(clientID)
	require.NotNil(t, state.lastContactDate)
	assert.True(t, state.lastContactDate.Equal(processedAt))
	assert.Equal(t, pipeline.StageQualified, state.stage)
}
