package adapters

import (
	"context"

	"github.com/google/uuid"

	callrepo "sales_crm_backend/internal/calllogs/repository"
	clientsvc "sales_crm_backend/internal/clients/service"
	"sales_crm_backend/internal/clients/transport"
)

// ClientCallLogStore gives the clients service its view of call logs:
// recent calls for the detail page and the delete cascade.
type ClientCallLogStore struct {
	repo callrepo.Repository
}

// NewClientCallLogStore creates an adapter over the call logs repository.
func NewClientCallLogStore(repo callrepo.Repository) *ClientCallLogStore {
	return &ClientCallLogStore{repo: repo}
}

// RecentForClient returns the agent's latest calls against a client.
func (a *ClientCallLogStore) RecentForClient(ctx context.Context, clientID, agentID uuid.UUID, limit int) ([]transport.RecentCallLog, error) {
	items, err := a.repo.ListForClient(ctx, clientID, agentID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]transport.RecentCallLog, 0, len(items))
	for _, item := range items {
		recent := transport.RecentCallLog{
			ID:       item.ID,
			CallType: item.CallType,
			Subject:  item.Subject,
			Outcome:  item.Outcome,
			Status:   item.Status,
			Duration: item.Duration,
			CallDate: item.CallDate,
		}
		if item.Agent != nil {
			recent.Agent = item.Agent.Name
		}
		out = append(out, recent)
	}
	return out, nil
}

// DeleteForClient removes every call the agent logged against a client.
func (a *ClientCallLogStore) DeleteForClient(ctx context.Context, clientID, agentID uuid.UUID) (int64, error) {
	return a.repo.DeleteByClient(ctx, clientID, agentID)
}

var _ clientsvc.CallLogStore = (*ClientCallLogStore)(nil)
