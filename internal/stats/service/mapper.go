package service

import (
	"sales_crm_backend/internal/stats/repository"
	"sales_crm_backend/internal/stats/transport"
)

func toProfile(a repository.Agent) transport.AgentProfile {
	return transport.AgentProfile{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		Department: a.Department,
		HireDate:   a.HireDate,
	}
}

func toRecentCalls(items []repository.RecentCall) []transport.RecentCall {
	out := make([]transport.RecentCall, 0, len(items))
	for _, item := range items {
		call := transport.RecentCall{
			ID:       item.ID,
			CallType: item.CallType,
			Subject:  item.Subject,
			Outcome:  item.Outcome,
			Status:   item.Status,
			Duration: item.Duration,
			CallDate: item.CallDate,
		}
		if item.Client != nil {
			call.Client = &transport.CallClient{
				ID:        item.Client.ID,
				FirstName: item.Client.FirstName,
				LastName:  item.Client.LastName,
				Company:   item.Client.Company,
				Phone:     item.Client.Phone,
			}
		}
		out = append(out, call)
	}
	return out
}

// withoutPhone trims the joined client to name and company.
func withoutPhone(calls []transport.RecentCall) []transport.RecentCall {
	for i := range calls {
		if calls[i].Client != nil {
			calls[i].Client.Phone = ""
		}
	}
	return calls
}

// toClientSummaries projects client rows. The full projection adds contact
// details and the creation time; the short one keeps name, company, stage
// and deal value.
func toClientSummaries(items []repository.ClientRow, full bool) []transport.ClientSummary {
	out := make([]transport.ClientSummary, 0, len(items))
	for _, item := range items {
		summary := transport.ClientSummary{
			ID:               item.ID,
			FirstName:        item.FirstName,
			LastName:         item.LastName,
			Company:          item.Company,
			OpportunityStage: string(item.OpportunityStage),
			DealValue:        item.DealValue,
		}
		if full {
			createdAt := item.CreatedAt
			summary.Email = item.Email
			summary.Phone = item.Phone
			summary.CreatedAt = &createdAt
		}
		out = append(out, summary)
	}
	return out
}
