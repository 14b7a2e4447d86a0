package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the call outcome recorded on a lead.
type LeadStatus string

const (
	StatusNew         LeadStatus = "NEW"
	StatusCalled      LeadStatus = "CALLED" // reserved, no operation sets it
	StatusBooked      LeadStatus = "BOOKED"
	StatusRescheduled LeadStatus = "RESCHEDULED"
	StatusCancelled   LeadStatus = "CANCELLED"
	StatusNoAnswer    LeadStatus = "NO_ANSWER"
)

// AllStatuses lists every status in display order.
var AllStatuses = []LeadStatus{
	StatusNew,
	StatusCalled,
	StatusBooked,
	StatusRescheduled,
	StatusCancelled,
	StatusNoAnswer,
}

func (s LeadStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the text shown to the agent.
func (s LeadStatus) Label() string {
	if s == StatusNoAnswer {
		return "NO ANSWER"
	}
	return string(s)
}

type Lead struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	IDNumber      string     `json:"id_number,omitempty"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Company       string     `json:"company"`
	Role          string     `json:"role,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Status        LeadStatus `json:"status"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

// NewLead builds a freshly imported lead. Imported leads always start as NEW.
func NewLead(name, idNumber, phone, email, company, role, notes string) Lead {
	return Lead{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(name),
		IDNumber: strings.TrimSpace(idNumber),
		Phone:    strings.TrimSpace(phone),
		Email:    strings.TrimSpace(email),
		Company:  strings.TrimSpace(company),
		Role:     strings.TrimSpace(role),
		Notes:    strings.TrimSpace(notes),
		Status:   StatusNew,
	}
}

// Callable reports whether the lead is worth keeping after import:
// it needs a name and at least one contact channel.
func (l Lead) Callable() bool {
	return l.Name != "" && (l.Phone != "" || l.Email != "")
}

// LeadStats is derived from a lead list and never stored on its own.
type LeadStats struct {
	Total  int `json:"total"`
	Booked int `json:"booked"`
	Calls  int `json:"calls"`
}

func ComputeStats(leads []Lead) LeadStats {
	stats := LeadStats{Total: len(leads)}
	for _, l := range leads {
		if l.Status == StatusBooked {
			stats.Booked++
		}
		if l.Status != StatusNew {
			stats.Calls++
		}
	}
	return stats
}

// LeadRepositoryInterface is the durable copy of each user's lead list.
type LeadRepositoryInterface interface {
	GetLeads(ctx context.Context, userID string) ([]Lead, error)
	PutLeads(ctx context.Context, userID string, leads []Lead) error
}
