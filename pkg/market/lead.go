package market

import (
	"fmt"
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return LeadStatus(s), nil
	default:
		return "", fmt.Errorf("unknown lead status: %s", s)
	}
}

type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityMedium LeadPriority = "medium"
	PriorityHigh   LeadPriority = "high"
)

func ParseLeadPriority(s string) (LeadPriority, error) {
	switch LeadPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return LeadPriority(s), nil
	default:
		return "", fmt.Errorf("unknown lead priority: %s", s)
	}
}

type LeadNote struct {
	Note    string    `json:"note"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

type Lead struct {
	ID          string       `json:"id"`
	FullName    string       `json:"fullName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	ServiceType string       `json:"serviceType"`
	EventDate   string       `json:"eventDate,omitempty"`
	GuestCount  int          `json:"guestCount,omitempty"`
	Location    string       `json:"location,omitempty"`
	Message     string       `json:"message,omitempty"`
	Source      string       `json:"source,omitempty"`
	Status      LeadStatus   `json:"status"`
	Priority    LeadPriority `json:"priority"`
	Notes       []LeadNote   `json:"notes"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type LeadStats struct {
	Total        int `json:"total"`
	New          int `json:"new"`
	Contacted    int `json:"contacted"`
	Qualified    int `json:"qualified"`
	Converted    int `json:"converted"`
	Lost         int `json:"lost"`
	HighPriority int `json:"highPriority"`
}

func (st *LeadStats) Count(l Lead) {
	st.Total++
	switch l.Status {
	case LeadNew:
		st.New++
	case LeadContacted:
		st.Contacted++
	case LeadQualified:
		st.Qualified++
	case LeadConverted:
		st.Converted++
	case LeadLost:
		st.Lost++
	}
	if l.Priority == PriorityHigh {
		st.HighPriority++
	}
}

// LeadUpdate is the body of PUT /leads/{id}. Status and priority are
// independent fields: any value may replace any other.
type LeadUpdate struct {
	Status   *LeadStatus   `json:"status,omitempty"`
	Priority *LeadPriority `json:"priority,omitempty"`
}

func (u LeadUpdate) Validate() error {
	if u.Status == nil && u.Priority == nil {
		return ValidationError{Code: "VALIDATION_FAILED", Message: "status or priority is required"}
	}
	if u.Status != nil {
		if _, err := ParseLeadStatus(string(*u.Status)); err != nil {
			return ValidationError{Code: "STATUS_INVALID", Field: "status", Message: err.Error()}
		}
	}
	if u.Priority != nil {
		if _, err := ParseLeadPriority(string(*u.Priority)); err != nil {
			return ValidationError{Code: "PRIORITY_INVALID", Field: "priority", Message: err.Error()}
		}
	}
	return nil
}

// Apply returns l with the update applied.
func (l Lead) Apply(u LeadUpdate, now time.Time) Lead {
	out := l
	if u.Status != nil {
		out.Status = *u.Status
	}
	if u.Priority != nil {
		out.Priority = *u.Priority
	}
	out.UpdatedAt = now
	return out
}

// NormalizeNote trims a note and refuses blank input.
func NormalizeNote(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ValidationError{Code: "NOTE_REQUIRED", Field: "note", Message: "note must not be empty"}
	}
	return text, nil
}

// LeadFilter mirrors the query string of GET /leads.
type LeadFilter struct {
	Status      string
	Priority    string
	ServiceType string
	Search      string
}
