package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// JournalEntryResponse is the serialized journal entry returned by the API.
type JournalEntryResponse struct {
	EntryID     string           `json:"entryID"`
	EntryNumber string           `json:"entryNumber"`
	VoucherID   string           `json:"voucherID"`
	VoucherDate time.Time        `json:"voucherDate"`
	PostingDate time.Time        `json:"postingDate"`
	Description string           `json:"description"`
	TotalDebit  *decimal.Decimal `json:"totalDebit,omitempty"`
	TotalCredit *decimal.Decimal `json:"totalCredit,omitempty"`
	Difference  *decimal.Decimal `json:"difference,omitempty"`
	IsPosted    bool             `json:"isPosted"`
	PostedAt    *time.Time       `json:"postedAt,omitempty"`
	IsLocked    bool             `json:"isLocked"`
	LockStatus  string           `json:"lockStatus"`
	Version     int64            `json:"version"`
}

// ToJournalEntryResponse converts a domain entry to its API representation.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		VoucherID:   e.VoucherID,
		VoucherDate: e.VoucherDate,
		PostingDate: e.PostingDate,
		Description: e.Description,
		IsPosted:    e.IsPosted,
		PostedAt:    e.PostedAt,
		IsLocked:    e.IsLocked,
		LockStatus:  string(e.LockStatus),
		Version:     e.Version,
	}
	if e.TotalDebit != nil {
		resp.TotalDebit = &e.TotalDebit.Amount
	}
	if e.TotalCredit != nil {
		resp.TotalCredit = &e.TotalCredit.Amount
	}
	if e.Difference != nil {
		resp.Difference = &e.Difference.Amount
	}
	return resp
}

// ToJournalEntryResponses converts a slice of domain entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
