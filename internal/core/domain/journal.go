package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotBalanced is returned when an entry whose debits do not equal its
	// credits is posted.
	ErrNotBalanced = errors.New("journal entry is not balanced: total debit != total credit")
	// ErrAlreadyPosted is returned on a second post attempt. Posting rejects
	// repeats rather than absorbing them, so racing callers surface a conflict.
	ErrAlreadyPosted = errors.New("journal entry has already been posted")
)

// VoucherLineDetail is one line of a journal entry. A line conventionally
// carries only a debit amount or only a credit amount, mirroring the statutory
// ledger format. Lines are immutable; corrections reconstruct them.
type VoucherLineDetail struct {
	AccountCode        string           `json:"accountCode"`
	DebitAmount        *Money           `json:"debitAmount,omitempty"`
	CreditAmount       *Money           `json:"creditAmount,omitempty"`
	CounterpartAccount string           `json:"counterpartAccount,omitempty"`
	Description        string           `json:"description,omitempty"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice          *Money           `json:"unitPrice,omitempty"`
	ExchangeRate       *ExchangeRate    `json:"exchangeRate,omitempty"`
	ForeignAmount      *Money           `json:"foreignAmount,omitempty"`
	TaxCode            string           `json:"taxCode,omitempty"`
	TaxRate            *decimal.Decimal `json:"taxRate,omitempty"`
	ObjectCode         string           `json:"objectCode,omitempty"`
	ContractCode       string           `json:"contractCode,omitempty"`
}

// JournalEntry is the postable unit of double-entry bookkeeping (Appendix III
// of Circular 99/2025/TT-BTC). It moves through an immutable lifecycle:
// created unbalanced, totals computed from lines, posted, optionally locked.
// Every state change returns a new value with the version counter bumped so
// callers can serialize persistence with an optimistic version check.
type JournalEntry struct {
	EntryID           string              `json:"entryID"`
	EntryNumber       string              `json:"entryNumber"` // caller-assigned, unique
	VoucherID         string              `json:"voucherID"`
	CompanyCode       string              `json:"companyCode"`
	VoucherDate       time.Time           `json:"voucherDate"`
	PostingDate       time.Time           `json:"postingDate"`
	Description       string              `json:"description"`
	DescriptionDetail string              `json:"descriptionDetail,omitempty"`
	Lines             []VoucherLineDetail `json:"lines"`
	TotalDebit        *Money              `json:"totalDebit,omitempty"`
	TotalCredit       *Money              `json:"totalCredit,omitempty"`
	Difference        *Money              `json:"difference,omitempty"`
	IsPosted          bool                `json:"isPosted"`
	PostedAt          *time.Time          `json:"postedAt,omitempty"`
	IsLocked          bool                `json:"isLocked"`
	LockStatus        LockStatus          `json:"lockStatus"`
	Version           int64               `json:"version"`
	AuditFields
}

// IsBalanced reports whether both totals are present and exactly equal.
// Exact decimal equality, not an epsilon comparison.
func (e JournalEntry) IsBalanced() bool {
	if e.TotalDebit == nil || e.TotalCredit == nil {
		return false
	}
	return e.TotalDebit.Amount.Equal(e.TotalCredit.Amount)
}

// CalculateTotals sums the present debit and credit amounts over all lines
// (an absent amount contributes zero) and sets difference = debit - credit.
// Pure: the receiver is unchanged and a new entry is returned.
func (e JournalEntry) CalculateTotals() JournalEntry {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range e.Lines {
		if line.DebitAmount != nil {
			totalDebit = totalDebit.Add(line.DebitAmount.Amount)
		}
		if line.CreditAmount != nil {
			totalCredit = totalCredit.Add(line.CreditAmount.Amount)
		}
	}
	debit := VND(totalDebit)
	credit := VND(totalCredit)
	diff := VND(totalDebit.Sub(totalCredit))
	e.TotalDebit = &debit
	e.TotalCredit = &credit
	e.Difference = &diff
	return e
}

// Post commits the entry to the ledger. It fails with ErrNotBalanced on an
// unbalanced entry and ErrAlreadyPosted on a repeat; on failure the entry is
// unchanged. The error carries the computed totals for the caller's message.
func (e JournalEntry) Post(postedBy string) (JournalEntry, error) {
	if !e.IsBalanced() {
		return e, fmt.Errorf("%w: entry %s, debit=%s credit=%s",
			ErrNotBalanced, e.EntryNumber, totalString(e.TotalDebit), totalString(e.TotalCredit))
	}
	if e.IsPosted {
		return e, fmt.Errorf("%w: entry %s", ErrAlreadyPosted, e.EntryNumber)
	}
	now := time.Now().UTC()
	e.IsPosted = true
	e.PostedAt = &now
	e.Version++
	e.LastUpdatedAt = now
	e.LastUpdatedBy = postedBy
	return e, nil
}

// Lock freezes the entry unconditionally: period-end locking applies to every
// entry regardless of its completeness, so there is no precondition on prior
// state. Locking never fails.
func (e JournalEntry) Lock(lockType LockStatus) JournalEntry {
	e.IsLocked = true
	e.LockStatus = lockType
	e.Version++
	return e
}

func totalString(m *Money) string {
	if m == nil {
		return "<none>"
	}
	return m.Amount.String()
}
