package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrAlreadySigned is returned when a signed voucher is signed again. A
// voucher may carry at most one signature.
var ErrAlreadySigned = errors.New("voucher has already been signed")

// VoucherType enumerates statutory voucher categories (Appendix I of Circular
// 99/2025/TT-BTC).
type VoucherType string

const (
	VoucherThu       VoucherType = "THU"         // cash receipt
	VoucherChi       VoucherType = "CHI"         // cash payment
	VoucherNKC       VoucherType = "NKC"         // goods import
	VoucherXK        VoucherType = "XK"          // goods export
	VoucherMua       VoucherType = "MUA"         // purchase
	VoucherBan       VoucherType = "BAN"         // sale
	VoucherKPH       VoucherType = "KPH"         // stocktake shortage found
	VoucherKPD       VoucherType = "KPD"         // stocktake surplus found
	VoucherDieuChinh VoucherType = "DIEU_CHINH"  // adjustment
	VoucherKhac      VoucherType = "KHAC"        // other
)

// AccountingVoucher is the source document wrapping one or more journal
// entries. Voucher numbers are caller-assigned (PREFIX/YYYYMMDD/NNN) and
// assumed unique per company and date; the core does not validate format.
type AccountingVoucher struct {
	VoucherID         string      `json:"voucherID"`
	VoucherNumber     string      `json:"voucherNumber"`
	VoucherType       VoucherType `json:"voucherType"`
	VoucherDate       time.Time   `json:"voucherDate"`
	PostingDate       *time.Time  `json:"postingDate,omitempty"`
	Description       string      `json:"description"`
	DescriptionDetail string      `json:"descriptionDetail,omitempty"`
	DocumentRef       string      `json:"documentRef,omitempty"` // invoice or contract number
	DocumentDate      *time.Time  `json:"documentDate,omitempty"`
	CompanyCode       string      `json:"companyCode"`
	BranchCode        string      `json:"branchCode,omitempty"`

	IsSigned      bool       `json:"isSigned"`
	SignedAt      *time.Time `json:"signedAt,omitempty"`
	SignerID      string     `json:"signerID,omitempty"`
	SignatureData string     `json:"signatureData,omitempty"`

	IsLocked   bool       `json:"isLocked"`
	LockedAt   *time.Time `json:"lockedAt,omitempty"`
	LockStatus LockStatus `json:"lockStatus"`

	JournalEntryIDs []string `json:"journalEntryIDs,omitempty"`
	Version         int64    `json:"version"`
	AuditFields
}

// Sign records a digital signature on the voucher. A second call always fails
// with ErrAlreadySigned and leaves the first signature intact.
func (v AccountingVoucher) Sign(signerID, signature string) (AccountingVoucher, error) {
	if v.IsSigned {
		return v, fmt.Errorf("%w: voucher %s signed by %s", ErrAlreadySigned, v.VoucherNumber, v.SignerID)
	}
	now := time.Now().UTC()
	v.IsSigned = true
	v.SignedAt = &now
	v.SignerID = signerID
	v.SignatureData = signature
	v.Version++
	return v, nil
}

// Lock freezes the voucher. Unconditional and monotonic: unlocking is a
// privileged operation outside this core.
func (v AccountingVoucher) Lock(lockType LockStatus) AccountingVoucher {
	now := time.Now().UTC()
	v.IsLocked = true
	v.LockedAt = &now
	v.LockStatus = lockType
	v.Version++
	return v
}

// CanModify reports whether the voucher still accepts changes.
func (v AccountingVoucher) CanModify() bool {
	return !v.IsLocked
}
