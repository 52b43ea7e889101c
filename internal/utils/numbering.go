package utils

import (
	"fmt"
	"time"
)

// VoucherNumber formats a voucher number as CT/YYYYMMDD/NNN where NNN is the
// per-day sequence, e.g. CT/20260115/007.
func VoucherNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("CT/%s/%03d", date.Format("20060102"), sequence)
}

// EntryNumber formats a journal entry number as BT/YYYYMMDD/NNN.
func EntryNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("BT/%s/%03d", date.Format("20060102"), sequence)
}
