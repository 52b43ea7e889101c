package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnacct/vnacct/internal/core/domain"
)

func testVoucher() domain.AccountingVoucher {
	return domain.AccountingVoucher{
		VoucherID:     "voucher-1",
		VoucherNumber: "CT/20251215/001",
		VoucherType:   domain.VoucherMua,
		VoucherDate:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		Description:   "purchase from supplier ABC",
		CompanyCode:   "DEMO",
		LockStatus:    domain.LockOpen,
		Version:       1,
	}
}

func TestAccountingVoucher_Sign(t *testing.T) {
	voucher := testVoucher()

	signed, err := voucher.Sign("NV001", "SIGNATURE_DATA")
	require.NoError(t, err)
	assert.True(t, signed.IsSigned)
	assert.Equal(t, "NV001", signed.SignerID)
	assert.Equal(t, "SIGNATURE_DATA", signed.SignatureData)
	require.NotNil(t, signed.SignedAt)
	assert.Equal(t, voucher.Version+1, signed.Version)
}

func TestAccountingVoucher_SignTwiceFails(t *testing.T) {
	voucher := testVoucher()

	signed, err := voucher.Sign("NV001", "FIRST_SIGNATURE")
	require.NoError(t, err)

	again, err := signed.Sign("NV002", "SECOND_SIGNATURE")
	assert.ErrorIs(t, err, domain.ErrAlreadySigned)

	// the first signature survives the rejected attempt
	assert.Equal(t, "NV001", again.SignerID)
	assert.Equal(t, "FIRST_SIGNATURE", again.SignatureData)
	assert.Equal(t, signed.Version, again.Version)
}

func TestAccountingVoucher_Lock(t *testing.T) {
	voucher := testVoucher()
	assert.True(t, voucher.CanModify())

	locked := voucher.Lock(domain.LockMonth)
	assert.True(t, locked.IsLocked)
	assert.Equal(t, domain.LockMonth, locked.LockStatus)
	require.NotNil(t, locked.LockedAt)
	assert.False(t, locked.CanModify())

	// lock is monotonic: relocking never fails and the entity stays frozen
	relocked := locked.Lock(domain.LockYear)
	assert.True(t, relocked.IsLocked)
	assert.False(t, relocked.CanModify())
}
