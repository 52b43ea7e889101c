package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/pkg/config"
)

// ReportingService derives the statutory reports (Appendix IV of Circular
// 99/2025/TT-BTC) from posted journal-entry lines. All aggregation runs in
// the reporting repository; this layer arranges the statement lines.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	company       config.CompanyConfig
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, company config.CompanyConfig) *ReportingService {
	return &ReportingService{reportingRepo: reportingRepo, company: company}
}

// TrialBalance builds the Appendix III trial balance. Residual balances are
// split onto the debit or credit side by sign, so a balanced ledger nets to a
// zero difference.
func (s *ReportingService) TrialBalance(ctx context.Context, companyCode, periodType string, year, periodValue int, asOf time.Time) (*dto.TrialBalanceResponse, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range rows {
		rows[i].Balance = rows[i].TotalDebit.Sub(rows[i].TotalCredit)
		if rows[i].Balance.IsPositive() {
			totalDebit = totalDebit.Add(rows[i].Balance)
		} else if rows[i].Balance.IsNegative() {
			totalCredit = totalCredit.Add(rows[i].Balance.Abs())
		}
	}

	return &dto.TrialBalanceResponse{
		PeriodType:  periodType,
		PeriodValue: periodValue,
		Year:        year,
		Accounts:    rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  totalDebit.Sub(totalCredit),
	}, nil
}

// BalanceSheet builds the statement of financial position. Lines are keyed by
// their statutory "Mã số" codes; heading lines carry their Vietnamese titles.
func (s *ReportingService) BalanceSheet(ctx context.Context, companyCode string, reportDate time.Time) (*dto.FinancialStatementResponse, error) {
	netBalance := func(codes ...string) (decimal.Decimal, error) {
		return s.reportingRepo.GetNetBalance(ctx, companyCode, codes, reportDate)
	}

	cash, err := netBalance("1111", "1112")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cash accounts: %w", err)
	}
	bank, err := netBalance("1121", "1122")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bank accounts: %w", err)
	}
	receivables, err := netBalance("131")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate receivables: %w", err)
	}
	inventory, err := netBalance("151", "152", "153", "156")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}
	shortTermDebt, err := netBalance("311")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate short-term debt: %w", err)
	}
	payables, err := netBalance("331")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payables: %w", err)
	}
	ownerCapital, err := netBalance("411")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate owner capital: %w", err)
	}
	retainedEarnings, err := netBalance("421")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate retained earnings: %w", err)
	}

	values := map[string]any{
		"Mã số 100": "A. TÀI SẢN",
		"Mã số 110": "I. Tiền và các khoản tương đương tiền",
		"Mã số 111": cash,
		"Mã số 112": bank,
		"Mã số 120": "II. Các khoản đầu tư tài chính",
		"Mã số 130": "III. Các khoản phải thu",
		"Mã số 131": receivables,
		"Mã số 150": "IV. Hàng tồn kho",
		"Mã số 151": inventory,
		"Mã số 200": "B. NỢ PHẢI TRẢ",
		"Mã số 210": "I. Nợ ngắn hạn",
		"Mã số 311": shortTermDebt,
		"Mã số 331": payables,
		"Mã số 300": "C. VỐN CHỦ SỞ HỮU",
		"Mã số 410": "I. Vốn chủ sở hữu",
		"Mã số 411": ownerCapital,
		"Mã số 421": retainedEarnings,
	}

	return &dto.FinancialStatementResponse{
		ReportType:   "BALANCE_SHEET",
		ReportPeriod: reportDate.Format("2006-01-02"),
		CompanyName:  s.company.Name,
		TaxCode:      s.company.TaxCode,
		Currency:     "VND",
		Values:       values,
	}, nil
}

// IncomeStatement builds the business-result report for a period. Revenue
// lines net credits against debits; expense lines come out negative and are
// presented as-is.
func (s *ReportingService) IncomeStatement(ctx context.Context, companyCode string, from, to time.Time) (*dto.FinancialStatementResponse, error) {
	netCredit := func(codes ...string) (decimal.Decimal, error) {
		return s.reportingRepo.GetNetCredit(ctx, companyCode, codes, from, to)
	}

	revenue, err := netCredit("511")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	cogs, err := netCredit("632")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cost of goods sold: %w", err)
	}
	financialRevenue, err := netCredit("515")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate financial revenue: %w", err)
	}
	financialExpense, err := netCredit("635")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate financial expense: %w", err)
	}
	adminExpense, err := netCredit("641", "642")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate administration expense: %w", err)
	}

	values := map[string]any{
		"Mã số 01": "1. Doanh thu bán hàng và cung cấp dịch vụ",
		"Mã số 02": "2. Các khoản giảm trừ doanh thu",
		"Mã số 10": "DOANH THU THUẦN",
		"Mã số 11": revenue,
		"Mã số 20": "2. Giá vốn hàng bán",
		"Mã số 21": cogs,
		"Mã số 50": "LỢI NHUẬN GỘP",
		"Mã số 60": "3. Doanh thu hoạt động tài chính",
		"Mã số 61": financialRevenue,
		"Mã số 70": "4. Chi phí tài chính",
		"Mã số 71": financialExpense,
		"Mã số 80": "5. Chi phí quản lý doanh nghiệp",
		"Mã số 81": adminExpense,
		"Mã số 90": "TỔNG LỢI NHUẬN KẾ TOÁN TRƯỚC THUẾ",
	}

	return &dto.FinancialStatementResponse{
		ReportType:   "INCOME_STATEMENT",
		ReportPeriod: fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		CompanyName:  s.company.Name,
		TaxCode:      s.company.TaxCode,
		Currency:     "VND",
		Values:       values,
	}, nil
}

// CashFlow builds the cash-flow statement skeleton. Line amounts are not yet
// derived; the statutory line structure is returned so report consumers can
// rely on a stable shape.
// TODO: derive operating-activity lines from cash-account (111, 112) movements.
func (s *ReportingService) CashFlow(ctx context.Context, companyCode string, from, to time.Time, method string) (*dto.FinancialStatementResponse, error) {
	values := map[string]any{
		"Mã số 20": "I. Lưu chuyển tiền từ hoạt động kinh doanh",
		"Mã số 21": "1. Tiền thu từ bán hàng, cung cấp dịch vụ",
		"Mã số 22": "2. Tiền chi trả cho người cung cấp hàng hóa",
		"Mã số 23": "3. Tiền chi trả cho người lao động",
		"Mã số 24": "4. Tiền chi trả lãi vay",
		"Mã số 30": "Lưu chuyển tiền thuần từ hoạt động kinh doanh",
		"Mã số 40": "II. Lưu chuyển tiền từ hoạt động đầu tư",
		"Mã số 50": "III. Lưu chuyển tiền từ hoạt động tài chính",
		"Mã số 60": "Lưu chuyển tiền thuần trong kỳ",
		"Mã số 70": "Tiền đầu kỳ",
		"Mã số 71": "Ảnh hưởng của thay đổi tỷ giá hối đoái",
		"Mã số 80": "Tiền cuối kỳ",
	}

	return &dto.FinancialStatementResponse{
		ReportType:   "CASH_FLOW",
		ReportPeriod: fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		CompanyName:  s.company.Name,
		TaxCode:      s.company.TaxCode,
		Currency:     "VND",
		Values:       values,
	}, nil
}
