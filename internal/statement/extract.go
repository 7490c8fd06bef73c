// Package statement parses the spreadsheet export produced by the bank's
// online portal: a single sheet with no header row and a fixed cell layout
// (account number at row 2 / column C, holder and balance at row 4,
// transaction rows from row 10 to the end of the sheet). Only OOXML
// workbooks (.xlsx) are readable; legacy BIFF .xls files are reported as
// ErrUnsupportedFormat.
package statement

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
)

// firstTransactionRow is the 0-based index of the first transaction row.
const firstTransactionRow = 9

// Row is one raw transaction line from the sheet, cells in file order.
// Dates are DD/MM/YYYY strings; amount and balance are numeric strings.
type Row struct {
	OperationOriginalDate  string
	OperationEffectiveDate string
	Concept                string
	Amount                 string
	Balance                string
}

// Statement is the parsed content of an uploaded statement file.
type Statement struct {
	AccountNumber string
	AccountHolder string
	Balance       decimal.Decimal // Account balance from the header block
	Rows          []Row
}

// Extract parses raw spreadsheet bytes into account metadata and the ordered
// raw row set. It fails with apperrors.ErrUnsupportedFormat when the bytes are
// not a readable workbook and with apperrors.ErrParse when the fixed cells are
// absent or malformed.
func Extract(contents []byte) (*Statement, error) {
	f, err := excelize.OpenReader(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrUnsupportedFormat)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", apperrors.ErrParse, sheet, err)
	}

	accountNumber := cell(rows, 1, 2)
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: account number cell is empty", apperrors.ErrParse)
	}
	accountHolder := cell(rows, 3, 2)
	if accountHolder == "" {
		return nil, fmt.Errorf("%w: account holder cell is empty", apperrors.ErrParse)
	}
	balance, err := parseStatementAmount(cell(rows, 3, 3))
	if err != nil {
		return nil, fmt.Errorf("%w: account balance cell: %v", apperrors.ErrParse, err)
	}

	stmt := &Statement{
		AccountNumber: accountNumber,
		AccountHolder: accountHolder,
		Balance:       balance,
	}
	for i := firstTransactionRow; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		if len(rows[i]) < 5 {
			return nil, fmt.Errorf("%w: transaction row %d has %d cells, want 5", apperrors.ErrParse, i+1, len(rows[i]))
		}
		stmt.Rows = append(stmt.Rows, Row{
			OperationOriginalDate:  rows[i][0],
			OperationEffectiveDate: rows[i][1],
			Concept:                rows[i][2],
			Amount:                 rows[i][3],
			Balance:                rows[i][4],
		})
	}
	return stmt, nil
}

// cell returns the trimmed value at the given 0-based coordinates, or "" when
// the sheet is too small. GetRows trims trailing empty cells per row.
func cell(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return strings.TrimSpace(rows[r][c])
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseStatementAmount parses the header balance cell, formatted by the bank
// as "1.234,56 EUR": a currency suffix, dots as thousands separators and a
// comma as the decimal separator.
func parseStatementAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount cell")
	}
	cleaned := strings.TrimSpace(strings.TrimSuffix(raw, " EUR"))
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return value, nil
}
