package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	portssvc "github.com/nmoratal-dev/bank-ledger-api/internal/core/ports/services"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
	"github.com/nmoratal-dev/bank-ledger-api/internal/middleware"
	"github.com/nmoratal-dev/bank-ledger-api/internal/utils/pagination"
)

// spreadsheetContentTypes lists the upload content types accepted by the
// statement import endpoint. Only OOXML workbooks (.xlsx) are supported; the
// legacy BIFF .xls type is rejected up front because the extractor cannot
// read that container.
var spreadsheetContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvc
	maxImportBytes     int64
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvc, maxImportBytes int64) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		maxImportBytes:     maxImportBytes,
	}
}

// registerTransactionRoutes registers the statement import route and the
// account-scoped transaction routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvc, maxImportBytes int64) {
	h := newTransactionHandler(ts, maxImportBytes)

	rg.POST("/transactions/import", h.importStatement)

	transactions := rg.Group("/accounts/:account_number/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.PUT("/:transaction_id", h.updateTransaction)
		transactions.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

// importStatement ingests an uploaded bank statement spreadsheet. The account
// is created from the statement header when unseen, and rows already persisted
// are counted as duplicates, so re-uploading the same file is harmless.
func (h *transactionHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing statement file in import request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file: expected multipart field 'file'"})
		return
	}
	if fileHeader.Size > h.maxImportBytes {
		logger.Warn("Statement file too large", slog.Int64("size", fileHeader.Size))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Statement file too large"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !spreadsheetContentTypes[contentType] {
		logger.Warn("Rejected non-spreadsheet upload", slog.String("content_type", contentType))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported content type: expected an xlsx spreadsheet"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	result, err := h.transactionService.ImportStatement(c.Request.Context(), contents)
	resp := dto.ImportResultResponse{
		AccountNumber: result.AccountNumber,
		Imported:      result.Imported,
		Duplicates:    result.Duplicates,
	}
	if err != nil {
		resp.Error = err.Error()
		switch {
		case errors.Is(err, apperrors.ErrUnsupportedFormat), errors.Is(err, apperrors.ErrParse),
			errors.Is(err, apperrors.ErrInvalidDateFormat), errors.Is(err, apperrors.ErrInvalidNumberFormat):
			logger.Warn("Statement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, resp)
		default:
			// Partial counters stay in the body so the caller can see how far
			// the import got before retrying.
			logger.Error("Statement import failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, resp)
		}
		return
	}

	logger.Info("Statement imported",
		slog.String("account_number", result.AccountNumber),
		slog.Int("imported", result.Imported),
		slog.Int("duplicates", result.Duplicates))
	c.JSON(http.StatusCreated, resp)
}

// listTransactions returns one page of an account's transactions, optionally
// with statistics computed over the full filtered set.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("account_number")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filters, err := buildListFilters(params)
	if err != nil {
		logger.Warn("Invalid listing filters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := domain.ListQuery{
		Filters:        filters,
		OrderBy:        params.OrderBy,
		OrderDirection: domain.OrderDirection(params.OrderDirection),
		Limit:          &params.Limit,
		Offset:         &params.Offset,
		WithStatistics: params.Statistics,
	}

	page, err := h.transactionService.ListTransactions(c.Request.Context(), accountNumber, query)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for listing", slog.String("account_number", accountNumber))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	resp := dto.ListTransactionsResponse{
		Data:       dto.ToListTransactionResponse(page.Transactions),
		Total:      page.TotalCount,
		FromDate:   page.FromDate,
		ToDate:     page.ToDate,
		Links:      pagination.BuildLinks(c.Request.URL.Path, c.Request.URL.Query(), params.Limit, params.Offset, page.TotalCount),
		Statistics: page.Statistics,
	}
	c.JSON(http.StatusOK, resp)
}

// buildListFilters translates the listing query parameters into declarative
// filters. Single-value and range parameters for the same field are mutually
// exclusive, and range parameters must come as a pair.
func buildListFilters(params dto.ListTransactionsParams) ([]domain.Filter, error) {
	var filters []domain.Filter

	if params.Concept != "" {
		filters = append(filters, domain.Filter{Field: "concept", Operator: domain.FilterContains, Value: params.Concept})
	}

	hasAmountRange := params.AmountStartRange != nil || params.AmountEndRange != nil
	if hasAmountRange && (params.AmountStartRange == nil || params.AmountEndRange == nil) {
		return nil, errors.New("amount_start_range and amount_end_range must be provided together")
	}
	if params.Amount != nil && hasAmountRange {
		return nil, errors.New("amount and amount range parameters are mutually exclusive")
	}
	if params.Amount != nil {
		filters = append(filters, domain.Filter{Field: "amount", Operator: domain.FilterEq, Value: *params.Amount})
	}
	if hasAmountRange {
		filters = append(filters,
			domain.Filter{Field: "amount", Operator: domain.FilterGte, Value: *params.AmountStartRange},
			domain.Filter{Field: "amount", Operator: domain.FilterLte, Value: *params.AmountEndRange},
		)
	}

	hasDateRange := params.OperationStartRangeDate != "" || params.OperationEndRangeDate != ""
	if hasDateRange && (params.OperationStartRangeDate == "" || params.OperationEndRangeDate == "") {
		return nil, errors.New("operation_start_range_date and operation_end_range_date must be provided together")
	}
	if params.OperationDate != "" && hasDateRange {
		return nil, errors.New("operation_date and operation date range parameters are mutually exclusive")
	}
	if params.OperationDate != "" {
		if err := validateDateParam(params.OperationDate); err != nil {
			return nil, err
		}
		filters = append(filters, domain.Filter{Field: "operation_original_date", Operator: domain.FilterEq, Value: params.OperationDate})
	}
	if hasDateRange {
		if err := validateDateParam(params.OperationStartRangeDate); err != nil {
			return nil, err
		}
		if err := validateDateParam(params.OperationEndRangeDate); err != nil {
			return nil, err
		}
		filters = append(filters,
			domain.Filter{Field: "operation_original_date", Operator: domain.FilterGte, Value: params.OperationStartRangeDate},
			domain.Filter{Field: "operation_original_date", Operator: domain.FilterLte, Value: params.OperationEndRangeDate},
		)
	}

	return filters, nil
}

func validateDateParam(value string) error {
	if _, err := time.Parse(domain.DateFormat, value); err != nil {
		return errors.New("invalid date parameter, expected YYYY-MM-DD: " + value)
	}
	return nil
}

// getTransaction retrieves a single transaction scoped to an account.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("account_number")
	transactionID := c.Param("transaction_id")
	if _, err := uuid.Parse(transactionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), accountNumber, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createTransaction persists a manually entered transaction for the account.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("account_number")

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), accountNumber, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already exists"})
		case errors.Is(err, apperrors.ErrInvalidDateFormat), errors.Is(err, apperrors.ErrInvalidNumberFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateTransaction replaces the mutable fields of an existing transaction.
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("account_number")
	transactionID := c.Param("transaction_id")
	if _, err := uuid.Parse(transactionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	err := h.transactionService.UpdateTransaction(c.Request.Context(), accountNumber, transactionID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Another transaction already has these values"})
		case errors.Is(err, apperrors.ErrInvalidDateFormat), errors.Is(err, apperrors.ErrInvalidNumberFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		}
		return
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// deleteTransaction removes a transaction scoped to an account.
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("account_number")
	transactionID := c.Param("transaction_id")
	if _, err := uuid.Parse(transactionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), accountNumber, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		}
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}
