package handler

import (
	"hash/fnv"
	"strconv"

	"github.com/gin-gonic/gin"

	"novabank/internal/adapter/http/dto"
	"novabank/internal/core/domain"
	"novabank/internal/core/ports"
	"novabank/pkg/apperror"
	"novabank/pkg/response"
)

// LedgerHandler handles ledger state and mutation endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// GetLedger handles GET /api/v1/ledger.
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	snap := h.ledgerSvc.State(c.Request.Context())
	response.OK(c, dto.ToLedgerResponse(snap))
}

// ListAccounts handles GET /api/v1/ledger/accounts.
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	snap := h.ledgerSvc.State(c.Request.Context())
	accounts := make([]dto.AccountResponse, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		accounts = append(accounts, dto.ToAccountResponse(a))
	}
	response.OK(c, accounts)
}

// ListTransactions handles GET /api/v1/ledger/transactions.
// Entries come back newest first; ?limit=N truncates the list.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	snap := h.ledgerSvc.State(c.Request.Context())
	txs := snap.Transactions

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.Error(c, apperror.Validation("limit must be a non-negative integer"))
			return
		}
		if limit < len(txs) {
			txs = txs[:limit]
		}
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, dto.ToTransactionResponse(tx))
	}
	response.OK(c, dto.TransactionListResponse{
		Items: items,
		Total: len(snap.Transactions),
	})
}

// Topup handles POST /api/v1/ledger/accounts/:id/topup.
func (h *LedgerHandler) Topup(c *gin.Context) {
	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.ledgerSvc.Credit(c.Request.Context(), ports.CreditRequest{
		AccountID: c.Param("id"),
		Amount:    amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(*tx))
}

// Transfer handles POST /api/v1/ledger/transfers.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.ErrUnknownCurrency(req.Currency))
		return
	}

	svcReq := ports.TransferRequest{
		Currency:     currency,
		Amount:       amount,
		Counterparty: req.Counterparty,
	}
	if req.Fee != nil {
		fee, err := dto.ParseAmount(*req.Fee)
		if err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		svcReq.Fee = &fee
	}

	tx, err := h.ledgerSvc.Transfer(c.Request.Context(), svcReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(*tx))
}

// transferRecipients is the pool of display names resolved for transfers.
var transferRecipients = []string{
	"Мария П.", "Иван С.", "Ольга К.", "Дмитрий В.",
	"Анна М.", "Сергей Л.", "Елена Т.", "Павел Р.",
}

// VerifyRecipient handles POST /api/v1/ledger/transfers/verify.
// The recipient directory is simulated: the same phone number always
// resolves to the same display name.
func (h *LedgerHandler) VerifyRecipient(c *gin.Context) {
	var req dto.VerifyRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	hash := fnv.New32a()
	hash.Write([]byte(req.Phone))
	name := transferRecipients[hash.Sum32()%uint32(len(transferRecipients))]

	response.OK(c, dto.VerifyRecipientResponse{
		Phone: req.Phone,
		Name:  name,
	})
}

// Exchange handles POST /api/v1/ledger/exchange.
func (h *LedgerHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	from, err := domain.ParseCurrency(req.From)
	if err != nil {
		response.Error(c, apperror.ErrUnknownCurrency(req.From))
		return
	}
	to, err := domain.ParseCurrency(req.To)
	if err != nil {
		response.Error(c, apperror.ErrUnknownCurrency(req.To))
		return
	}

	tx, err := h.ledgerSvc.Exchange(c.Request.Context(), ports.ExchangeRequest{
		From:   from,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(*tx))
}

// Reset handles POST /api/v1/ledger/reset.
func (h *LedgerHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.ledgerSvc.Reset(c.Request.Context(), req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToLedgerResponse(h.ledgerSvc.State(c.Request.Context())))
}

// UpdateName handles PUT /api/v1/ledger/name.
func (h *LedgerHandler) UpdateName(c *gin.Context) {
	var req dto.UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.ledgerSvc.SetUserName(c.Request.Context(), req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user_name": req.Name})
}
