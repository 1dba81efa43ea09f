package http

import (
	"net/http"
	"strconv"
	"strings"

	"budget/internal/core"
)

type createTransactionRequest struct {
	Title       string   `json:"title"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Description string   `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	filter := core.TransactionFilter{
		Type:     core.EntryType(strings.TrimSpace(r.URL.Query().Get("type"))),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	transactions, err := s.transactions.ListTransactions(ctx, filter)
	if err != nil {
		s.writeDomainError(ctx, w, "list_transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "Invalid request body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, KindValidation, "amount is required")
		return
	}

	t := core.Transaction{
		Title:       strings.TrimSpace(req.Title),
		Amount:      *req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Type:        core.EntryType(req.Type),
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Description: req.Description,
	}
	if err := t.Validate(); err != nil {
		s.writeDomainError(ctx, w, "create_transaction", err)
		return
	}

	created, err := s.transactions.CreateTransaction(ctx, t)
	if err != nil {
		s.writeDomainError(ctx, w, "create_transaction", err)
		return
	}

	s.logger.InfoContext(ctx, "Transaction created",
		"transaction_id", created.ID,
		"title", created.Title,
		"amount", created.Amount,
		"category", created.Category,
		"type", created.Type)

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "Invalid transaction id")
		return
	}

	t, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		s.writeDomainError(ctx, w, "get_transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "Invalid transaction id")
		return
	}

	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		s.writeDomainError(ctx, w, "delete_transaction", err)
		return
	}

	s.logger.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}
