package http

import "net/http"

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	summary, err := s.budget.BudgetSummary(ctx)
	if err != nil {
		s.writeDomainError(ctx, w, "budget_summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategorySpending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	spending, err := s.budget.CategorySpending(ctx)
	if err != nil {
		s.writeDomainError(ctx, w, "category_spending", err)
		return
	}
	writeJSON(w, http.StatusOK, spending)
}
