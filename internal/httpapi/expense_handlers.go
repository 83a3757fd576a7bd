package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"expensa.org/internal/audit"
	"expensa.org/internal/auth"
	"expensa.org/internal/expense"
)

type createExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

func (a *API) handleExpensesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listExpenses(w, r)
	case http.MethodPost:
		a.createExpense(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleExpenseResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		a.deleteExpense(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodDelete)
	}
}

func (a *API) listExpenses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Token is not valid")
		return
	}

	list, err := a.expenses.ListByUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	if list == nil {
		list = []expense.Expense{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Token is not valid")
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, r, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	e := expense.Expense{
		UserID:   u.ID,
		Title:    strings.TrimSpace(req.Title),
		Amount:   req.Amount,
		Category: strings.TrimSpace(req.Category),
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be RFC 3339")
			return
		}
		e.Date = date.UTC()
	}

	if err := a.expenses.Create(r.Context(), &e); err != nil {
		if errors.Is(err, expense.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "invalid expense")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	_ = audit.LogEvent(r.Context(), "expense.created", map[string]any{
		"expense_id": e.ID,
		"amount":     e.Amount,
	})

	writeJSON(w, http.StatusCreated, e)
}

func (a *API) deleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Token is not valid")
		return
	}

	if err := a.expenses.Delete(r.Context(), u.ID, id); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Expense not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	_ = audit.LogEvent(r.Context(), "expense.deleted", map[string]any{
		"expense_id": id,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": "Expense deleted"})
}
