package expenses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"komornik/internal/models"
	"komornik/internal/repositories/expenserepo"
	"komornik/internal/repositories/sqlconnect"
	"komornik/pkg/utils"

	"github.com/shopspring/decimal"
)

type splitRequest struct {
	UserID     int             `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
}

type expenseRequest struct {
	GroupID     int             `json:"group_id"`
	PayerID     int             `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Splits      []splitRequest  `json:"splits"`
}

// validate rejects malformed expenses before they reach storage. The split
// sum must equal the expense amount so balances always net to zero per
// currency.
func (req *expenseRequest) validate() (models.Currency, string) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", "amount must be greater than 0"
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return "", "unsupported currency"
	}
	if len(req.Splits) == 0 {
		return "", "expense must have at least one split"
	}

	sum := decimal.Zero
	seen := make(map[int]bool)
	for _, split := range req.Splits {
		if split.AmountOwed.IsNegative() {
			return "", "split amounts cannot be negative"
		}
		if seen[split.UserID] {
			return "", "duplicate user in splits"
		}
		seen[split.UserID] = true
		sum = sum.Add(split.AmountOwed)
	}
	if !sum.Equal(req.Amount) {
		return "", "split amounts must add up to the expense amount"
	}

	return currency, ""
}

// FUNC TO CREATE EXPENSE WITH SPLITS
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := requesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req expenseRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	currency, problem := req.validate()
	if problem != "" {
		utils.WriteError(w, problem, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := expenserepo.New(db)

	exists, err := repo.GroupExists(ctx, req.GroupID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if !mustBeMember(ctx, w, repo, req.GroupID, userID) {
		return
	}

	expense := models.Expense{
		GroupID:     req.GroupID,
		Payer:       models.UserRef{ID: req.PayerID},
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    currency,
	}
	for _, split := range req.Splits {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			User:       models.UserRef{ID: split.UserID},
			AmountOwed: split.AmountOwed,
		})
	}

	if err := repo.Create(ctx, &expense); err != nil {
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense created",
		"data": map[string]interface{}{
			"expense_id": expense.ID,
			"amount":     expense.Amount,
			"currency":   expense.Currency,
			"splits":     len(expense.Splits),
		},
	})
}

// FUNC TO GET ALL UNPAID GROUP EXPENSES
func GetGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	groupID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := requesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := expenserepo.New(db)

	if !mustBeMember(ctx, w, repo, groupID, userID) {
		return
	}

	expenses, err := repo.FindUnpaidByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, expenserepo.ErrGroupNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"count":    len(expenses),
		"expenses": expenses,
	})
}

// FUNC TO GET ONE EXPENSE WITH ITS SPLITS
func GetExpenseByIdHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	userID, ok := requesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := expenserepo.New(db)

	expense, err := repo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, expenserepo.ErrExpenseNotFound) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if !mustBeMember(ctx, w, repo, expense.GroupID, userID) {
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   expense,
	})
}

// FUNC TO UPDATE EXPENSE AND RECREATE SPLITS
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	userID, ok := requesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req expenseRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	currency, problem := req.validate()
	if problem != "" {
		utils.WriteError(w, problem, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := expenserepo.New(db)

	expense, err := repo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, expenserepo.ErrExpenseNotFound) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if expense.Payer.ID != userID {
		utils.WriteError(w, "you are not authorized to edit this expense entry", http.StatusUnauthorized)
		return
	}

	if expense.Paid {
		utils.WriteError(w, "a settled expense cannot be edited", http.StatusConflict)
		return
	}

	if !mustBeMember(ctx, w, repo, expense.GroupID, userID) {
		return
	}

	expense.Description = req.Description
	expense.Amount = req.Amount
	expense.Currency = currency
	expense.Payer = models.UserRef{ID: req.PayerID}
	expense.Splits = nil
	for _, split := range req.Splits {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			User:       models.UserRef{ID: split.UserID},
			AmountOwed: split.AmountOwed,
		})
	}

	if err := repo.Update(ctx, expense); err != nil {
		utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense updated successfully",
		"data": map[string]interface{}{
			"expense_id": expense.ID,
			"new_amount": expense.Amount,
			"currency":   expense.Currency,
		},
	})
}

// FUNC TO DELETE EXPENSE AND RELATED SPLITS
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	userID, ok := requesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := expenserepo.New(db)

	expense, err := repo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, expenserepo.ErrExpenseNotFound) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if expense.Payer.ID != userID {
		utils.WriteError(w, "you are not authorized to delete this expense entry", http.StatusUnauthorized)
		return
	}

	if err := repo.Delete(ctx, expenseID); err != nil {
		utils.WriteError(w, "error deleting expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense deleted successfully",
	})
}

func requesterID(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

func mustBeMember(ctx context.Context, w http.ResponseWriter, repo *expenserepo.Repo, groupID, userID int) bool {
	isMember, err := repo.IsMember(ctx, groupID, userID)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return false
	}
	if !isMember {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return false
	}
	return true
}
