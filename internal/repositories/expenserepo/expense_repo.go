package expenserepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"komornik/internal/models"
	"komornik/pkg/utils"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrExpenseNotFound = errors.New("expense not found")
)

// Repo persists expenses and their splits. One expense row owns N split
// rows; splits are deleted and recreated on edit, never updated in place.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// GroupExists reports whether the group is present at all, so handlers can
// tell "no such group" apart from "group with no expenses".
func (r *Repo) GroupExists(ctx context.Context, groupID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check group")
	}
	return exists, nil
}

func (r *Repo) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", groupID, userID).Scan(&exists)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to verify group membership")
	}
	return exists, nil
}

// Members returns name and e-mail of everyone in the group, for
// notifications after a settle-up.
func (r *Repo) Members(ctx context.Context, groupID int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.group_id = ?
	`, groupID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch group members")
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, utils.ErrorHandler(err, "error reading group members")
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

// FindUnpaidByGroup loads the group's unpaid expenses with payer refs and
// splits, newest first. Paid expenses are excluded here so the settlement
// engine never sees them.
func (r *Repo) FindUnpaidByGroup(ctx context.Context, groupID int) ([]models.Expense, error) {
	exists, err := r.GroupExists(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	query := `
		SELECT e.id, e.group_id, e.paid_by, u.name, e.description, e.amount, e.currency, e.date, e.paid
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = ? AND e.paid = FALSE
		ORDER BY e.date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to retrieve expenses")
	}
	defer rows.Close()

	var expenses []models.Expense
	var ids []any
	for rows.Next() {
		var e models.Expense
		var currency string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Payer.ID, &e.Payer.Name, &e.Description, &e.Amount, &currency, &e.Date, &e.Paid); err != nil {
			return nil, utils.ErrorHandler(err, "error reading expenses")
		}
		e.Currency = models.Currency(currency)
		expenses = append(expenses, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "error finalizing expenses read")
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	splitsByExpense, err := r.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Splits = splitsByExpense[expenses[i].ID]
	}

	return expenses, nil
}

func (r *Repo) loadSplits(ctx context.Context, expenseIDs []any) (map[int][]models.ExpenseSplit, error) {
	placeholders := ""
	for i := range expenseIDs {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.expense_id, s.owed_by, u.name, s.amount_owed
		FROM expense_splits s
		JOIN users u ON s.owed_by = u.id
		WHERE s.expense_id IN (%s)
	`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, expenseIDs...)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to retrieve expense splits")
	}
	defer rows.Close()

	splits := make(map[int][]models.ExpenseSplit)
	for rows.Next() {
		var s models.ExpenseSplit
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.User.ID, &s.User.Name, &s.AmountOwed); err != nil {
			return nil, utils.ErrorHandler(err, "error reading expense splits")
		}
		splits[s.ExpenseID] = append(splits[s.ExpenseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "error finalizing splits read")
	}

	return splits, nil
}

// SaveAll writes the paid flag of every expense in one transaction. Either
// the whole batch flips or none of it does.
func (r *Repo) SaveAll(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(err, "failed to start transaction")
	}

	stmt, err := tx.PrepareContext(ctx, "UPDATE expenses SET paid = ? WHERE id = ?")
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, e := range expenses {
		if _, err := stmt.ExecContext(ctx, e.Paid, e.ID); err != nil {
			tx.Rollback()
			return utils.ErrorHandler(err, "failed to update expense")
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit transaction")
	}
	return nil
}

// Create inserts an expense and its splits in one transaction.
func (r *Repo) Create(ctx context.Context, expense *models.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(err, "failed to start transaction")
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (group_id, paid_by, description, amount, currency, date, paid) VALUES (?, ?, ?, ?, ?, ?, FALSE)",
		expense.GroupID, expense.Payer.ID, expense.Description, expense.Amount, string(expense.Currency), time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to create expense")
	}

	expenseID, _ := res.LastInsertId()
	expense.ID = int(expenseID)

	if err := insertSplits(ctx, tx, expense); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit transaction")
	}
	return nil
}

// Update rewrites an expense and recreates its splits.
func (r *Repo) Update(ctx context.Context, expense *models.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(err, "failed to start transaction")
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount = ?, currency = ?, paid_by = ? WHERE id = ?",
		expense.Description, expense.Amount, string(expense.Currency), expense.Payer.ID, expense.ID)
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "error updating expense")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to reset splits")
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit transaction")
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO expense_splits (expense_id, owed_by, amount_owed) VALUES (?, ?, ?)")
	if err != nil {
		return utils.ErrorHandler(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, split := range expense.Splits {
		if _, err := stmt.ExecContext(ctx, expense.ID, split.User.ID, split.AmountOwed); err != nil {
			return utils.ErrorHandler(err, "failed to create expense split")
		}
	}
	return nil
}

// FindByID loads one expense with its splits.
func (r *Repo) FindByID(ctx context.Context, expenseID int) (*models.Expense, error) {
	var e models.Expense
	var currency string
	err := r.db.QueryRowContext(ctx, `
		SELECT e.id, e.group_id, e.paid_by, u.name, e.description, e.amount, e.currency, e.date, e.paid
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.id = ?
	`, expenseID).Scan(&e.ID, &e.GroupID, &e.Payer.ID, &e.Payer.Name, &e.Description, &e.Amount, &currency, &e.Date, &e.Paid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrExpenseNotFound
		}
		return nil, utils.ErrorHandler(err, "failed to retrieve expense")
	}
	e.Currency = models.Currency(currency)

	splits, err := r.loadSplits(ctx, []any{e.ID})
	if err != nil {
		return nil, err
	}
	e.Splits = splits[e.ID]

	return &e, nil
}

// Delete removes an expense; split rows go with it via the FK cascade.
func (r *Repo) Delete(ctx context.Context, expenseID int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return utils.ErrorHandler(err, "error deleting expense")
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
