package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"komornik/internal/models"
	"komornik/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — remind debtors of unpaid shares
	_, err := c.AddFunc("0 0 * * *", func() {
		err := SendReminderEmailsToDebtors(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debtor reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (debtor reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Send daily reminders to debtors of unpaid expenses
// -------------------------------------------------------------
func SendReminderEmailsToDebtors(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.email,
			u.name,
			g.name AS group_name,
			e.description AS expense_title,
			e.currency,
			e.date,
			SUM(s.amount_owed) AS total_owed
		FROM expense_splits s
		JOIN expenses e ON s.expense_id = e.id
		JOIN groups g ON e.group_id = g.id
		JOIN users u ON s.owed_by = u.id
		WHERE e.paid = FALSE AND s.owed_by != e.paid_by
		GROUP BY s.owed_by, e.id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, name, groupName, expenseTitle, currency string
			expenseDateRaw                                 sql.NullString
			totalOwed                                      decimal.Decimal
		)

		if err := rows.Scan(&email, &name, &groupName, &expenseTitle, &currency, &expenseDateRaw, &totalOwed); err != nil {
			utils.Logger.Errorf("Failed to scan debtor row: %v", err)
			continue
		}

		var expenseDate time.Time
		if expenseDateRaw.Valid {
			expenseDate, err = time.Parse("2006-01-02 15:04:05", expenseDateRaw.String)
			if err != nil {
				utils.Logger.Errorf("Failed to parse expense date for %s: %v", email, err)
				continue
			}
		} else {
			expenseDate = time.Now()
		}

		owed := models.NewMoney(totalOwed, models.Currency(currency))

		wg.Add(1)
		go func(email, name, groupName, expenseTitle string, owed models.Money, expenseDate time.Time) {
			defer wg.Done()

			if err := utils.SendDebtorReminderEmail(
				email,
				name,
				owed,
				groupName,
				expenseTitle,
				expenseDate,
			); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("📧 Sent reminder to %s (%s) — %s for '%s' in '%s'",
				name, email, owed, expenseTitle, groupName)
		}(email, name, groupName, expenseTitle, owed, expenseDate)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating debtor rows: %v", err)
		return err
	}

	utils.Logger.Info("✅ Finished sending all debtor reminder emails.")
	return nil
}
