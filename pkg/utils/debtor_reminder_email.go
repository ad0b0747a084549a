package utils

import (
	"fmt"
	"time"

	"komornik/internal/models"
)

func SendDebtorReminderEmail(to, name string, owed models.Money, groupName, expenseTitle string, expenseDate time.Time) error {
	subject := fmt.Sprintf("💰 Reminder: You Still Owe %s for '%s'", owed, expenseTitle)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Payment Reminder</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; border-top: 5px solid #d9534f; overflow: hidden; }
		.header { background-color: #d9534f; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #fff6f6; border: 1px solid #f1c1c1; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; }
		.amount-box h3 { margin: 0; color: #d9534f; font-size: 16px; font-weight: 700; }
		.footer { text-align: center; font-size: 11px; color: #999; padding: 12px; }
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header"><h1>Payment Reminder</h1></div>
		<div class="content">
			<p>Hi %s,</p>
			<p>You still have an outstanding share of <strong>'%s'</strong> (added on %s) in the group <strong>%s</strong>.</p>
			<div class="amount-box"><h3>%s</h3></div>
			<p>Open the group to see the suggested transfers and settle up.</p>
		</div>
		<div class="footer">This is an automated reminder about your unpaid group expenses.</div>
	</div>
	</body>
	</html>`, name, expenseTitle, expenseDate.Format("02 Jan 2006"), groupName, owed)

	return SendEmail(to, subject, body)
}
