package utils

import (
	"fmt"
	"time"
)

func SendGroupSettledEmail(to, name, groupName string, settledAt time.Time) error {
	subject := fmt.Sprintf("✅ Group '%s' has been settled", groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Group Settled</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; border-top: 5px solid #5cb85c; overflow: hidden; }
		.header { background-color: #5cb85c; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.footer { text-align: center; font-size: 11px; color: #999; padding: 12px; }
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header"><h1>All Settled!</h1></div>
		<div class="content">
			<p>Hi %s,</p>
			<p>All expenses in the group <strong>%s</strong> were marked as settled on %s. New expenses start a fresh balance sheet.</p>
		</div>
		<div class="footer">You are receiving this because you are a member of %s.</div>
	</div>
	</body>
	</html>`, name, groupName, settledAt.Format("02 Jan 2006 15:04"), groupName)

	return SendEmail(to, subject, body)
}
