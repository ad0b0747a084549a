package routers

import (
	"net/http"

	"komornik/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses/group/{id}", expenses.GetGroupExpensesHandler)

	mux.HandleFunc("/expenses/{id}", expenses.GetExpenseByIdHandler)

	mux.HandleFunc("/expenses/{id}/update", expenses.UpdateExpenseHandler)

	mux.HandleFunc("/expenses/{id}/delete", expenses.DeleteExpenseHandler)

	return mux
}
