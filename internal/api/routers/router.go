package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	sRouter := settlementsRouter()
	mux.Handle("/settlements/", sRouter)

	return mux
}
