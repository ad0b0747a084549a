package routers

import (
	"net/http"

	"komornik/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/login", auth.LoginHandler)

	mux.HandleFunc("/users/logout", auth.LogoutHandler)

	return mux
}
