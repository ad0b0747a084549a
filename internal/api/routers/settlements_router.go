package routers

import (
	"net/http"

	"komornik/internal/api/handlers/settlements"
)

func settlementsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/{id}/group", settlements.GetGroupSettlementHandler)

	mux.HandleFunc("/settlements/{id}/settle", settlements.SettleGroupHandler)

	return mux
}
