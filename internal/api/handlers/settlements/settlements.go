package settlements

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"komornik/internal/exchange"
	"komornik/internal/repositories/expenserepo"
	"komornik/internal/repositories/raterepo"
	"komornik/internal/repositories/sqlconnect"
	"komornik/internal/settlement"
	"komornik/pkg/utils"
)

// FUNC TO GET THE SETTLEMENT PLAN FOR A GROUP
func GetGroupSettlementHandler(w http.ResponseWriter, r *http.Request) {
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

	recalculate := r.URL.Query().Get("recalculate") == "true"

	// Recalculation may hit the NBP API with up to 5 dated retries per
	// currency, so it gets a longer deadline than plain reads.
	timeout := 5 * time.Second
	if recalculate {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	repo := expenserepo.New(db)

	if !mustBeMember(ctx, w, repo, groupID, userID) {
		return
	}

	converter := exchange.NewConverter(raterepo.New(db), exchange.NewNBPClient())
	service := settlement.NewService(repo, converter)

	views, err := service.GetSettlementViews(ctx, groupID, recalculate)
	if err != nil {
		if errors.Is(err, expenserepo.ErrGroupNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, exchange.ErrRateUnavailable) {
			utils.WriteError(w, "exchange rate unavailable, cannot recalculate", http.StatusBadGateway)
			return
		}
		utils.Logger.Errorf("failed to compute settlements for group %d: %v", groupID, err)
		utils.WriteError(w, "failed to compute settlements", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":      "success",
		"group_id":    groupID,
		"recalculate": recalculate,
		"count":       len(views),
		"settlements": views,
	})
}

// FUNC TO MARK ALL GROUP EXPENSES AS PAID
func SettleGroupHandler(w http.ResponseWriter, r *http.Request) {
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

	service := settlement.NewService(repo, nil)
	if err := service.SettleGroup(ctx, groupID); err != nil {
		if errors.Is(err, expenserepo.ErrGroupNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to settle group %d: %v", groupID, err)
		utils.WriteError(w, "failed to settle group", http.StatusInternalServerError)
		return
	}

	var groupName string
	db.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", groupID).Scan(&groupName)

	members, err := repo.Members(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to load members of group %d for notification: %v", groupID, err)
	}

	go func() {
		settledAt := time.Now()
		for _, member := range members {
			if err := utils.SendGroupSettledEmail(member.Email, member.Name, groupName, settledAt); err != nil {
				utils.Logger.Errorf("failed to send settled notice to %s: %v", member.Email, err)
			}
		}
	}()

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "all group expenses marked as paid",
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
