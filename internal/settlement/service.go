package settlement

import (
	"context"
	"fmt"

	"komornik/internal/models"
)

// ExpenseStore is what the engine needs from persistence: the unpaid
// expenses of a group and a way to write a batch of them back atomically.
type ExpenseStore interface {
	FindUnpaidByGroup(ctx context.Context, groupID int) ([]models.Expense, error)
	SaveAll(ctx context.Context, expenses []models.Expense) error
}

type Service struct {
	store     ExpenseStore
	converter RateConverter
}

func NewService(store ExpenseStore, converter RateConverter) *Service {
	return &Service{store: store, converter: converter}
}

// ProcessSettlementsForGroup computes the minimal transfer plan for a
// group's unpaid expenses. With recalculate=false the plan is per currency;
// with recalculate=true all settlements are additionally consolidated into
// the base currency.
func (s *Service) ProcessSettlementsForGroup(ctx context.Context, groupID int, recalculate bool) ([]models.Settlement, error) {
	expenses, err := s.store.FindUnpaidByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := AggregateBalances(expenses)
	if err != nil {
		return nil, fmt.Errorf("aggregating balances for group %d: %w", groupID, err)
	}

	var settlements []models.Settlement
	for currency, perUser := range balances {
		settlements = append(settlements, MinimizeTransfers(perUser, currency)...)
	}

	if !recalculate {
		return settlements, nil
	}

	return ConsolidateToBase(ctx, settlements, s.converter)
}

// GetSettlementViews is ProcessSettlementsForGroup shaped for the HTTP
// layer: user names instead of refs.
func (s *Service) GetSettlementViews(ctx context.Context, groupID int, recalculate bool) ([]models.SettlementView, error) {
	settlements, err := s.ProcessSettlementsForGroup(ctx, groupID, recalculate)
	if err != nil {
		return nil, err
	}

	views := make([]models.SettlementView, 0, len(settlements))
	for _, st := range settlements {
		views = append(views, models.SettlementView{
			From:     st.From.Name,
			To:       st.To.Name,
			Amount:   st.Amount,
			Currency: string(st.Currency),
		})
	}
	return views, nil
}

// SettleGroup marks every unpaid expense of the group as paid in one batch.
// Paid expenses stop contributing to balance computations; the flag is never
// flipped back. Calling twice is harmless: the second call finds nothing
// unpaid and writes nothing.
func (s *Service) SettleGroup(ctx context.Context, groupID int) error {
	expenses, err := s.store.FindUnpaidByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		return nil
	}

	for i := range expenses {
		expenses[i].Paid = true
	}

	return s.store.SaveAll(ctx, expenses)
}
