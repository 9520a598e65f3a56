package shiftboard

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

// ListShifts fetches every page of shift assignments matching params and
// returns them alongside the deduplicated referenced objects.
func (s *Service) ListShifts(ctx context.Context, params map[string]any) (*domain.ShiftList, error) {
	acc, err := s.FetchAll(ctx, "shift.list", params)
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.RawShift, 0, len(acc.Records))
	for _, raw := range acc.Records {
		var shift domain.RawShift
		if err := json.Unmarshal(raw, &shift); err != nil {
			// Upstream data quality is outside our control; one bad record
			// must not sink the whole run.
			slog.Warn("skipping malformed shift record", "error", err)
			continue
		}
		shifts = append(shifts, shift)
	}

	return &domain.ShiftList{
		Shifts:     shifts,
		Referenced: acc.Referenced,
		Partial:    acc.Partial,
		Pages:      acc.Pages,
	}, nil
}

// ListAccounts fetches every page of accounts visible to the credentials.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	acc, err := s.FetchAll(ctx, "account.list", nil)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(acc.Records))
	for _, raw := range acc.Records {
		var account domain.Account
		if err := json.Unmarshal(raw, &account); err != nil {
			slog.Warn("skipping malformed account record", "error", err)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
