package shiftboard

import (
	"fmt"
	"slices"
	"time"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

// Fallbacks applied before a grouping key is computed, so that two incomplete
// records with the same gaps still merge.
const (
	defaultShiftName = "Unnamed Shift"
	shiftTimeLayout  = "2006-01-02T15:04:05"
)

// normalizeShift fills in the schedule attributes a grouping key is built
// from. This is a leniency policy for incomplete upstream records, not a
// correctness guarantee.
func normalizeShift(shift domain.RawShift, now time.Time) domain.RawShift {
	if shift.Name == "" {
		shift.Name = defaultShiftName
	}
	if shift.LocalStartDate == "" {
		shift.LocalStartDate = now.Format(shiftTimeLayout)
	}
	if shift.LocalEndDate == "" {
		shift.LocalEndDate = now.Format(shiftTimeLayout)
	}
	return shift
}

func groupingKey(shift domain.RawShift) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		shift.Name, shift.LocalStartDate, shift.LocalEndDate, shift.Workgroup, shift.Subject, shift.Location)
}

// GroupShifts folds per-assignment records that describe the same shift
// occurrence into one entity carrying the assignee list and clock statuses.
//
// Output keeps the first-seen order of grouping keys. Within one group,
// AssignedPeople and ClockStatuses grow in lockstep while AssignedPersonNames
// only grows for members that resolve against accounts. A member already
// present in a group contributes nothing further.
func GroupShifts(shifts []domain.RawShift, accounts []domain.Account) []*domain.GroupedShift {
	names := make(map[string]string, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account.DisplayName()
	}

	now := time.Now()
	groups := make(map[string]*domain.GroupedShift, len(shifts))
	ordered := make([]*domain.GroupedShift, 0, len(shifts))

	for _, raw := range shifts {
		shift := normalizeShift(raw, now)
		key := groupingKey(shift)

		group, exists := groups[key]
		if !exists {
			group = &domain.GroupedShift{
				RawShift:            shift,
				AssignedPeople:      []string{},
				ClockStatuses:       []bool{shift.ClockedIn},
				AssignedPersonNames: []string{},
			}
			if shift.CoveringMember != "" {
				group.AssignedPeople = append(group.AssignedPeople, shift.CoveringMember)
				if name, ok := names[shift.CoveringMember]; ok {
					group.AssignedPersonNames = append(group.AssignedPersonNames, name)
				}
			}
			groups[key] = group
			ordered = append(ordered, group)
			continue
		}

		if shift.CoveringMember == "" || slices.Contains(group.AssignedPeople, shift.CoveringMember) {
			continue
		}

		group.AssignedPeople = append(group.AssignedPeople, shift.CoveringMember)
		group.ClockStatuses = append(group.ClockStatuses, shift.ClockedIn)
		if name, ok := names[shift.CoveringMember]; ok {
			group.AssignedPersonNames = append(group.AssignedPersonNames, name)
		}
	}

	return ordered
}
