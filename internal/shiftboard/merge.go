package shiftboard

import "github.com/shiftwatch/dashboard/backend/internal/domain"

// refMerger deduplicates referenced objects across pages by id. The first
// variant of a duplicated id wins; later pages never overwrite it, so the
// merge is idempotent and order-insensitive with respect to membership.
type refMerger struct {
	accounts   map[string]struct{}
	workgroups map[string]struct{}
}

func newRefMerger() *refMerger {
	return &refMerger{
		accounts:   make(map[string]struct{}),
		workgroups: make(map[string]struct{}),
	}
}

func (m *refMerger) merge(dst *domain.ReferencedSets, page domain.ReferencedSets) {
	dst.Accounts = appendNew(dst.Accounts, m.accounts, page.Accounts, func(a domain.Account) string { return a.ID })
	dst.Workgroups = appendNew(dst.Workgroups, m.workgroups, page.Workgroups, func(w domain.Workgroup) string { return w.ID })
}

func appendNew[T any](dst []T, seen map[string]struct{}, src []T, id func(T) string) []T {
	for _, obj := range src {
		key := id(obj)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, obj)
	}
	return dst
}
