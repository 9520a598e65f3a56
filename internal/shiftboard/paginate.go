package shiftboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

const (
	// MaxPages is the safety ceiling on how many pages one run may fetch.
	MaxPages = 100

	// DefaultBatch is the page size requested from the upstream API.
	DefaultBatch = 100
)

// Service drives paginated fetches against the upstream API and folds the
// per-page results into one deduplicated accumulation. All accumulator state
// is local to a single run, so a Service is safe for concurrent use.
type Service struct {
	client Caller
}

func NewService(client Caller) *Service {
	return &Service{client: client}
}

// page is one decoded upstream page: the primary record array plus the
// metadata and referenced objects travelling alongside it.
type page struct {
	Records    []json.RawMessage
	Referenced domain.ReferencedSets
	Meta       *domain.PageMeta
	Count      int
}

// containerKey names the array holding a method family's primary records,
// following the upstream convention (shift.list → shifts).
func containerKey(method string) string {
	family, _, _ := strings.Cut(method, ".")
	return family + "s"
}

// fetchPage issues one signed call with the given cursor and decodes the
// resulting page. A result without the expected container is a shape error.
func (s *Service) fetchPage(ctx context.Context, method string, baseParams map[string]any, cursor *domain.PageCursor) (*page, error) {
	params := make(map[string]any, len(baseParams)+1)
	for k, v := range baseParams {
		params[k] = v
	}
	if cursor != nil {
		params["page"] = cursor
	}

	result, err := s.client.Call(ctx, method, params)
	if err != nil {
		return nil, err
	}

	container := containerKey(method)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(result, &body); err != nil {
		return nil, &InvalidResponseShapeError{Method: method, Container: container}
	}

	raw, ok := body[container]
	if !ok {
		return nil, &InvalidResponseShapeError{Method: method, Container: container}
	}

	pg := &page{}
	if err := json.Unmarshal(raw, &pg.Records); err != nil {
		return nil, &InvalidResponseShapeError{Method: method, Container: container}
	}
	if raw, ok := body["page"]; ok {
		if err := json.Unmarshal(raw, &pg.Meta); err != nil {
			return nil, &InvalidResponseShapeError{Method: method, Container: "page"}
		}
	}
	if raw, ok := body["count"]; ok {
		// A malformed count only disables the fast-fail guard below.
		_ = json.Unmarshal(raw, &pg.Count)
	}
	if raw, ok := body["referenced_objects"]; ok {
		if err := json.Unmarshal(raw, &pg.Referenced); err != nil {
			return nil, &InvalidResponseShapeError{Method: method, Container: "referenced_objects"}
		}
	}

	return pg, nil
}

// FetchAll walks every page of a list method and returns the accumulated,
// deduplicated union. Pages are fetched strictly one at a time because the
// cursor for page N+1 only exists in page N's response. Any page error aborts
// the whole run; the only partial outcome is hitting the page ceiling, which
// is reported through the Partial flag instead of an error.
func (s *Service) FetchAll(ctx context.Context, method string, baseParams map[string]any) (*domain.Accumulated, error) {
	cursor := &domain.PageCursor{Start: 1, Batch: DefaultBatch}
	acc := &domain.Accumulated{}
	merger := newRefMerger()

	for {
		acc.Pages++

		pg, err := s.fetchPage(ctx, method, baseParams, cursor)
		if err != nil {
			return nil, err
		}

		acc.Records = append(acc.Records, pg.Records...)
		merger.merge(&acc.Referenced, pg.Referenced)

		if total := declaredPages(pg); total > MaxPages {
			return nil, &PageLimitExceededError{Method: method, TotalPages: total}
		}

		// No page metadata at all means a single-page response.
		if pg.Meta == nil || pg.Meta.Next == nil {
			return acc, nil
		}

		if acc.Pages >= MaxPages {
			slog.Warn("page ceiling reached, returning partial result", "method", method, "pages", acc.Pages)
			acc.Partial = true
			return acc, nil
		}

		// The next cursor is taken verbatim from the response, never
		// recomputed, and never reused once consumed.
		cursor = pg.Meta.Next
	}
}

// declaredPages derives the total page count the upstream claims, or 0 when
// it does not report one.
func declaredPages(pg *page) int {
	if pg.Count <= 0 || pg.Meta == nil || pg.Meta.This == nil || pg.Meta.This.Batch <= 0 {
		return 0
	}
	return (pg.Count + pg.Meta.This.Batch - 1) / pg.Meta.This.Batch
}

// FetchPages fetches a known span of pages concurrently. It exists for the
// rare case where the total page count is known up front; the sequential
// FetchAll is the default path. Results are concatenated in page order, not
// completion order, and any single page failure fails the whole batch.
func (s *Service) FetchPages(ctx context.Context, method string, baseParams map[string]any, totalPages int) (*domain.Accumulated, error) {
	if totalPages > MaxPages {
		return nil, &PageLimitExceededError{Method: method, TotalPages: totalPages}
	}
	if totalPages < 1 {
		totalPages = 1
	}

	pages := make([]*page, totalPages)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < totalPages; i++ {
		i := i
		g.Go(func() error {
			cursor := &domain.PageCursor{Start: i*DefaultBatch + 1, Batch: DefaultBatch}
			pg, err := s.fetchPage(gctx, method, baseParams, cursor)
			if err != nil {
				return err
			}
			pages[i] = pg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := &domain.Accumulated{Pages: totalPages}
	merger := newRefMerger()
	for _, pg := range pages {
		acc.Records = append(acc.Records, pg.Records...)
		merger.merge(&acc.Referenced, pg.Referenced)
	}

	return acc, nil
}
