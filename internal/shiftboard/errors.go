package shiftboard

import "fmt"

// UpstreamError reports a failed call to the upstream API, either a transport
// failure or an explicit error payload in the response envelope. The upstream
// message is carried through unchanged.
type UpstreamError struct {
	Method  string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream call %s failed: %s", e.Method, e.Message)
}

// InvalidResponseShapeError reports a page response that lacks the expected
// primary record container. Accumulation cannot safely continue past it.
type InvalidResponseShapeError struct {
	Method    string
	Container string
}

func (e *InvalidResponseShapeError) Error() string {
	return fmt.Sprintf("upstream response for %s is missing the %q container", e.Method, e.Container)
}

// PageLimitExceededError reports that the upstream declared more total pages
// than the safety ceiling allows, detected before over-fetching.
type PageLimitExceededError struct {
	Method     string
	TotalPages int
}

func (e *PageLimitExceededError) Error() string {
	return fmt.Sprintf("upstream declares %d pages for %s, above the limit of %d", e.TotalPages, e.Method, MaxPages)
}
