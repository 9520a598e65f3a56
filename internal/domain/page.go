package domain

import "encoding/json"

// PageCursor is the opaque pagination position exchanged with the upstream
// API. Start is a 1-based record offset.
type PageCursor struct {
	Start int `json:"start"`
	Batch int `json:"batch"`
}

// PageMeta is the page block of an upstream list response. A missing Next
// means there are no further pages.
type PageMeta struct {
	This *PageCursor `json:"this,omitempty"`
	Next *PageCursor `json:"next,omitempty"`
}

// ReferencedSets holds the denormalized objects returned alongside primary
// results, deduplicated by id across pages.
type ReferencedSets struct {
	Accounts   []Account   `json:"account"`
	Workgroups []Workgroup `json:"workgroup"`
}

// Accumulated is the union of every page fetched during one pagination run.
// It lives for exactly one run and is never shared between runs.
type Accumulated struct {
	Records    []json.RawMessage
	Referenced ReferencedSets
	Partial    bool
	Pages      int
}
