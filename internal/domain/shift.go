package domain

// RawShift is one person's assignment to one shift occurrence, exactly as the
// upstream API returns it. The date fields are local-time strings and are
// never converted to UTC.
type RawShift struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LocalStartDate string `json:"local_start_date"`
	LocalEndDate   string `json:"local_end_date"`
	Workgroup      string `json:"workgroup"`
	Subject        string `json:"subject"`
	Location       string `json:"location"`
	CoveringMember string `json:"covering_member,omitempty"`
	ClockedIn      bool   `json:"clocked_in,omitempty"`
}

// GroupedShift is one shift occurrence folded together from every RawShift
// that shares its schedule attributes. AssignedPeople and ClockStatuses are
// index-aligned (same index = same person). AssignedPersonNames only carries
// names that resolved against the account list, so it may be shorter than the
// other two.
type GroupedShift struct {
	RawShift
	AssignedPeople      []string `json:"assignedPeople"`
	ClockStatuses       []bool   `json:"clockStatuses"`
	AssignedPersonNames []string `json:"assignedPersonNames"`
}

// ShiftList is the outcome of one full shift.list pagination run.
type ShiftList struct {
	Shifts     []RawShift     `json:"shifts"`
	Referenced ReferencedSets `json:"referencedObjects"`
	Partial    bool           `json:"partial"`
	Pages      int            `json:"pages"`
}
