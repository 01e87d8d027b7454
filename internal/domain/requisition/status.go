package requisition

// RequestStatus is the workflow status of a submitted request
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusCompleted RequestStatus = "completed"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusDraft, RequestStatusPending, RequestStatusApproved, RequestStatusCompleted:
		return true
	}
	return false
}

func (s RequestStatus) String() string {
	return string(s)
}

// DeriveRequestStatus maps upstream flags to a status.
// Completion wins over approval, which wins over posting.
func DeriveRequestStatus(posted, approved, completed bool) RequestStatus {
	switch {
	case completed:
		return RequestStatusCompleted
	case approved:
		return RequestStatusApproved
	case posted:
		return RequestStatusPending
	default:
		return RequestStatusDraft
	}
}

// StatusSummary counts requests by status for the dashboard
type StatusSummary struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Completed int `json:"completed"`
}

// SummarizeStatuses counts headers by derived status
func SummarizeStatuses(headers []RequestHeader) StatusSummary {
	s := StatusSummary{Total: len(headers)}
	for _, h := range headers {
		switch h.Status() {
		case RequestStatusCompleted:
			s.Completed++
		case RequestStatusApproved:
			s.Approved++
		case RequestStatusPending:
			s.Pending++
		default:
			s.Draft++
		}
	}
	return s
}

// FilterByStatus returns the headers whose derived status is status.
// An empty status returns every header.
func FilterByStatus(headers []RequestHeader, status RequestStatus) []RequestHeader {
	if status == "" {
		return headers
	}
	out := make([]RequestHeader, 0, len(headers))
	for _, h := range headers {
		if h.Status() == status {
			out = append(out, h)
		}
	}
	return out
}
