package requisition

import (
	"strings"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used on the wire
const DateLayout = "2006-01-02"

// RequestedLeadDays is how far after the document date the default requested date falls
const RequestedLeadDays = 3

// DraftState is the header-level lifecycle of a draft
type DraftState string

const (
	DraftStateNew        DraftState = "NEW"
	DraftStateEditing    DraftState = "EDITING"
	DraftStateSubmitting DraftState = "SUBMITTING"
)

// IsValid checks if the state is a valid DraftState
func (s DraftState) IsValid() bool {
	switch s {
	case DraftStateNew, DraftStateEditing, DraftStateSubmitting:
		return true
	}
	return false
}

func (s DraftState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to target
func (s DraftState) CanTransitionTo(target DraftState) bool {
	switch s {
	case DraftStateNew, DraftStateEditing:
		return target == DraftStateSubmitting
	case DraftStateSubmitting:
		return target == DraftStateNew || target == DraftStateEditing
	}
	return false
}

// HeaderField names an editable header field
type HeaderField string

const (
	HeaderLocationCode    HeaderField = "location_code"
	HeaderSubLocationCode HeaderField = "sub_location_code"
	HeaderDocumentDate    HeaderField = "document_date"
	HeaderRequestedDate   HeaderField = "requested_date"
	HeaderRequestedTime   HeaderField = "requested_time"
	HeaderCostCenter      HeaderField = "cost_center"
	HeaderRemarks         HeaderField = "remarks"
)

// RequestHeader is the document-level part of a material request
type RequestHeader struct {
	DocumentID      string
	DocumentNumber  string
	LocationCode    string
	SubLocationCode string
	DocumentDate    time.Time
	RequestedDate   time.Time
	RequestedTime   string
	CostCenter      string
	Remarks         string
	Posted          bool
	Approved        bool
	Completed       bool
	Closed          bool
	TotalAmount     decimal.Decimal
	Audit           AuditStamp
}

// Status derives the request's workflow status from its flags
func (h RequestHeader) Status() RequestStatus {
	return DeriveRequestStatus(h.Posted, h.Approved, h.Completed)
}

// RequestDraft is the aggregate root for one in-progress material request.
// It exclusively owns its lines.
type RequestDraft struct {
	shared.BaseAggregateRoot
	SessionID   uuid.UUID
	UserName    string
	Header      RequestHeader
	Lines       []LineItem
	State       DraftState
	ResumeState DraftState
}

// NewRequestDraft creates an empty draft in the New state
func NewRequestDraft(session shared.SessionContext, now time.Time) *RequestDraft {
	today := truncateToDate(now)
	return &RequestDraft{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(session.ClientID, now),
		SessionID:         session.SessionID,
		UserName:          session.UserName,
		Header: RequestHeader{
			DocumentDate:  today,
			RequestedDate: today.AddDate(0, 0, RequestedLeadDays),
			TotalAmount:   decimal.Zero,
			Audit: AuditStamp{
				CreatedAt: now,
				CreatedBy: session.UserName,
				UpdatedAt: now,
				UpdatedBy: session.UserName,
			},
		},
		Lines: []LineItem{},
		State: DraftStateNew,
	}
}

// HydrateRequestDraft creates an Editing draft from a fetched document
func HydrateRequestDraft(session shared.SessionContext, header RequestHeader, lines []LineItem, now time.Time) (*RequestDraft, error) {
	if header.DocumentID == "" {
		return nil, ErrDocumentIDRequired
	}
	d := NewRequestDraft(session, now)
	d.Header = header
	d.Header.Audit.UpdatedAt = now
	d.Header.Audit.UpdatedBy = session.UserName
	d.Lines = make([]LineItem, len(lines))
	copy(d.Lines, lines)
	d.State = DraftStateEditing
	return d, nil
}

// IsPersisted reports whether the draft edits an existing upstream document
func (d *RequestDraft) IsPersisted() bool {
	return d.Header.DocumentID != ""
}

// UpdateHeaderField sets one header field.
// Changing the location clears the sub-location, which is location-scoped.
func (d *RequestDraft) UpdateHeaderField(field HeaderField, value string, now time.Time) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}

	switch field {
	case HeaderLocationCode:
		d.Header.LocationCode = value
		d.Header.SubLocationCode = ""
	case HeaderSubLocationCode:
		d.Header.SubLocationCode = value
	case HeaderDocumentDate, HeaderRequestedDate:
		date, err := time.Parse(DateLayout, value)
		if err != nil {
			return ErrInvalidHeaderValue
		}
		if field == HeaderDocumentDate {
			d.Header.DocumentDate = date
		} else {
			d.Header.RequestedDate = date
		}
	case HeaderRequestedTime:
		d.Header.RequestedTime = value
	case HeaderCostCenter:
		d.Header.CostCenter = value
	case HeaderRemarks:
		d.Header.Remarks = value
	default:
		return ErrUnknownHeaderField
	}

	d.touch(now)
	return nil
}

// AddItems appends candidates as new lines and returns the lines added
func (d *RequestDraft) AddItems(candidates []catalog.ResolvedCatalogEntry, now time.Time) ([]LineItem, error) {
	if err := d.ensureEditable(); err != nil {
		return nil, err
	}
	before := len(d.Lines)
	d.Lines = AddItems(d.Lines, candidates, d.lineStamp(now))
	d.touch(now)

	added := make([]LineItem, len(d.Lines)-before)
	copy(added, d.Lines[before:])
	return added, nil
}

// RemoveLine removes or soft-deletes the line at index
func (d *RequestDraft) RemoveLine(index int, now time.Time) error {
	return d.commit(now, func(lines []LineItem) ([]LineItem, error) {
		return RemoveItem(lines, index)
	})
}

// RestoreLine restores the soft-deleted line at index
func (d *RequestDraft) RestoreLine(index int, now time.Time) error {
	return d.commit(now, func(lines []LineItem) ([]LineItem, error) {
		return RestoreItem(lines, index)
	})
}

// SetLineQuantity sets the quantity of the line at index
func (d *RequestDraft) SetLineQuantity(index, quantity int, now time.Time) error {
	return d.commit(now, func(lines []LineItem) ([]LineItem, error) {
		return SetQuantity(lines, index, quantity)
	})
}

// SetLineUnitPrice sets the unit price of the line at index
func (d *RequestDraft) SetLineUnitPrice(index int, price decimal.Decimal, now time.Time) error {
	return d.commit(now, func(lines []LineItem) ([]LineItem, error) {
		return SetUnitPrice(lines, index, price)
	})
}

// ActiveLines returns the lines not soft-deleted
func (d *RequestDraft) ActiveLines() []LineItem {
	return ActiveItems(d.Lines)
}

// DeletedLines returns the soft-deleted lines
func (d *RequestDraft) DeletedLines() []LineItem {
	return DeletedItems(d.Lines)
}

// ComputeTotal sums TotalAmount over active lines
func (d *RequestDraft) ComputeTotal() decimal.Decimal {
	return SumTotals(d.Lines)
}

// ValidateRequired returns the labels of missing mandatory header fields.
// Whitespace-only values count as missing.
func (d *RequestDraft) ValidateRequired() []string {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(d.Header.LocationCode) == "" {
		missing = append(missing, "Location")
	}
	if strings.TrimSpace(d.Header.SubLocationCode) == "" {
		missing = append(missing, "Sub Location")
	}
	return missing
}

// BeginSubmit moves the draft into Submitting, remembering where to return on failure
func (d *RequestDraft) BeginSubmit() error {
	if !d.State.CanTransitionTo(DraftStateSubmitting) {
		return ErrSubmissionInFlight
	}
	d.ResumeState = d.State
	d.State = DraftStateSubmitting
	d.IncrementVersion()
	return nil
}

// AbortSubmit returns a Submitting draft to its previous state with edits intact
func (d *RequestDraft) AbortSubmit() {
	if d.State != DraftStateSubmitting {
		return
	}
	resume := d.ResumeState
	if !d.State.CanTransitionTo(resume) {
		resume = DraftStateNew
		if d.IsPersisted() {
			resume = DraftStateEditing
		}
	}
	d.State = resume
	d.ResumeState = ""
	d.IncrementVersion()
}

// WasEditing reports whether the draft was editing an existing document when
// the current submission began
func (d *RequestDraft) WasEditing() bool {
	if d.State == DraftStateSubmitting {
		return d.ResumeState == DraftStateEditing
	}
	return d.State == DraftStateEditing
}

func (d *RequestDraft) ensureEditable() error {
	if d.State == DraftStateSubmitting {
		return ErrDraftSubmitting
	}
	return nil
}

func (d *RequestDraft) commit(now time.Time, fn func([]LineItem) ([]LineItem, error)) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	lines, err := fn(d.Lines)
	if err != nil {
		return err
	}
	d.Lines = lines
	d.touch(now)
	return nil
}

// touch stamps a change and bumps the version checked by SaveWithLock
func (d *RequestDraft) touch(now time.Time) {
	d.Touch(now)
	d.IncrementVersion()
}

func (d *RequestDraft) lineStamp(now time.Time) LineStamp {
	return LineStamp{
		ClientID:       d.ClientID,
		DocumentID:     d.Header.DocumentID,
		DocumentNumber: d.Header.DocumentNumber,
		CostCenter:     d.Header.CostCenter,
		UserName:       d.UserName,
		Now:            now,
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
