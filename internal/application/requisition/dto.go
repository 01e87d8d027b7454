package requisition

import (
	"time"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Draft Requests ====================

// LoadDraftRequest selects an existing document to edit
type LoadDraftRequest struct {
	DocumentID     string `json:"doc_id" binding:"required,max=64"`
	DocumentNumber string `json:"doc_no" binding:"max=64"`
}

// UpdateHeaderRequest sets one or more header fields.
// Keys are header field names such as location_code or remarks.
type UpdateHeaderRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// AddLinesRequest appends picker selections by their unique ids
type AddLinesRequest struct {
	UniqueIDs []string `json:"unique_ids" binding:"required,min=1,dive,required"`
}

// UpdateLineRequest edits a line's quantity and/or price as typed by the user.
// Values are parsed leniently: bad quantities become 1, bad prices become 0.
type UpdateLineRequest struct {
	Quantity  *string `json:"quantity"`
	UnitPrice *string `json:"unit_price"`
}

// ScanRequest carries a decoded barcode
type ScanRequest struct {
	Code string `json:"code" binding:"required,itemcode"`
}

// SubmitRequest submits the draft. SaveAsDraft keeps the document unposted.
type SubmitRequest struct {
	SaveAsDraft bool `json:"save_as_draft"`
}

// ScannerErrorRequest reports a camera scanner failure
type ScannerErrorRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Message string `json:"message" binding:"max=500"`
}

// DeleteRequestQuery identifies the document to hard-delete
type DeleteRequestQuery struct {
	DocumentNumber string `form:"doc_no" binding:"max=64"`
}

// ==================== Draft Responses ====================

// DraftResponse is the session draft as shown to the UI
type DraftResponse struct {
	ID           uuid.UUID       `json:"id"`
	State        string          `json:"state"`
	IsEditing    bool            `json:"is_editing"`
	Header       HeaderResponse  `json:"header"`
	Lines        []LineResponse  `json:"lines"`
	DeletedCount int             `json:"deleted_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HeaderResponse is the document header
type HeaderResponse struct {
	DocumentID      string          `json:"doc_id"`
	DocumentNumber  string          `json:"doc_no"`
	LocationCode    string          `json:"location_code"`
	SubLocationCode string          `json:"sub_location_code"`
	DocumentDate    string          `json:"document_date"`
	RequestedDate   string          `json:"requested_date"`
	RequestedTime   string          `json:"requested_time"`
	CostCenter      string          `json:"cost_center"`
	Remarks         string          `json:"remarks"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// LineResponse is one line. Index addresses the line in line commands.
type LineResponse struct {
	Index         int             `json:"index"`
	LineNumber    int             `json:"line_number"`
	ItemCode      string          `json:"item_code"`
	Description   string          `json:"description"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ChangeTag     string          `json:"change_tag"`
	CostCenter    string          `json:"cost_center"`
}

// SubmitResult reports an accepted submission
type SubmitResult struct {
	Message        string `json:"message"`
	DocumentID     string `json:"doc_id"`
	DocumentNumber string `json:"doc_no"`
	Operation      string `json:"operation"`
	Posted         bool   `json:"posted"`
}

// RequestListItem is one upstream request with its derived status
type RequestListItem struct {
	HeaderResponse
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDraftResponse projects a draft with its active lines
func ToDraftResponse(d *requisition.RequestDraft) DraftResponse {
	lines := make([]LineResponse, 0, len(d.Lines))
	deleted := 0
	for i, l := range d.Lines {
		if l.IsDeleted() {
			deleted++
			continue
		}
		lines = append(lines, ToLineResponse(i, l))
	}
	header := ToHeaderResponse(d.Header)
	total := d.ComputeTotal()
	header.TotalAmount = total

	return DraftResponse{
		ID:           d.ID,
		State:        d.State.String(),
		IsEditing:    d.WasEditing(),
		Header:       header,
		Lines:        lines,
		DeletedCount: deleted,
		TotalAmount:  total,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDeletedLineResponses lists the soft-deleted lines with their ledger index
func ToDeletedLineResponses(d *requisition.RequestDraft) []LineResponse {
	out := make([]LineResponse, 0)
	for i, l := range d.Lines {
		if l.IsDeleted() {
			out = append(out, ToLineResponse(i, l))
		}
	}
	return out
}

// ToLineResponse projects one line
func ToLineResponse(index int, l requisition.LineItem) LineResponse {
	return LineResponse{
		Index:         index,
		LineNumber:    l.LineNumber,
		ItemCode:      l.ItemCode,
		Description:   l.Description,
		UnitOfMeasure: l.UnitOfMeasure,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		TotalAmount:   l.TotalAmount,
		ChangeTag:     l.ChangeTag.String(),
		CostCenter:    l.CostCenter,
	}
}

// ToHeaderResponse projects a header
func ToHeaderResponse(h requisition.RequestHeader) HeaderResponse {
	return HeaderResponse{
		DocumentID:      h.DocumentID,
		DocumentNumber:  h.DocumentNumber,
		LocationCode:    h.LocationCode,
		SubLocationCode: h.SubLocationCode,
		DocumentDate:    requisition.FormatDate(h.DocumentDate),
		RequestedDate:   requisition.FormatDate(h.RequestedDate),
		RequestedTime:   h.RequestedTime,
		CostCenter:      h.CostCenter,
		Remarks:         h.Remarks,
		Status:          h.Status().String(),
		TotalAmount:     h.TotalAmount,
	}
}

// ToRequestListItems projects upstream headers for the request list
func ToRequestListItems(headers []requisition.RequestHeader) []RequestListItem {
	out := make([]RequestListItem, len(headers))
	for i, h := range headers {
		out[i] = RequestListItem{
			HeaderResponse: ToHeaderResponse(h),
			CreatedBy:      h.Audit.CreatedBy,
			CreatedAt:      h.Audit.CreatedAt,
		}
	}
	return out
}
