package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
)

// materialRequestEndpoint serves the MQ_HDR/MQ_TRAN document
const materialRequestEndpoint = "material_request"

type listRequest struct {
	Table     string                `json:"table"`
	Operation requisition.Operation `json:"operation"`
	Filter    string                `json:"filter"`
}

type documentKey struct {
	DocNo    string `json:"doc_no"`
	DocID    string `json:"doc_id"`
	ClientID string `json:"client_id"`
}

type documentRequest struct {
	Table      string                `json:"table"`
	Operation  requisition.Operation `json:"operation"`
	MasterData documentKey           `json:"master_data"`
}

// headerRow is an MQ_HDR row as read back
type headerRow struct {
	DocID       flexString  `json:"doc_id"`
	DocNo       flexString  `json:"doc_no"`
	LocCode     flexString  `json:"loc_code"`
	SubLocCode  flexString  `json:"sub_loc_code"`
	DocDate     flexString  `json:"doc_date"`
	DocReqDate  flexString  `json:"doc_req_date"`
	DocReqTime  flexString  `json:"doc_req_time"`
	CostCenter  flexString  `json:"cost_center"`
	Remarks     flexString  `json:"remarks"`
	Posted      flexBool    `json:"posted"`
	Approved    flexBool    `json:"approved"`
	Completed   flexBool    `json:"completed"`
	Closed      flexBool    `json:"closed"`
	TotalAmount flexDecimal `json:"total_amount"`
	CreatedDate flexString  `json:"created_date"`
	CreatedUser flexString  `json:"created_user"`
	UpdatedDate flexString  `json:"updated_date"`
	UpdatedUser flexString  `json:"updated_user"`
}

func (r headerRow) toDomain() requisition.RequestHeader {
	return requisition.RequestHeader{
		DocumentID:      r.DocID.String(),
		DocumentNumber:  r.DocNo.String(),
		LocationCode:    r.LocCode.String(),
		SubLocationCode: r.SubLocCode.String(),
		DocumentDate:    parseDate(r.DocDate),
		RequestedDate:   parseDate(r.DocReqDate),
		RequestedTime:   r.DocReqTime.String(),
		CostCenter:      r.CostCenter.String(),
		Remarks:         r.Remarks.String(),
		Posted:          bool(r.Posted),
		Approved:        bool(r.Approved),
		Completed:       bool(r.Completed),
		Closed:          bool(r.Closed),
		TotalAmount:     r.TotalAmount.Decimal(),
		Audit: requisition.AuditStamp{
			CreatedAt: parseTimestamp(r.CreatedDate),
			CreatedBy: r.CreatedUser.String(),
			UpdatedAt: parseTimestamp(r.UpdatedDate),
			UpdatedBy: r.UpdatedUser.String(),
		},
	}
}

// lineRow is an MQ_TRAN row as read back
type lineRow struct {
	LineNumber  flexInt     `json:"line_number"`
	TranID      flexString  `json:"tran_id"`
	DocID       flexString  `json:"doc_id"`
	DocNo       flexString  `json:"doc_no"`
	DocType     flexString  `json:"doc_type"`
	ItemCode    flexString  `json:"item_code"`
	ItemDesc    flexString  `json:"item_desc"`
	ItemType    flexString  `json:"item_type"`
	LineType    flexString  `json:"line_type"`
	PackID      flexString  `json:"pack_id"`
	PackQty     flexInt     `json:"pack_qty"`
	UnitPrice   flexDecimal `json:"unit_price"`
	TotalAmount flexDecimal `json:"total_amount"`
	TaxAmount   flexDecimal `json:"tax_amount"`
	NetAmount   flexDecimal `json:"net_amount"`
	CostCenter  flexString  `json:"cost_center"`
	ClientID    flexString  `json:"client_id"`
	CreatedDate flexString  `json:"created_date"`
	CreatedUser flexString  `json:"created_user"`
	UpdatedDate flexString  `json:"updated_date"`
	UpdatedUser flexString  `json:"updated_user"`
}

// toDomain maps a stored row. Stored lines start with no pending change.
func (r lineRow) toDomain() requisition.LineItem {
	return requisition.LineItem{
		LineNumber:     int(r.LineNumber),
		TransactionID:  r.TranID.String(),
		DocumentID:     r.DocID.String(),
		DocumentNumber: r.DocNo.String(),
		DocumentType:   r.DocType.String(),
		ItemCode:       r.ItemCode.String(),
		Description:    r.ItemDesc.String(),
		ItemType:       r.ItemType.String(),
		LineType:       r.LineType.String(),
		PackID:         r.PackID.String(),
		Quantity:       int(r.PackQty),
		UnitPrice:      r.UnitPrice.Decimal(),
		TotalAmount:    r.TotalAmount.Decimal(),
		TaxAmount:      r.TaxAmount.Decimal(),
		NetAmount:      r.NetAmount.Decimal(),
		ChangeTag:      requisition.ChangeTagUnchanged,
		CostCenter:     r.CostCenter.String(),
		ClientID:       r.ClientID.String(),
		Audit: requisition.AuditStamp{
			CreatedAt: parseTimestamp(r.CreatedDate),
			CreatedBy: r.CreatedUser.String(),
			UpdatedAt: parseTimestamp(r.UpdatedDate),
			UpdatedBy: r.UpdatedUser.String(),
		},
	}
}

// documentData is the read reply: one header and its lines
type documentData struct {
	Header *headerRow `json:"MQ_HDR"`
	Lines  []lineRow  `json:"MQ_TRAN"`
}

// submitData is what a create or update reply may carry back
type submitData struct {
	DocID  flexString `json:"doc_id"`
	DocNo  flexString `json:"doc_no"`
	Header *headerRow `json:"MQ_HDR"`
}

// SubmitMaterialRequest creates or updates a document. A rejection is an
// outcome with Success false, not an error.
func (c *Client) SubmitMaterialRequest(ctx context.Context, session shared.SessionContext, payload requisition.SubmissionPayload) (*requisition.SubmitOutcome, error) {
	data, err := c.call(ctx, c.cfg.CrudURL, materialRequestEndpoint, payload)
	var rejected *rejectedError
	if errors.As(err, &rejected) {
		return &requisition.SubmitOutcome{Success: false, Message: rejected.message}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := &requisition.SubmitOutcome{
		Success:        true,
		DocumentID:     payload.MasterData.DocID,
		DocumentNumber: payload.MasterData.DocNo,
	}
	var reply submitData
	if len(data) > 0 && json.Unmarshal(data, &reply) == nil {
		if reply.Header != nil {
			reply.DocID, reply.DocNo = reply.Header.DocID, reply.Header.DocNo
		}
		if reply.DocID != "" {
			outcome.DocumentID = reply.DocID.String()
		}
		if reply.DocNo != "" {
			outcome.DocumentNumber = reply.DocNo.String()
		}
	}
	return outcome, nil
}

// ReadMaterialRequest loads one stored document with its lines
func (c *Client) ReadMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) (*requisition.StoredRequest, error) {
	data, err := c.fetch(ctx, c.cfg.CrudURL, materialRequestEndpoint, documentRequest{
		Table:      requisition.HeaderTable,
		Operation:  requisition.OperationRead,
		MasterData: documentKey{DocNo: documentNumber, DocID: documentID, ClientID: session.ClientID},
	})
	if err != nil {
		return nil, err
	}

	var doc documentData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode material request: %w", err)}
	}
	if doc.Header == nil {
		return nil, shared.ErrNotFound
	}

	stored := &requisition.StoredRequest{
		Header: doc.Header.toDomain(),
		Lines:  make([]requisition.LineItem, len(doc.Lines)),
	}
	for i, l := range doc.Lines {
		stored.Lines[i] = l.toDomain()
	}
	return stored, nil
}

// ListMaterialRequests lists the client's stored request headers
func (c *Client) ListMaterialRequests(ctx context.Context, session shared.SessionContext) ([]requisition.RequestHeader, error) {
	data, err := c.fetch(ctx, c.cfg.CrudURL, materialRequestEndpoint, listRequest{
		Table:     requisition.HeaderTable,
		Operation: requisition.OperationList,
		Filter:    clientFilter(session.ClientID),
	})
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows[headerRow](data)
	if err != nil {
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode material requests: %w", err)}
	}
	headers := make([]requisition.RequestHeader, len(rows))
	for i, r := range rows {
		headers[i] = r.toDomain()
	}
	return headers, nil
}

// DeleteMaterialRequest deletes a stored document
func (c *Client) DeleteMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) error {
	_, err := c.fetch(ctx, c.cfg.CrudURL, materialRequestEndpoint, documentRequest{
		Table:      requisition.HeaderTable,
		Operation:  requisition.OperationDelete,
		MasterData: documentKey{DocNo: documentNumber, DocID: documentID, ClientID: session.ClientID},
	})
	return err
}

var _ requisition.MaterialRequestGateway = (*Client)(nil)
