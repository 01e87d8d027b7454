package requisition

import (
	"encoding/json"
	"testing"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSubmissionPayload_CreateThenSubmit(t *testing.T) {
	d := createTestDraft(t)
	_, err := d.AddItems([]catalog.ResolvedCatalogEntry{candidate("MAT-001", 10)}, testNow)
	require.NoError(t, err)
	require.NoError(t, d.SetLineQuantity(0, 3, testNow))

	p := d.ToSubmissionPayload(false, testNow)

	assert.Equal(t, HeaderTable, p.Table)
	assert.Equal(t, OperationCreate, p.Operation)
	assert.Equal(t, "Y", p.MasterData.Posted)
	assert.Equal(t, json.Number("30"), p.MasterData.TotalAmount)
	assert.Equal(t, json.Number("30"), p.MasterData.TotalNetAmount)
	assert.Equal(t, json.Number("0"), p.MasterData.TotalTaxAmount)
	assert.Equal(t, "2026-03-14T09:30:00Z", p.MasterData.CreatedDate)
	assert.Equal(t, "storekeeper", p.MasterData.CreatedUser)
	assert.Empty(t, p.MasterData.Upd)

	require.Len(t, p.Details, 1)
	assert.Equal(t, LineTable, p.Details[0].Table)
	require.Len(t, p.Details[0].Data, 1)
	line := p.Details[0].Data[0]
	assert.Equal(t, "MAT-001", line.ItemCode)
	assert.Equal(t, 3, line.PackQty)
	assert.Equal(t, json.Number("30"), line.TotalAmount)
	assert.Equal(t, "C", line.Upd)
}

func TestToSubmissionPayload_DraftSave(t *testing.T) {
	d := createTestDraft(t)
	p := d.ToSubmissionPayload(true, testNow)
	assert.Equal(t, "N", p.MasterData.Posted)
}

func TestToSubmissionPayload_EditKeepsCreationAudit(t *testing.T) {
	deleted := persistedLine(2, "B", 1, 5)
	deleted.ChangeTag = ChangeTagDelete
	d := createEditingDraft(t, persistedLine(1, "A", 2, 10), deleted)

	p := d.ToSubmissionPayload(false, testNow)

	assert.Equal(t, OperationUpdate, p.Operation)
	assert.Equal(t, "DOC-1", p.MasterData.DocID)
	assert.Equal(t, "planner", p.MasterData.CreatedUser)
	assert.Equal(t, "2026-03-12T09:30:00Z", p.MasterData.CreatedDate)
	assert.Equal(t, "U", p.MasterData.Upd)
	assert.Equal(t, json.Number("20"), p.MasterData.TotalAmount)
	assert.Len(t, p.Details[0].Data, 2, "soft-deleted lines are sent so the upstream can drop them")
	assert.Equal(t, "D", p.Details[0].Data[1].Upd)
}

func TestToSubmissionPayload_DoesNotMutateDraft(t *testing.T) {
	d := createTestDraft(t)
	_, err := d.AddItems([]catalog.ResolvedCatalogEntry{candidate("A", 1)}, testNow)
	require.NoError(t, err)
	before := *d
	beforeLines := append([]LineItem(nil), d.Lines...)

	_ = d.ToSubmissionPayload(false, testNow.Add(1))

	assert.Equal(t, before.Header, d.Header)
	assert.Equal(t, before.State, d.State)
	assert.Equal(t, beforeLines, d.Lines)
}

func TestSubmissionPayload_WireShape(t *testing.T) {
	d := createTestDraft(t)
	raw, err := json.Marshal(d.ToSubmissionPayload(false, testNow))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "MQ_HDR", generic["table"])
	assert.Equal(t, "create", generic["operation"])
	master := generic["master_data"].(map[string]any)
	assert.Equal(t, "LOC1", master["loc_code"])
	assert.Equal(t, "SUB1", master["sub_loc_code"])
	assert.Equal(t, float64(0), master["total_amount"], "amounts are JSON numbers")
}

func TestFlags(t *testing.T) {
	assert.Equal(t, "Y", FormatFlag(true))
	assert.Equal(t, "N", FormatFlag(false))
	assert.True(t, ParseFlag("Y"))
	assert.False(t, ParseFlag("N"))
	assert.False(t, ParseFlag(""))
}
