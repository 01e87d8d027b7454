package requisition

import (
	"testing"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() shared.SessionContext {
	return shared.SessionContext{SessionID: uuid.New(), ClientID: "C001", UserName: "storekeeper"}
}

func createTestDraft(t *testing.T) *RequestDraft {
	t.Helper()
	d := NewRequestDraft(testSession(), testNow)
	require.NoError(t, d.UpdateHeaderField(HeaderLocationCode, "LOC1", testNow))
	require.NoError(t, d.UpdateHeaderField(HeaderSubLocationCode, "SUB1", testNow))
	return d
}

func createEditingDraft(t *testing.T, lines ...LineItem) *RequestDraft {
	t.Helper()
	header := RequestHeader{
		DocumentID:      "DOC-1",
		DocumentNumber:  "MQ-0001",
		LocationCode:    "LOC1",
		SubLocationCode: "SUB1",
		DocumentDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Audit:           AuditStamp{CreatedAt: testNow.Add(-48 * time.Hour), CreatedBy: "planner"},
	}
	d, err := HydrateRequestDraft(testSession(), header, lines, testNow)
	require.NoError(t, err)
	return d
}

// ============================================
// Construction
// ============================================

func TestNewRequestDraft_Defaults(t *testing.T) {
	d := NewRequestDraft(testSession(), testNow)

	assert.Equal(t, DraftStateNew, d.State)
	assert.False(t, d.IsPersisted())
	assert.Empty(t, d.Lines)
	assert.Equal(t, "C001", d.ClientID)
	assert.Equal(t, "2026-03-14", FormatDate(d.Header.DocumentDate))
	assert.Equal(t, "2026-03-17", FormatDate(d.Header.RequestedDate))
	assert.Equal(t, "storekeeper", d.Header.Audit.CreatedBy)
}

func TestHydrateRequestDraft(t *testing.T) {
	d := createEditingDraft(t, persistedLine(1, "A", 1, 1))

	assert.Equal(t, DraftStateEditing, d.State)
	assert.True(t, d.IsPersisted())
	assert.Len(t, d.Lines, 1)
	assert.Equal(t, "planner", d.Header.Audit.CreatedBy)
	assert.Equal(t, "storekeeper", d.Header.Audit.UpdatedBy)

	_, err := HydrateRequestDraft(testSession(), RequestHeader{}, nil, testNow)
	assert.ErrorIs(t, err, ErrDocumentIDRequired)
}

// ============================================
// Header edits
// ============================================

func TestUpdateHeaderField_LocationResetsSubLocation(t *testing.T) {
	d := createTestDraft(t)
	require.Equal(t, "SUB1", d.Header.SubLocationCode)

	require.NoError(t, d.UpdateHeaderField(HeaderLocationCode, "LOC2", testNow))

	assert.Equal(t, "LOC2", d.Header.LocationCode)
	assert.Equal(t, "", d.Header.SubLocationCode)
}

func TestUpdateHeaderField(t *testing.T) {
	tests := []struct {
		field   HeaderField
		value   string
		wantErr error
		check   func(t *testing.T, h RequestHeader)
	}{
		{HeaderRemarks, "urgent", nil, func(t *testing.T, h RequestHeader) { assert.Equal(t, "urgent", h.Remarks) }},
		{HeaderCostCenter, "CC-2", nil, func(t *testing.T, h RequestHeader) { assert.Equal(t, "CC-2", h.CostCenter) }},
		{HeaderRequestedTime, "14:00", nil, func(t *testing.T, h RequestHeader) { assert.Equal(t, "14:00", h.RequestedTime) }},
		{HeaderRequestedDate, "2026-04-01", nil, func(t *testing.T, h RequestHeader) {
			assert.Equal(t, "2026-04-01", FormatDate(h.RequestedDate))
		}},
		{HeaderDocumentDate, "01/04/2026", ErrInvalidHeaderValue, nil},
		{HeaderField("supplier"), "X", ErrUnknownHeaderField, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			d := createTestDraft(t)
			err := d.UpdateHeaderField(tt.field, tt.value, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, d.Header)
			assert.Equal(t, "SUB1", d.Header.SubLocationCode)
		})
	}
}

// ============================================
// Totals and validation
// ============================================

func TestComputeTotal_ExcludesDeleted(t *testing.T) {
	a := persistedLine(1, "A", 2, 10)
	b := persistedLine(2, "B", 1, 5)
	b.ChangeTag = ChangeTagDelete
	d := createEditingDraft(t, a, b)

	assert.True(t, d.ComputeTotal().Equal(decimal.NewFromInt(20)))
}

func TestValidateRequired(t *testing.T) {
	d := NewRequestDraft(testSession(), testNow)
	assert.Equal(t, []string{"Location", "Sub Location"}, d.ValidateRequired())

	require.NoError(t, d.UpdateHeaderField(HeaderLocationCode, "LOC1", testNow))
	assert.Equal(t, []string{"Sub Location"}, d.ValidateRequired())

	require.NoError(t, d.UpdateHeaderField(HeaderSubLocationCode, "SUB1", testNow))
	assert.Empty(t, d.ValidateRequired())
}

func TestValidateRequired_WhitespaceIsMissing(t *testing.T) {
	tests := []struct {
		name        string
		location    string
		subLocation string
		want        []string
	}{
		{"spaces", "  ", "\t", []string{"Location", "Sub Location"}},
		{"blank sub location", "LOC1", " \n", []string{"Sub Location"}},
		{"padded values", " LOC1 ", " SUB1", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRequestDraft(testSession(), testNow)
			d.Header.LocationCode = tt.location
			d.Header.SubLocationCode = tt.subLocation
			assert.Equal(t, tt.want, d.ValidateRequired())
		})
	}
}

func TestDraftCommandsBumpVersion(t *testing.T) {
	d := NewRequestDraft(testSession(), testNow)
	start := d.Version

	require.NoError(t, d.UpdateHeaderField(HeaderRemarks, "urgent", testNow))
	assert.Equal(t, start+1, d.Version)

	require.NoError(t, d.BeginSubmit())
	assert.Equal(t, start+2, d.Version)

	d.AbortSubmit()
	assert.Equal(t, start+3, d.Version)

	assert.ErrorIs(t, d.RemoveLine(0, testNow), ErrLineIndexOutOfRange)
	assert.Equal(t, start+3, d.Version)
}

// ============================================
// Lifecycle
// ============================================

func TestDraftState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from DraftState
		to   DraftState
		want bool
	}{
		{DraftStateNew, DraftStateSubmitting, true},
		{DraftStateEditing, DraftStateSubmitting, true},
		{DraftStateSubmitting, DraftStateNew, true},
		{DraftStateSubmitting, DraftStateEditing, true},
		{DraftStateSubmitting, DraftStateSubmitting, false},
		{DraftStateNew, DraftStateEditing, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBeginAndAbortSubmit(t *testing.T) {
	d := createEditingDraft(t)

	require.NoError(t, d.BeginSubmit())
	assert.Equal(t, DraftStateSubmitting, d.State)
	assert.True(t, d.WasEditing())

	assert.ErrorIs(t, d.BeginSubmit(), ErrSubmissionInFlight)
	assert.ErrorIs(t, d.UpdateHeaderField(HeaderRemarks, "x", testNow), ErrDraftSubmitting)
	_, err := d.AddItems([]catalog.ResolvedCatalogEntry{candidate("A", 1)}, testNow)
	assert.ErrorIs(t, err, ErrDraftSubmitting)

	d.AbortSubmit()
	assert.Equal(t, DraftStateEditing, d.State)
	assert.NoError(t, d.UpdateHeaderField(HeaderRemarks, "x", testNow))
}

func TestWasEditing_NewDraft(t *testing.T) {
	d := createTestDraft(t)
	require.NoError(t, d.BeginSubmit())
	assert.False(t, d.WasEditing())
	d.AbortSubmit()
	assert.Equal(t, DraftStateNew, d.State)
}

// ============================================
// Ledger commands through the aggregate
// ============================================

func TestRequestDraft_LedgerCommands(t *testing.T) {
	d := createEditingDraft(t, persistedLine(1, "A", 1, 10))

	added, err := d.AddItems([]catalog.ResolvedCatalogEntry{candidate("B", 4)}, testNow)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, 2, added[0].LineNumber)
	assert.Equal(t, "DOC-1", added[0].DocumentID)
	assert.Equal(t, "MQ-0001", added[0].DocumentNumber)

	require.NoError(t, d.SetLineQuantity(1, 5, testNow))
	require.NoError(t, d.SetLineUnitPrice(0, decimal.NewFromInt(3), testNow))
	require.NoError(t, d.RemoveLine(0, testNow))

	assert.Len(t, d.DeletedLines(), 1)
	assert.Len(t, d.ActiveLines(), 1)
	assert.True(t, d.ComputeTotal().Equal(decimal.NewFromInt(20)))

	require.NoError(t, d.RestoreLine(0, testNow))
	assert.Empty(t, d.DeletedLines())
	assert.True(t, d.ComputeTotal().Equal(decimal.NewFromInt(23)))

	assert.ErrorIs(t, d.RemoveLine(9, testNow), ErrLineIndexOutOfRange)
}
