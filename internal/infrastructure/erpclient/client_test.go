package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/identity"
	"github.com/erp/requisition/internal/domain/insight"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/config"
)

// recordedCall is one request received by the fake upstream
type recordedCall struct {
	Path  string
	Auth  string
	Body  map[string]any
	Basic [2]string
}

type fakeUpstream struct {
	t      *testing.T
	server *httptest.Server
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]func(w http.ResponseWriter, body map[string]any)
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{t: t, routes: make(map[string]func(http.ResponseWriter, map[string]any))}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		call := recordedCall{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body}
		if user, pass, ok := r.BasicAuth(); ok {
			call.Basic = [2]string{user, pass}
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		handler, ok := f.routes[r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) handle(path string, status int, reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = func(w http.ResponseWriter, _ map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}
}

func (f *fakeUpstream) lastCall() recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.calls)
	return f.calls[len(f.calls)-1]
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) ObserveUpstream(endpoint, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[endpoint+":"+result]++
}

func newTestClient(f *fakeUpstream, opts ...Option) *Client {
	cfg := config.UpstreamConfig{
		BaseURL:       f.server.URL + "/api",
		CrudURL:       f.server.URL + "/crud/",
		ReportURL:     f.server.URL + "/bi/",
		BasicUser:     "svc",
		BasicPassword: "secret",
		SendKey:       "123456",
		Timeout:       5 * time.Second,
		ReportEndpoints: map[string]string{
			"below_cost":    "below_cost_without_ai",
			"below_cost_ai": "below_cost_using_ai",
		},
	}
	return New(cfg, zap.NewNop(), opts...)
}

var testSession = shared.SessionContext{SessionID: uuid.New(), ClientID: "C001", UserName: "storekeeper"}

// ============================================
// Material requests
// ============================================

func TestClient_ListMaterialRequests(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/material_request", http.StatusOK, `{"success":true,"data":[
		{"doc_id":101,"doc_no":"MQ-0001","loc_code":"L1","sub_loc_code":"S1","doc_date":"2026-03-01T00:00:00",
		 "posted":"Y","approved":"N","completed":"N","total_amount":"12.500","created_date":"2026-03-01T08:00:00Z"},
		{"doc_id":"102","doc_no":"MQ-0002","posted":"N","total_amount":3}
	]}`)
	client := newTestClient(f)

	headers, err := client.ListMaterialRequests(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, headers, 2)

	assert.Equal(t, "101", headers[0].DocumentID)
	assert.Equal(t, "MQ-0001", headers[0].DocumentNumber)
	assert.Equal(t, "2026-03-01", headers[0].DocumentDate.Format(requisition.DateLayout))
	assert.True(t, headers[0].TotalAmount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, requisition.RequestStatusPending, headers[0].Status())
	assert.Equal(t, requisition.RequestStatusDraft, headers[1].Status())

	call := f.lastCall()
	assert.Equal(t, "MQ_HDR", call.Body["table"])
	assert.Equal(t, "list", call.Body["operation"])
	assert.Equal(t, "client_id = 'C001'", call.Body["filter"])
	assert.Empty(t, call.Auth)
}

func TestClient_ReadMaterialRequest(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/material_request", http.StatusOK, `{"success":true,"data":{
		"MQ_HDR":{"doc_id":"101","doc_no":"MQ-0001","loc_code":"L1"},
		"MQ_TRAN":[{"line_number":"1","tran_id":"T1","item_code":"P-1","pack_qty":2,"unit_price":"1.5","total_amount":3,"_upd":""}]
	}}`)
	client := newTestClient(f)

	stored, err := client.ReadMaterialRequest(context.Background(), testSession, "101", "MQ-0001")
	require.NoError(t, err)
	assert.Equal(t, "L1", stored.Header.LocationCode)
	require.Len(t, stored.Lines, 1)
	line := stored.Lines[0]
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.IsPersisted())
	assert.Equal(t, requisition.ChangeTagUnchanged, line.ChangeTag)

	master := f.lastCall().Body["master_data"].(map[string]any)
	assert.Equal(t, map[string]any{"doc_id": "101", "doc_no": "MQ-0001", "client_id": "C001"}, master)
}

func TestClient_ReadMaterialRequest_MissingHeader(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/material_request", http.StatusOK, `{"success":true,"data":{}}`)

	_, err := newTestClient(f).ReadMaterialRequest(context.Background(), testSession, "9", "MQ-9")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClient_SubmitMaterialRequest(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantSuccess bool
		wantMessage string
		wantDocNo   string
	}{
		{
			name:        "accepted with document number",
			reply:       `{"success":true,"message":"ok","data":{"doc_id":55,"doc_no":"MQ-0055"}}`,
			wantSuccess: true,
			wantDocNo:   "MQ-0055",
		},
		{
			name:        "accepted without data",
			reply:       `{"success":true}`,
			wantSuccess: true,
		},
		{
			name:        "rejected",
			reply:       `{"success":false,"message":"Location is closed"}`,
			wantMessage: "Location is closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeUpstream(t)
			f.handle("/crud/material_request", http.StatusOK, tt.reply)
			client := newTestClient(f)

			payload := requisition.SubmissionPayload{
				Table:      requisition.HeaderTable,
				Operation:  requisition.OperationCreate,
				MasterData: requisition.PayloadHeader{ClientID: "C001", TotalAmount: "3"},
			}
			outcome, err := client.SubmitMaterialRequest(context.Background(), testSession, payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, outcome.Success)
			assert.Equal(t, tt.wantMessage, outcome.Message)
			assert.Equal(t, tt.wantDocNo, outcome.DocumentNumber)

			body := f.lastCall().Body
			assert.Equal(t, "create", body["operation"])
			assert.Equal(t, float64(3), body["master_data"].(map[string]any)["total_amount"])
		})
	}
}

func TestClient_SubmitMaterialRequest_TransportFailure(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/material_request", http.StatusBadGateway, `{"message":"gateway down"}`)

	_, err := newTestClient(f).SubmitMaterialRequest(context.Background(), testSession, requisition.SubmissionPayload{})
	require.Error(t, err)
	var upstream *shared.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "gateway down", upstream.Message)
	assert.ErrorIs(t, err, shared.ErrUpstream)
}

func TestClient_DeleteMaterialRequest_Rejected(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/material_request", http.StatusOK, `{"success":false,"message":"Already approved"}`)

	err := newTestClient(f).DeleteMaterialRequest(context.Background(), testSession, "1", "MQ-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstream)
	assert.Equal(t, "Already approved", err.Error())
	assert.Equal(t, "delete", f.lastCall().Body["operation"])
}

// ============================================
// Master data and catalog
// ============================================

func TestClient_MasterData(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/mast_location", http.StatusOK, `{"success":true,"data":[{"loc_code":"L1","loc_name":"Main"}]}`)
	f.handle("/crud/mast_sub_location", http.StatusOK, `{"success":true,"data":[
		{"sub_loc_code":"S1","sub_loc_name":"Shelf","loc_code":"L1"},
		{"sub_loc_code":"S2","sub_loc_name":"Cold","master_location_id":"L2"}]}`)
	f.handle("/crud/cost_center", http.StatusOK, `{"success":true,"data":null}`)
	client := newTestClient(f)
	ctx := context.Background()

	locations, err := client.ListLocations(ctx, "C001")
	require.NoError(t, err)
	assert.Equal(t, []requisition.Location{{Code: "L1", Name: "Main"}}, locations)
	assert.Equal(t, "mast_location", f.lastCall().Body["table"])

	subs, err := client.ListSubLocations(ctx, "C001")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "L1", subs[0].LocationCode)
	assert.Equal(t, "L2", subs[1].LocationCode)

	centers, err := client.ListCostCenters(ctx, "C001")
	require.NoError(t, err)
	assert.Empty(t, centers)
	assert.Equal(t, "mast_costcenter", f.lastCall().Body["table"])
}

func TestClient_Catalog(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/mast_product", http.StatusOK, `{"success":true,"data":[
		{"product_id":7,"master_product_id":"M7","product_code":"P-7","product_des":"Bolt","price1":"0.250","uom_code":"PCS","item_qty":40,"product_category":"","item_type":"HARDWARE"}]}`)
	f.handle("/crud/mast_barcode", http.StatusOK, `{"success":true,"data":[
		{"product_id":7,"product_code":"6291000000017","valid":"Y","barcode_type":"EAN13","is_default":"1","is_supplier_barcode":false,"uom_code":"PCS"},
		{"product_id":7,"product_code":"OLD-1","valid":"N"},
		{"product_id":"","product_code":" P-7 ","valid":"Y"}]}`)
	client := newTestClient(f)
	ctx := context.Background()

	items, err := client.FetchCatalogItems(ctx, "C001")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ItemID)
	assert.Equal(t, "HARDWARE", items[0].EffectiveCategory())
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("0.25")))
	assert.True(t, items[0].StockQuantity.Equal(decimal.NewFromInt(40)))

	barcodes, err := client.FetchBarcodeRecords(ctx, "C001")
	require.NoError(t, err)
	require.Len(t, barcodes, 3)
	assert.Equal(t, "6291000000017", barcodes[0].BarcodeCode)
	assert.True(t, barcodes[0].IsValid)
	assert.True(t, barcodes[0].IsDefault)
	assert.False(t, barcodes[1].IsValid)
	assert.True(t, barcodes[0].References(items[0]))

	assert.Empty(t, barcodes[2].ItemID)
	assert.Equal(t, "P-7", barcodes[2].ItemCode)
	assert.True(t, barcodes[2].References(items[0]))

	entries := catalog.BuildIndex(items, barcodes)
	require.Len(t, entries, 2)
	assert.Equal(t, "6291000000017", entries[0].Code)
	assert.Equal(t, "P-7", entries[1].BarcodeCode())
}

// ============================================
// Login
// ============================================

func TestClient_Authenticate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			reply:  `{"LoginResult":{"Result":"SUCCESS","user_name":" Store Keeper ","user_type":"ADMIN "},"ClientInfo":{"client_id":"C001","client_name":"Acme"}}`,
		},
		{
			name:    "refused",
			status:  http.StatusOK,
			reply:   `{"LoginResult":{"Result":"FAILED"}}`,
			wantErr: identity.ErrInvalidCredentials,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			reply:   `{}`,
			wantErr: identity.ErrInvalidCredentials,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			reply:   `{}`,
			wantErr: shared.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeUpstream(t)
			f.handle("/api/Restpos_Login", tt.status, tt.reply)

			account, err := newTestClient(f).Authenticate(context.Background(), identity.Credentials{
				Email: "sk@example.com", Password: "pw", ClientID: "C001",
			})

			call := f.lastCall()
			assert.Equal(t, [2]string{"svc", "secret"}, call.Basic)
			assert.Equal(t, "Restpos_Login", call.Body["FUNCTION"])
			assert.Equal(t, "123456", call.Body["SEND_KEY"])

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &identity.Account{UserName: "Store Keeper", UserType: "ADMIN", ClientID: "C001", ClientName: "Acme"}, account)
		})
	}
}

// ============================================
// Reports
// ============================================

func TestClient_ListReports(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/bi/AI_Dashboard_Filters", http.StatusOK, `{"success":true,"data":[
		{"name":"margin","label":"Margin","hide":"N","order":2},
		{"name":"hidden","label":"Hidden","hide":"Y","order":0},
		{"name":"below_cost","label":"","hide":false,"order":"1"}]}`)

	reports, err := newTestClient(f).ListReports(context.Background(), "C001")
	require.NoError(t, err)
	assert.Equal(t, []insight.Report{
		{Name: "below_cost", Label: "below_cost"},
		{Name: "margin", Label: "Margin"},
	}, reports)
	assert.Equal(t, "ReportNames", f.lastCall().Body["type"])
}

func TestClient_FetchFilterSchema(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/bi/AI_Dashboard_Filters", http.StatusOK, `{"success":true,"data":[
		{"name":"days","label":"Days","type":"number","data_type":"int","criteria":"Mandatory","order":1,"limit":"90","value":"30"},
		{"name":"zero","label":"Zero","type":"checkbox","data_type":"bit","order":2,"show":"N","value":"true"}]}`)
	client := newTestClient(f)

	fields, err := client.FetchFilterSchema(context.Background(), "C001", "below_cost", true)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, insight.FilterFieldDescriptor{
		Name: "days", Label: "Days", Control: insight.ControlTextOrNumber, DataType: insight.DataTypeInt,
		Criteria: "Mandatory", Order: 1, Show: true, Limit: 90, Numeric: true, Default: "30",
	}, fields[0])
	assert.False(t, fields[1].Show)
	assert.Equal(t, insight.ControlCheckbox, fields[1].Control)
	assert.Equal(t, "Y", f.lastCall().Body["ai"])

	f.handle("/bi/AI_Dashboard_Filters", http.StatusOK, `{"success":true,"data":[]}`)
	_, err = client.FetchFilterSchema(context.Background(), "C001", "nope", false)
	assert.ErrorIs(t, err, insight.ErrReportNotFound)
}

func TestClient_FetchOptions(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/bi/AI_Dashboard_Filters", http.StatusOK, `{"success":true,"data":[{"code":"G1","name":"Tools"}]}`)

	raw, err := newTestClient(f).FetchOptions(context.Background(), "C001", insight.OptionSubGroup, map[string]string{"group_code": "G"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"G1","name":"Tools"}]`, string(raw))
	assert.Equal(t, map[string]any{"client_id": "C001", "type": "Sub_group", "group_code": "G"}, f.lastCall().Body)
}

func TestClient_RunReport(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/bi/below_cost_using_ai", http.StatusOK, `{"rows":[1]}`)
	f.handle("/bi/below_cost_without_ai", http.StatusOK, `{"rows":[2]}`)
	f.handle("/bi/margin", http.StatusOK, `{"rows":[3]}`)
	client := newTestClient(f)
	ctx := context.Background()

	raw, err := client.RunReport(ctx, "C001", "below_cost", true, map[string]any{"days": int64(30)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[1]}`, string(raw))
	assert.Equal(t, map[string]any{"DATA": map[string]any{"client_id": "C001", "days": float64(30)}}, f.lastCall().Body)

	raw, err = client.RunReport(ctx, "C001", "below_cost", false, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[2]}`, string(raw))

	raw, err = client.RunReport(ctx, "C001", "margin", true, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[3]}`, string(raw))
}

// ============================================
// Transport
// ============================================

func TestClient_RateLimitHonoursContext(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/mast_location", http.StatusOK, `{"success":true,"data":[]}`)
	cfg := newTestClient(f).cfg
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	limited := New(cfg, zap.NewNop())

	_, err := limited.ListLocations(context.Background(), "C001")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.ListLocations(ctx, "C001")
	assert.ErrorIs(t, err, shared.ErrUpstream)
}

func TestClient_ObserverCountsResults(t *testing.T) {
	f := newFakeUpstream(t)
	f.handle("/crud/mast_location", http.StatusOK, `{"success":false,"message":"no"}`)
	f.handle("/crud/mast_sub_location", http.StatusOK, `not json`)
	observer := &countingObserver{}
	client := newTestClient(f, WithObserver(observer))
	ctx := context.Background()

	_, _ = client.ListLocations(ctx, "C001")
	_, _ = client.ListSubLocations(ctx, "C001")
	_, _ = client.ListCostCenters(ctx, "C001")

	assert.Equal(t, map[string]int{
		"mast_location:rejected":  1,
		"mast_sub_location:error": 1,
		"cost_center:error":       1,
	}, observer.counts)
}

func TestClientFilter_EscapesQuotes(t *testing.T) {
	assert.Equal(t, "client_id = 'O''Brien'", clientFilter("O'Brien"))
}
