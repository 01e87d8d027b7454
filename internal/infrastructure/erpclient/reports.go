package erpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/erp/requisition/internal/domain/insight"
	"github.com/erp/requisition/internal/domain/shared"
)

// filtersEndpoint serves report names, filter schemas and dropdown options
const filtersEndpoint = "AI_Dashboard_Filters"

// reportNamesType asks the filters endpoint for the report list
const reportNamesType = "ReportNames"

type reportRow struct {
	Name  flexString `json:"name"`
	Label flexString `json:"label"`
	Hide  flexBool   `json:"hide"`
	Order flexInt    `json:"order"`
}

type filterFieldRow struct {
	Name     flexString `json:"name"`
	Label    flexString `json:"label"`
	Type     flexString `json:"type"`
	DataType flexString `json:"data_type"`
	Criteria flexString `json:"criteria"`
	Order    flexInt    `json:"order"`
	Show     *flexBool  `json:"show"`
	Limit    flexInt    `json:"limit"`
	Value    flexString `json:"value"`
}

func (r filterFieldRow) toDomain() insight.FilterFieldDescriptor {
	show := true
	if r.Show != nil {
		show = bool(*r.Show)
	}
	return insight.FilterFieldDescriptor{
		Name:     r.Name.String(),
		Label:    r.Label.String(),
		Control:  insight.ParseControlType(r.Type.String()),
		DataType: insight.ParseDataType(r.DataType.String()),
		Criteria: r.Criteria.String(),
		Order:    int(r.Order),
		Show:     show,
		Limit:    int(r.Limit),
		Numeric:  r.Type == "number",
		Default:  r.Value.String(),
	}
}

// ListReports lists the visible reports in display order
func (c *Client) ListReports(ctx context.Context, clientID string) ([]insight.Report, error) {
	data, err := c.fetch(ctx, c.cfg.ReportURL, filtersEndpoint, map[string]string{
		"client_id": clientID,
		"type":      reportNamesType,
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[reportRow](data)
	if err != nil {
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode report names: %w", err)}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })
	reports := make([]insight.Report, 0, len(rows))
	for _, r := range rows {
		if r.Hide || r.Name == "" {
			continue
		}
		label := r.Label
		if label == "" {
			label = r.Name
		}
		reports = append(reports, insight.Report{Name: r.Name.String(), Label: label.String()})
	}
	return reports, nil
}

// FetchFilterSchema fetches the filter panel of a report. An empty schema
// means the report does not exist.
func (c *Client) FetchFilterSchema(ctx context.Context, clientID, report string, ai bool) ([]insight.FilterFieldDescriptor, error) {
	aiFlag := "N"
	if ai {
		aiFlag = "Y"
	}
	data, err := c.fetch(ctx, c.cfg.ReportURL, filtersEndpoint, map[string]string{
		"client_id": clientID,
		"type":      report,
		"ai":        aiFlag,
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[filterFieldRow](data)
	if err != nil {
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode filter schema: %w", err)}
	}
	if len(rows) == 0 {
		return nil, insight.ErrReportNotFound
	}

	fields := make([]insight.FilterFieldDescriptor, len(rows))
	for i, r := range rows {
		fields[i] = r.toDomain()
	}
	return fields, nil
}

// FetchOptions fetches a dropdown source. The option rows are passed through.
func (c *Client) FetchOptions(ctx context.Context, clientID string, kind insight.OptionKind, params map[string]string) (json.RawMessage, error) {
	body := make(map[string]string, len(params)+2)
	for k, v := range params {
		body[k] = v
	}
	body["client_id"] = clientID
	body["type"] = string(kind)

	data, err := c.fetch(ctx, c.cfg.ReportURL, filtersEndpoint, body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return json.RawMessage("[]"), nil
	}
	return data, nil
}

// RunReport runs a report with prepared filters and returns the raw reply.
// The endpoint comes from the configured report endpoints, keyed by name or
// "<name>_ai" for AI runs, falling back to the report name itself.
func (c *Client) RunReport(ctx context.Context, clientID, report string, ai bool, filters map[string]any) (json.RawMessage, error) {
	data := make(map[string]any, len(filters)+1)
	for k, v := range filters {
		data[k] = v
	}
	data["client_id"] = clientID

	raw, err := c.post(ctx, c.cfg.ReportURL, c.reportEndpoint(report, ai), map[string]any{"DATA": data}, authNone)
	if err != nil {
		return nil, err
	}
	c.observe("report", ResultOK)
	return raw, nil
}

func (c *Client) reportEndpoint(report string, ai bool) string {
	if ai {
		if ep, ok := c.cfg.ReportEndpoints[report+"_ai"]; ok && ep != "" {
			return ep
		}
	}
	if ep, ok := c.cfg.ReportEndpoints[report]; ok && ep != "" {
		return ep
	}
	return report
}

var _ insight.ReportGateway = (*Client)(nil)
