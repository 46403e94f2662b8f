package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `budgetline tracks project budgets: a baseline plus overhead, adjusted by approved change orders, consumed by costs.

Core concepts:
- Project: baseline budget, overhead percent, currency, start and optional end date. Owner plus collaborators.
- Cost: a positive spend entry with an economic date (YYYY-MM-DD). Every cost counts toward cost to date.
- Change order: a signed budget adjustment. Only APPROVED change orders change the total budget. pending -> approved | rejected, once.
- Forecast snapshot: an immutable, versioned record of the figures at a point in time.

Workflow:
1) list_projects, then get_project_summary to read the current figures and insight.
2) add_cost / edit_cost / delete_cost and create_change_order / approve_change_order / reject_change_order to mutate.
3) get_project_summary again; figures are recomputed from the ledgers on every read.
4) save_forecast_snapshot when a point-in-time record is wanted.

Docs:
- budgetline://docs/budget-rules (formulas and insight rules)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "budgetline://docs/budget-rules",
		Name:        "docs_budget_rules",
		Title:       "Budget rules",
		Description: "How total budget, remaining budget, burn rate, completion projection and the insight are computed.",
		Content: `# Budget rules

## Figures

- overhead amount = baseline budget * overhead percent / 100
- approved change order total = sum of approved positive amounts minus approved negative amounts
- total budget = baseline budget + overhead amount + approved change order total
- cost to date = sum of all cost amounts
- remaining budget = total budget - cost to date (negative when over budget)

Pending and rejected change orders never affect the figures.

## Burn rate

Fewer than two costs: 0. Otherwise cost to date divided by the span in days
between the earliest and latest economic dates, with a floor of one day.

## Completion projection

- No end date: no projection.
- End date today or earlier: completed.
- Otherwise projected cost = cost to date + burn rate * days until end, and
  projected remaining = total budget - projected cost.

## Insight

Checked in order, first match wins:

1. No costs: no data yet.
2. Remaining budget below zero: over budget.
3. Burn rate zero: percent spent only, flagged when at or above 90%.
4. Otherwise days of runway = floor(remaining / burn rate).

Amounts are not rounded internally; present them with the currency's minor units.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
