package templates

// Rendering for import_summary.templ, mirroring its markup.

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ImportSummaryPage renders a full HTML document.
func ImportSummaryPage(data ImportSummaryData) templ.Component {
	return page(data.ProjectName, ImportSummaryContent(data))
}

// ImportSummaryContent renders the summary without the surrounding document,
// for HTMX swaps.
func ImportSummaryContent(data ImportSummaryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		fmt.Fprintf(w, `<section id="import-summary" data-import-id="%s">`, esc(data.ID))
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(data.ProjectName))
		fmt.Fprintf(w, `<p class="site">%s &middot; %s</p>`, esc(data.SiteName), esc(data.Location))
		fmt.Fprintf(w, `<p class="meta">Surveyed %s &middot; %s</p>`, esc(data.SurveyDate), esc(data.Source))
		if data.EquipmentSummary != "" {
			fmt.Fprintf(w, `<p class="equipment">%s</p>`, esc(data.EquipmentSummary))
		}
		if data.WarningCount > 0 {
			fmt.Fprintf(w, `<p class="warnings">%d import warning(s)</p>`, data.WarningCount)
		}

		io.WriteString(w, `<table><thead><tr><th>#</th><th>Category</th><th>Description</th><th>Manufacturer</th><th>Model</th><th>Qty</th><th>Unit Price</th><th>Line Total</th><th>Labor Hrs</th></tr></thead><tbody>`)
		for _, l := range data.Lines {
			fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				l.Index, esc(l.Category), esc(l.Description), esc(l.Manufacturer), esc(l.Model),
				l.Quantity, esc(l.UnitPrice), esc(l.LineTotal), esc(l.LaborHours))
		}
		if len(data.Lines) == 0 {
			io.WriteString(w, `<tr><td colspan="9">No line items</td></tr>`)
		}
		io.WriteString(w, `</tbody></table>`)

		fmt.Fprintf(w, `<dl class="totals"><dt>Equipment</dt><dd>%s</dd><dt>Labor Hours</dt><dd>%s</dd><dt>Labor</dt><dd>%s</dd><dt>Grand Total</dt><dd>%s</dd></dl>`,
			esc(data.TotalValue), esc(data.LaborHours), esc(data.LaborCost), esc(data.GrandTotal))

		fmt.Fprintf(w, `<p class="exports"><a href="/imports/%s/export/excel">Excel</a> <a href="/imports/%s/export/pdf">PDF</a></p>`,
			esc(data.ID), esc(data.ID))
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// ImportListPage renders the imports index.
func ImportListPage(items []ImportListItem) templ.Component {
	return page("Survey Imports", importList(items))
}

func importList(items []ImportListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		io.WriteString(w, `<h1>Survey Imports</h1><table><thead><tr><th>Project</th><th>Site</th><th>Source</th><th>Value</th><th>Imported</th></tr></thead><tbody>`)
		for _, it := range items {
			fmt.Fprintf(w, `<tr><td><a href="/imports/%s">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				esc(it.ID), esc(it.ProjectName), esc(it.SiteName), esc(it.Source), esc(it.TotalValue), esc(it.Created))
		}
		if len(items) == 0 {
			io.WriteString(w, `<tr><td colspan="5">No imports yet</td></tr>`)
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}

func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body>`,
			templ.EscapeString(title))
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
