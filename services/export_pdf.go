package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a bill-of-materials PDF from export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)

	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}

	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, site line and date to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	site := data.SiteName
	if data.Location != "" {
		site += " (" + data.Location + ")"
	}

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("Site: %s", site), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
	)

	if data.EquipmentSummary != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(data.EquipmentSummary, props.Text{
						Size:  8,
						Align: align.Left,
						Color: grey,
					}),
				),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the BOM table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Manufacturer", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Model", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Line Total", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Labor Hrs", headerText)).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a single data row, shading alternate rows.
func addTableRow(m core.Maroto, r ExportRow, shaded bool) {
	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	desc := r.Description
	if r.Category != "" {
		desc = fmt.Sprintf("[%s] %s", r.Category, desc)
	}

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(3).Add(text.New(desc, leftText)),
		col.New(2).Add(text.New(r.Manufacturer, leftText)),
		col.New(2).Add(text.New(r.Model, leftText)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", r.Qty), rightText)),
		col.New(1).Add(text.New(FormatPrice(r.UnitPrice), rightText)),
		col.New(1).Add(text.New(FormatUSD(r.LineTotal), rightText)),
		col.New(1).Add(text.New(formatQty(r.LaborHours), rightText)),
	}

	if shaded {
		cell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
		for i, c := range cols {
			cols[i] = c.WithStyle(cell)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

// addSummary adds the equipment, labor and grand totals at the bottom of the PDF.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	lines := []struct {
		label string
		value string
	}{
		{"Equipment Total", FormatUSD(data.TotalValue)},
		{"Labor Hours", formatQty(data.TotalLaborHours)},
		{fmt.Sprintf("Labor (%s/hr)", FormatUSD(data.LaborRate)), FormatUSD(data.LaborCost)},
		{"Grand Total", FormatUSD(data.GrandTotal())},
	}

	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(l.value, style)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the generated-date line and the warning count, if any.
func addFooter(m core.Maroto, data ExportData) {
	footer := fmt.Sprintf("Generated on %s", data.CreatedDate)
	if data.WarningCount > 0 {
		footer += fmt.Sprintf(" | %d import warning(s)", data.WarningCount)
	}

	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(footer, props.Text{
					Size:  7,
					Align: align.Left,
					Color: &props.Color{Red: 140, Green: 140, Blue: 140},
				}),
			),
		),
	)
}
