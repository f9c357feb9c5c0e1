package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Sivu {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func (p *MarotoProvider) RenderInvoice(ctx context.Context, doc InvoiceDoc) ([]byte, error) {
	_ = ctx
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "Lasku", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Laskun numero: "+doc.InvoiceNumber, props.Text{Top: 0}),
			text.New("Viitenumero: "+doc.ReferenceNumber, props.Text{Top: 5}),
			text.New("Laskun päivä: "+doc.IssueDate, props.Text{Top: 10}),
			text.New("Eräpäivä: "+doc.DueDate, props.Text{Top: 15}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(doc.SellerName, props.Text{Style: fontstyle.Bold}),
			text.New(doc.SellerDetails, props.Text{Top: 5, Size: 9}),
		),
		col.New(6).Add(
			text.New("Vastaanottaja", props.Text{Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Top: 5}),
			text.New(doc.CustomerDetails, props.Text{Top: 10, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(5, "Kuvaus", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Määrä", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "À-hinta", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "ALV %", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Yhteensä", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range doc.Lines {
		m.AddRow(8,
			text.NewCol(5, line.Description, props.Text{Size: 9}),
			text.NewCol(1, line.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.VatRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Veroton", props.Text{Size: 9}),
		text.NewCol(2, doc.TotalNet, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "ALV", props.Text{Size: 9}),
		text.NewCol(2, doc.TotalVat, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Yhteensä", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.TotalGross, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if doc.Notes != "" {
		m.AddRow(15,
			text.NewCol(12, doc.Notes, props.Text{Size: 9, Top: 5}),
		)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return generated.GetBytes(), nil
}

func (p *MarotoProvider) RenderReceipt(ctx context.Context, doc ReceiptDoc) ([]byte, error) {
	_ = ctx
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "Kuitti", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Kuitin numero: "+doc.ReceiptNumber, props.Text{Top: 0}),
			text.New("Päivämäärä: "+doc.Date, props.Text{Top: 5}),
			text.New("Asiakas: "+doc.CustomerName, props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, doc.Description, props.Text{Size: 10}),
	)

	m.AddRow(8,
		text.NewCol(6, "Veroton", props.Text{Size: 9}),
		text.NewCol(6, doc.Net, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(6, "ALV "+doc.VatRate, props.Text{Size: 9}),
		text.NewCol(6, doc.Vat, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(6, "Yhteensä", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, doc.Gross, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return generated.GetBytes(), nil
}

func (p *MarotoProvider) RenderReport(ctx context.Context, doc ReportDoc) ([]byte, error) {
	_ = ctx
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, doc.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, doc.Period, props.Text{Size: 10}),
	)

	width := columnWidth(len(doc.Columns))
	headerCols := make([]core.Col, 0, len(doc.Columns))
	for i, name := range doc.Columns {
		headerCols = append(headerCols, text.NewCol(width, name, props.Text{
			Style: fontstyle.Bold,
			Size:  9,
			Align: columnAlign(i),
		}))
	}
	m.AddRow(10, headerCols...)

	for _, row := range doc.Rows {
		cols := make([]core.Col, 0, len(row))
		for i, cell := range row {
			cols = append(cols, text.NewCol(width, cell, props.Text{
				Size:  9,
				Align: columnAlign(i),
			}))
		}
		m.AddRow(8, cols...)
	}

	if len(doc.Totals) > 0 {
		cols := make([]core.Col, 0, len(doc.Totals))
		for i, cell := range doc.Totals {
			cols = append(cols, text.NewCol(width, cell, props.Text{
				Style: fontstyle.Bold,
				Size:  9,
				Align: columnAlign(i),
			}))
		}
		m.AddRow(10, cols...)
	}

	if doc.Footnote != "" {
		m.AddRow(10,
			text.NewCol(12, doc.Footnote, props.Text{Size: 8, Top: 4}),
		)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return generated.GetBytes(), nil
}

// columnWidth spreads columns over maroto's 12-column grid.
func columnWidth(count int) int {
	if count <= 0 {
		return 12
	}
	width := 12 / count
	if width < 1 {
		width = 1
	}
	return width
}

func columnAlign(index int) align.Type {
	if index == 0 {
		return align.Left
	}
	return align.Right
}
