// Package xlsx renders the selected variant of a quote as a spreadsheet.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/fencequote/internal/config"
	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/format"
)

const (
	sheetName   = "Quote"
	dateLayout  = "2006-01-02"
	firstColumn = 1
	lastColumn  = 5
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var sections = []struct {
	category models.ItemCategory
	title    string
}{
	{models.ItemMaterial, "Materials"},
	{models.ItemLabor, "Labor"},
	{models.ItemRemoval, "Removal"},
}

// Exporter builds quote workbooks branded for one business.
type Exporter struct {
	business config.BusinessConfig
}

// NewExporter creates an exporter for the given business details.
func NewExporter(business config.BusinessConfig) *Exporter {
	return &Exporter{business: business}
}

// Filename suggests a download name for the quote workbook.
func (e *Exporter) Filename(quote models.Quote) string {
	id := quote.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("quote-%s-%s.xlsx", quote.CreatedAt.Format(dateLayout), id)
}

// Quote renders the quote's selected variant: items grouped by category, then
// custom items, then the subtotal, markup, tax and total.
func (e *Exporter) Quote(quote models.Quote) ([]byte, error) {
	variant, ok := quote.Variant(quote.SelectedVariant)
	if !ok {
		return nil, fmt.Errorf("quote %s has no %q variant", quote.ID, quote.SelectedVariant)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := e.styles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, row: 1}
	w.put(st.title, e.business.Name)
	w.skip()
	w.put(0, "Quote", quote.ID)
	w.put(0, "Date", quote.CreatedAt.Format(dateLayout))
	w.put(0, "Client", quote.Client.Name)
	if quote.Client.Address != "" {
		w.put(0, "Address", quote.Client.Address)
	}
	w.put(0, "Fence", fmt.Sprintf("%s ft of %s at %s ft, %s terrain",
		format.Quantity(quote.Inputs.Length),
		strings.ReplaceAll(string(quote.Inputs.FenceType), "_", " "),
		format.Quantity(quote.Inputs.Height),
		quote.Inputs.Terrain))
	w.put(0, "Option", string(variant.Type))
	w.skip()

	w.put(st.header, "Item", "Qty", "Unit", "Unit price", "Total")
	for _, section := range sections {
		items := itemsIn(variant.Items, section.category)
		if len(items) == 0 {
			continue
		}
		w.put(st.section, section.title)
		for _, item := range items {
			w.line(st.money, item.Name, item.Quantity, item.Unit, item.UnitPrice, item.Total)
		}
	}
	if len(quote.CustomItems) > 0 {
		w.put(st.section, "Additional items")
		for _, item := range quote.CustomItems {
			w.line(st.money, item.Name, item.Quantity, "", item.UnitPrice, item.Total)
		}
	}
	w.skip()

	w.total(st.label, st.money, "Subtotal", variant.Subtotal)
	w.total(st.label, st.money, fmt.Sprintf("Markup (%s)", format.Percent(variant.MarkupPercent)), variant.MarkupAmount)
	taxLabel := "Tax"
	if variant.TaxPercent != nil {
		taxLabel = fmt.Sprintf("Tax (%s)", format.Percent(*variant.TaxPercent))
	}
	w.total(st.label, st.money, taxLabel, variant.TaxAmount)
	w.total(st.grandLabel, st.grandMoney, "Total", variant.Total)

	if w.err != nil {
		return nil, w.err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 42); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "E", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	title, header, section, label, money, grandLabel, grandMoney int
}

func (e *Exporter) styles(f *excelize.File) (styles, error) {
	numFmt := fmt.Sprintf(`"%s"#,##0.00`, strings.ReplaceAll(e.business.CurrencySymbol, `"`, ""))
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 14}},
		{Font: &excelize.Font{Bold: true}, Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}},
		{Font: &excelize.Font{Bold: true, Italic: true}},
		{Alignment: &excelize.Alignment{Horizontal: "right"}},
		{CustomNumFmt: &numFmt},
		{Font: &excelize.Font{Bold: true}, Alignment: &excelize.Alignment{Horizontal: "right"}},
		{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt},
	}
	ids := make([]int, len(defs))
	for i, def := range defs {
		id, err := f.NewStyle(def)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		ids[i] = id
	}
	return styles{
		title:      ids[0],
		header:     ids[1],
		section:    ids[2],
		label:      ids[3],
		money:      ids[4],
		grandLabel: ids[5],
		grandMoney: ids[6],
	}, nil
}

func itemsIn(items []models.QuoteItem, category models.ItemCategory) []models.QuoteItem {
	var out []models.QuoteItem
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *sheetWriter) cell(col int) string {
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil && w.err == nil {
		w.err = err
	}
	return name
}

func (w *sheetWriter) set(col int, value any, style int) {
	if w.err != nil {
		return
	}
	cell := w.cell(col)
	if err := w.f.SetCellValue(sheetName, cell, value); err != nil {
		w.err = err
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(sheetName, cell, cell, style)
	}
}

// put writes values left to right and styles the whole row.
func (w *sheetWriter) put(style int, values ...any) {
	for i, v := range values {
		w.set(firstColumn+i, v, 0)
	}
	if style != 0 && w.err == nil {
		w.err = w.f.SetCellStyle(sheetName, w.cell(firstColumn), w.cell(lastColumn), style)
	}
	w.row++
}

func (w *sheetWriter) line(money int, name string, qty float64, unit string, price, total models.Cents) {
	w.set(1, name, 0)
	w.set(2, qty, 0)
	w.set(3, unit, 0)
	w.set(4, price.Float(), money)
	w.set(5, total.Float(), money)
	w.row++
}

func (w *sheetWriter) total(labelStyle, moneyStyle int, label string, amount models.Cents) {
	w.set(4, label, labelStyle)
	w.set(5, amount.Float(), moneyStyle)
	w.row++
}

func (w *sheetWriter) skip() {
	w.row++
}
