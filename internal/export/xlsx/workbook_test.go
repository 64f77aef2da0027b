package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/fencequote/internal/config"
	"github.com/mamadbah2/fencequote/internal/domain/models"
)

func sampleQuote() models.Quote {
	tax := 8.0
	standard := models.QuoteVariant{
		Type:          models.VariantStandard,
		MarkupPercent: 20,
		TaxPercent:    &tax,
		Items: []models.QuoteItem{
			{Name: "4x4 PT post", Quantity: 14, Unit: "ea", UnitPrice: 2500, Total: 35000, Category: models.ItemMaterial},
			{Name: "Fence installation", Quantity: 15, Unit: "hr", UnitPrice: 4500, Total: 67500, Category: models.ItemLabor},
		},
		MaterialsTotal: 35000,
		LaborTotal:     67500,
		CustomTotal:    10000,
		Subtotal:       112500,
		MarkupAmount:   22500,
		TaxAmount:      10800,
		Total:          145800,
	}
	budget := standard
	budget.Type = models.VariantBudget
	return models.Quote{
		ID:              "3f2b9c1e-aaaa-bbbb-cccc-000000000000",
		Client:          models.ClientInfo{Name: "Jane Doe", Address: "12 Elm St"},
		Inputs:          models.QuoteInputs{FenceType: models.FenceWoodPrivacy, Length: 100, Height: 6, Terrain: models.TerrainFlat},
		Variants:        []models.QuoteVariant{budget, standard},
		SelectedVariant: models.VariantStandard,
		CustomItems:     []models.CustomItem{{ID: "c1", Name: "Haul-away", Quantity: 1, UnitPrice: 10000, Total: 10000}},
		CreatedAt:       time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	}
}

func openRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	return rows
}

func findRow(rows [][]string, col int, value string) []string {
	for _, row := range rows {
		if len(row) > col && row[col] == value {
			return row
		}
	}
	return nil
}

func TestExporterQuote(t *testing.T) {
	e := NewExporter(config.BusinessConfig{Name: "Acme Fence", CurrencySymbol: "$"})
	data, err := e.Quote(sampleQuote())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	rows := openRows(t, data)

	if rows[0][0] != "Acme Fence" {
		t.Fatalf("title = %q", rows[0][0])
	}
	if row := findRow(rows, 0, "Option"); row == nil || row[1] != "standard" {
		t.Fatalf("option row = %v", row)
	}
	if row := findRow(rows, 0, "Fence"); row == nil || row[1] != "100 ft of wood privacy at 6 ft, flat terrain" {
		t.Fatalf("fence row = %v", row)
	}

	for _, title := range []string{"Materials", "Labor", "Additional items"} {
		if findRow(rows, 0, title) == nil {
			t.Errorf("missing section %q", title)
		}
	}
	if findRow(rows, 0, "Removal") != nil {
		t.Error("empty removal section rendered")
	}

	post := findRow(rows, 0, "4x4 PT post")
	if post == nil || post[1] != "14" || post[3] != "25" || post[4] != "350" {
		t.Fatalf("post row = %v", post)
	}
	custom := findRow(rows, 0, "Haul-away")
	if custom == nil || custom[4] != "100" {
		t.Fatalf("custom row = %v", custom)
	}

	totals := map[string]string{
		"Subtotal":     "1125",
		"Markup (20%)": "225",
		"Tax (8%)":     "108",
		"Total":        "1458",
	}
	for label, want := range totals {
		row := findRow(rows, 3, label)
		if row == nil || len(row) < 5 || row[4] != want {
			t.Errorf("%s row = %v, want amount %s", label, row, want)
		}
	}
}

func TestExporterQuote_MissingSelectedVariant(t *testing.T) {
	q := sampleQuote()
	q.SelectedVariant = models.VariantPremium
	if _, err := NewExporter(config.BusinessConfig{Name: "Acme", CurrencySymbol: "$"}).Quote(q); err == nil {
		t.Fatal("Quote() error = nil, want missing variant error")
	}
}

func TestExporterFilename(t *testing.T) {
	got := NewExporter(config.BusinessConfig{}).Filename(sampleQuote())
	if got != "quote-2026-05-04-3f2b9c1e.xlsx" {
		t.Fatalf("Filename() = %q", got)
	}
}
