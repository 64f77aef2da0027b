package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/validation"
)

type memMaterials struct {
	records map[string]models.MaterialRecord
}

func (m *memMaterials) ListMaterials(_ context.Context, userID string, ft models.FenceType, activeOnly bool) ([]models.MaterialRecord, error) {
	var out []models.MaterialRecord
	for _, r := range m.records {
		if r.UserID != userID || (ft != "" && r.FenceType != ft) || (activeOnly && !r.IsActive) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memMaterials) GetMaterial(_ context.Context, userID, id string) (models.MaterialRecord, error) {
	r, ok := m.records[id]
	if !ok || r.UserID != userID {
		return models.MaterialRecord{}, models.ErrNotFound
	}
	return r, nil
}

func (m *memMaterials) CreateMaterial(_ context.Context, r models.MaterialRecord) error {
	m.records[r.ID] = r
	return nil
}

func (m *memMaterials) UpdateMaterial(_ context.Context, r models.MaterialRecord) error {
	if _, ok := m.records[r.ID]; !ok {
		return models.ErrNotFound
	}
	m.records[r.ID] = r
	return nil
}

type memSettings struct {
	saved map[string]models.CalculatorSettings
	err   error
}

func (m *memSettings) GetSettings(_ context.Context, userID string) (models.CalculatorSettings, error) {
	if m.err != nil {
		return models.CalculatorSettings{}, m.err
	}
	s, ok := m.saved[userID]
	if !ok {
		return models.CalculatorSettings{}, models.ErrNotFound
	}
	return s, nil
}

func (m *memSettings) SaveSettings(_ context.Context, s models.CalculatorSettings) error {
	m.saved[s.UserID] = s
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, *memMaterials, *memSettings) {
	materials := &memMaterials{records: map[string]models.MaterialRecord{}}
	settings := &memSettings{saved: map[string]models.CalculatorSettings{}}
	svc := NewService(materials, settings, validation.New(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, materials, settings
}

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	svc, _, _ := newTestService()
	got, err := svc.Settings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if got != models.DefaultSettings("u1") {
		t.Fatalf("Settings() = %+v, want defaults", got)
	}
}

func TestSettings_StoreError(t *testing.T) {
	svc, _, settings := newTestService()
	settings.err = errors.New("connection reset")
	if _, err := svc.Settings(context.Background(), "u1"); err == nil {
		t.Fatal("Settings() error = nil, want store error")
	}
}

func TestUpdateSettings(t *testing.T) {
	svc, _, settings := newTestService()

	got, err := svc.UpdateSettings(context.Background(), "u1", validation.SettingsForm{
		HourlyRate:           "52.50",
		DefaultMarkupPercent: "25",
		TaxPercent:           "7.25",
		TermsTemplate:        "Net 30.\n<script>Deposit</script> due on signing.",
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if got.HourlyRate != 5250 || got.DefaultMarkupPercent != 25 || got.TaxPercent != 7.25 {
		t.Fatalf("UpdateSettings() = %+v", got)
	}
	if got.TermsTemplate != "Net 30.\nscriptDeposit/script due on signing." {
		t.Fatalf("terms = %q", got.TermsTemplate)
	}
	if !got.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("updated_at = %v", got.UpdatedAt)
	}
	if settings.saved["u1"] != got {
		t.Fatalf("saved settings = %+v", settings.saved["u1"])
	}
}

func TestUpdateSettings_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		form  validation.SettingsForm
		field string
	}{
		{"zero hourly rate", validation.SettingsForm{HourlyRate: "0", DefaultMarkupPercent: "20", TaxPercent: "8"}, "hourly_rate"},
		{"hourly rate above cap", validation.SettingsForm{HourlyRate: "1000.01", DefaultMarkupPercent: "20", TaxPercent: "8"}, "hourly_rate"},
		{"markup above 100", validation.SettingsForm{HourlyRate: "45", DefaultMarkupPercent: "101", TaxPercent: "8"}, "default_markup_percent"},
		{"negative tax", validation.SettingsForm{HourlyRate: "45", DefaultMarkupPercent: "20", TaxPercent: "-1"}, "tax_percent"},
		{"tax above 50", validation.SettingsForm{HourlyRate: "45", DefaultMarkupPercent: "20", TaxPercent: "51"}, "tax_percent"},
		{"not a number", validation.SettingsForm{HourlyRate: "abc", DefaultMarkupPercent: "20", TaxPercent: "8"}, "hourly_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, settings := newTestService()
			_, err := svc.UpdateSettings(context.Background(), "u1", tt.form)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("UpdateSettings() error = %v, want *validation.Error", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("errors = %v, want entry for %s", verr.Fields, tt.field)
			}
			if len(settings.saved) != 0 {
				t.Fatal("invalid settings were saved")
			}
		})
	}
}

func TestMaterialLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, "u1", validation.MaterialForm{
		FenceType: "vinyl",
		Name:      "6ft vinyl panel",
		Unit:      "panel",
		UnitPrice: "89.99",
		Category:  "panel",
		SortOrder: 3,
	})
	if err != nil {
		t.Fatalf("CreateMaterial() error = %v", err)
	}
	if created.ID == "" || created.UserID != "u1" || !created.IsActive || created.UnitPrice != 8999 {
		t.Fatalf("CreateMaterial() = %+v", created)
	}

	inactive := false
	updated, err := svc.UpdateMaterial(ctx, "u1", created.ID, validation.MaterialForm{
		FenceType: "vinyl",
		Name:      "6ft vinyl panel",
		Unit:      "panel",
		UnitPrice: "94.50",
		Category:  "panel",
		SortOrder: 3,
		IsActive:  &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateMaterial() error = %v", err)
	}
	if updated.ID != created.ID || updated.UnitPrice != 9450 || updated.IsActive {
		t.Fatalf("UpdateMaterial() = %+v", updated)
	}

	all, err := svc.Materials(ctx, "u1", models.FenceVinyl)
	if err != nil || len(all) != 1 {
		t.Fatalf("Materials() = %v, %v", all, err)
	}
	active, err := svc.ActiveMaterials(ctx, "u1", models.FenceVinyl)
	if err != nil || len(active) != 0 {
		t.Fatalf("ActiveMaterials() = %v, %v; want none", active, err)
	}
}

func TestUpdateMaterial_OtherUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	form := validation.MaterialForm{FenceType: "vinyl", Name: "Post", Unit: "ea", UnitPrice: "30", Category: "post"}
	created, err := svc.CreateMaterial(ctx, "u1", form)
	if err != nil {
		t.Fatalf("CreateMaterial() error = %v", err)
	}
	if _, err := svc.UpdateMaterial(ctx, "u2", created.ID, form); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("UpdateMaterial() error = %v, want ErrNotFound", err)
	}
}

func TestMaterials_UnknownFenceType(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Materials(context.Background(), "u1", "bamboo")
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Materials() error = %v, want *validation.Error", err)
	}
}
