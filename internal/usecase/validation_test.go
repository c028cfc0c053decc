package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
)

func validFixed() *model.PointsSystem {
	return &model.PointsSystem{
		Name:           "Puntos",
		UnitSingular:   "punto",
		UnitPlural:     "puntos",
		ConversionType: model.ConversionFixed,
		FixedRate:      1,
	}
}

func TestValidateSystemConfig(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*model.PointsSystem)
		wantField string
	}{
		{"valid fixed", func(*model.PointsSystem) {}, ""},
		{"empty name", func(s *model.PointsSystem) { s.Name = "" }, "name"},
		{"empty singular unit", func(s *model.PointsSystem) { s.UnitSingular = "" }, "unit_singular"},
		{"empty plural unit", func(s *model.PointsSystem) { s.UnitPlural = "" }, "unit_plural"},
		{"fixed without rate", func(s *model.PointsSystem) { s.FixedRate = 0 }, "fixed_rate"},
		{"fixed negative rate", func(s *model.PointsSystem) { s.FixedRate = -2 }, "fixed_rate"},
		{"unknown conversion", func(s *model.PointsSystem) { s.ConversionType = "percentage" }, "conversion_type"},
		{"tiered without tiers", func(s *model.PointsSystem) {
			s.ConversionType = model.ConversionTiered
			s.Tiers = nil
		}, "tiers"},
		{"tiered negative threshold", func(s *model.PointsSystem) {
			s.ConversionType = model.ConversionTiered
			s.Tiers = []model.Tier{{MinAmount: -1, Rate: 1}}
		}, "tiers"},
		{"tiered zero rate", func(s *model.PointsSystem) {
			s.ConversionType = model.ConversionTiered
			s.Tiers = []model.Tier{{MinAmount: 0, Rate: 0}}
		}, "tiers"},
		{"tiered duplicate thresholds", func(s *model.PointsSystem) {
			s.ConversionType = model.ConversionTiered
			s.Tiers = []model.Tier{{MinAmount: 0, Rate: 1}, {MinAmount: 0, Rate: 2}}
		}, "tiers"},
		{"valid tiered", func(s *model.PointsSystem) {
			s.ConversionType = model.ConversionTiered
			s.Tiers = []model.Tier{{MinAmount: 0, Rate: 1}, {MinAmount: 100, Rate: 1.5}}
		}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			system := validFixed()
			tc.mutate(system)
			err := ValidateSystemConfig(system)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *domainErrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, ve.Field)
			}
		})
	}
}

func TestNormalizeTiersSortsAscending(t *testing.T) {
	tiers := []model.Tier{{MinAmount: 500, Rate: 2}, {MinAmount: 0, Rate: 1}, {MinAmount: 100, Rate: 1.5}}
	sorted := NormalizeTiers(tiers)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinAmount < sorted[i-1].MinAmount {
			t.Fatalf("tiers not sorted: %+v", sorted)
		}
	}
	// Input is left alone.
	if tiers[0].MinAmount != 500 {
		t.Fatalf("input mutated: %+v", tiers)
	}
}

func TestApplySystemUpdate(t *testing.T) {
	system := validFixed()
	system.Enabled = true
	system.AvailableForRedemption = true

	name := "Millas"
	enabled := false
	rate := 2.5
	merged := ApplySystemUpdate(system, &model.SystemUpdate{
		Name:      &name,
		Enabled:   &enabled,
		FixedRate: &rate,
	})

	if merged.Name != "Millas" || merged.Enabled || merged.FixedRate != 2.5 {
		t.Fatalf("unexpected merge: %+v", merged)
	}
	if merged.UnitSingular != "punto" || !merged.AvailableForRedemption {
		t.Fatalf("untouched fields changed: %+v", merged)
	}
	if system.Name != "Puntos" || !system.Enabled {
		t.Fatalf("original mutated: %+v", system)
	}

	tiered := model.ConversionTiered
	merged = ApplySystemUpdate(system, &model.SystemUpdate{
		ConversionType: &tiered,
		Tiers:          []model.Tier{{MinAmount: 0, Rate: 1}},
	})
	if merged.ConversionType != model.ConversionTiered || len(merged.Tiers) != 1 {
		t.Fatalf("unexpected tier merge: %+v", merged)
	}
}
