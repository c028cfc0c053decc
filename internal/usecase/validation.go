package usecase

import (
	"sort"

	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
)

// NormalizeTiers sorts a tier schedule ascending by threshold. Validation
// relies on this order, as does bracket selection in the conversion engine.
func NormalizeTiers(tiers []model.Tier) []model.Tier {
	sorted := make([]model.Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinAmount < sorted[j].MinAmount })
	return sorted
}

// ValidateSystemConfig checks a fully merged points-system configuration.
// Tiers must already be normalized.
func ValidateSystemConfig(system *model.PointsSystem) error {
	if system.Name == "" {
		return &domainErrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if system.UnitSingular == "" {
		return &domainErrors.ValidationError{Field: "unit_singular", Reason: "must not be empty"}
	}
	if system.UnitPlural == "" {
		return &domainErrors.ValidationError{Field: "unit_plural", Reason: "must not be empty"}
	}

	switch system.ConversionType {
	case model.ConversionFixed:
		if system.FixedRate <= 0 {
			return &domainErrors.ValidationError{Field: "fixed_rate", Reason: "must be positive"}
		}
	case model.ConversionTiered:
		if len(system.Tiers) == 0 {
			return &domainErrors.ValidationError{Field: "tiers", Reason: "must not be empty"}
		}
		for i, tier := range system.Tiers {
			if tier.MinAmount < 0 {
				return &domainErrors.ValidationError{Field: "tiers", Reason: "thresholds must not be negative"}
			}
			if tier.Rate <= 0 {
				return &domainErrors.ValidationError{Field: "tiers", Reason: "rates must be positive"}
			}
			if i > 0 && tier.MinAmount == system.Tiers[i-1].MinAmount {
				return &domainErrors.ValidationError{Field: "tiers", Reason: "duplicate minimum amounts"}
			}
		}
	default:
		return &domainErrors.ValidationError{Field: "conversion_type", Reason: "must be fixed or tiered"}
	}

	return nil
}

// ApplySystemUpdate merges a partial update over an existing configuration
// and returns the merged copy; the stored value is untouched.
func ApplySystemUpdate(system *model.PointsSystem, update *model.SystemUpdate) *model.PointsSystem {
	merged := *system
	merged.Tiers = append([]model.Tier(nil), system.Tiers...)

	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.UnitSingular != nil {
		merged.UnitSingular = *update.UnitSingular
	}
	if update.UnitPlural != nil {
		merged.UnitPlural = *update.UnitPlural
	}
	if update.ConversionType != nil {
		merged.ConversionType = *update.ConversionType
	}
	if update.FixedRate != nil {
		merged.FixedRate = *update.FixedRate
	}
	if update.Tiers != nil {
		merged.Tiers = append([]model.Tier(nil), update.Tiers...)
	}
	if update.Enabled != nil {
		merged.Enabled = *update.Enabled
	}
	if update.AvailableForRedemption != nil {
		merged.AvailableForRedemption = *update.AvailableForRedemption
	}

	return &merged
}
