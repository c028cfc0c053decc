package dto

import (
	"time"

	"github.com/ticketo/points/internal/domain/model"
)

// TierDTO describes one bracket of a tiered conversion schedule.
type TierDTO struct {
	MinAmount float64 `json:"min_amount"`
	Rate      float64 `json:"rate"`
}

// SystemRequest describes create and update payloads for a points system.
// Absent fields stay nil so partial updates can tell "unset" from zero.
type SystemRequest struct {
	Name                   *string   `json:"name"`
	UnitSingular           *string   `json:"unit_singular"`
	UnitPlural             *string   `json:"unit_plural"`
	ConversionType         *string   `json:"conversion_type"`
	FixedRate              *float64  `json:"fixed_rate"`
	Tiers                  []TierDTO `json:"tiers"`
	Enabled                *bool     `json:"enabled"`
	AvailableForRedemption *bool     `json:"available_for_redemption"`
}

// SystemResponse describes a points system configuration.
type SystemResponse struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	UnitSingular           string    `json:"unit_singular"`
	UnitPlural             string    `json:"unit_plural"`
	ConversionType         string    `json:"conversion_type"`
	FixedRate              float64   `json:"fixed_rate,omitempty"`
	Tiers                  []TierDTO `json:"tiers,omitempty"`
	Enabled                bool      `json:"enabled"`
	AvailableForRedemption bool      `json:"available_for_redemption"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TiersFromDTO converts a request schedule to the domain representation.
func TiersFromDTO(tiers []TierDTO) []model.Tier {
	if tiers == nil {
		return nil
	}
	converted := make([]model.Tier, 0, len(tiers))
	for _, tier := range tiers {
		converted = append(converted, model.Tier{MinAmount: tier.MinAmount, Rate: tier.Rate})
	}
	return converted
}

// SystemResponseFrom maps a domain points system to its response shape.
func SystemResponseFrom(system *model.PointsSystem) SystemResponse {
	resp := SystemResponse{
		ID:                     system.ID.String(),
		Name:                   system.Name,
		UnitSingular:           system.UnitSingular,
		UnitPlural:             system.UnitPlural,
		ConversionType:         string(system.ConversionType),
		FixedRate:              system.FixedRate,
		Enabled:                system.Enabled,
		AvailableForRedemption: system.AvailableForRedemption,
		CreatedAt:              system.CreatedAt,
		UpdatedAt:              system.UpdatedAt,
	}
	for _, tier := range system.Tiers {
		resp.Tiers = append(resp.Tiers, TierDTO{MinAmount: tier.MinAmount, Rate: tier.Rate})
	}
	return resp
}
