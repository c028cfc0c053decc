package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversionType selects how purchase amounts map to points.
type ConversionType string

const (
	ConversionFixed  ConversionType = "fixed"
	ConversionTiered ConversionType = "tiered"
)

// Tier is a single bracket of a tiered conversion schedule. The bracket with
// the largest MinAmount not exceeding the purchase amount governs the whole
// amount.
type Tier struct {
	MinAmount float64 `json:"min_amount"`
	Rate      float64 `json:"rate"`
}

// PointsSystem is a named loyalty program scoped to a tenant.
type PointsSystem struct {
	ID                     uuid.UUID
	TenantID               string
	Name                   string
	UnitSingular           string
	UnitPlural             string
	ConversionType         ConversionType
	FixedRate              float64
	Tiers                  []Tier
	Enabled                bool
	AvailableForRedemption bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SystemUpdate carries a partial configuration change. Nil fields keep the
// stored value; Tiers replaces the whole schedule when non-nil.
type SystemUpdate struct {
	Name                   *string
	UnitSingular           *string
	UnitPlural             *string
	ConversionType         *ConversionType
	FixedRate              *float64
	Tiers                  []Tier
	Enabled                *bool
	AvailableForRedemption *bool
}
