package conversion

import (
	"math"

	"github.com/ticketo/points/internal/domain/model"
)

// PointsForAmount converts a purchase amount into whole points according to
// the system's conversion rule. Missing or empty configuration yields zero;
// the result is never negative and the function never fails.
func PointsForAmount(amount float64, system *model.PointsSystem) int64 {
	if system == nil || amount <= 0 {
		return 0
	}

	switch system.ConversionType {
	case model.ConversionFixed:
		if system.FixedRate <= 0 {
			return 0
		}
		return int64(math.Floor(amount * system.FixedRate))
	case model.ConversionTiered:
		tier, ok := tierForAmount(system.Tiers, amount)
		if !ok {
			return 0
		}
		return int64(math.Floor(amount * tier.Rate))
	default:
		return 0
	}
}

// AmountForPoints converts points back into a monetary amount. For tiered
// systems the rate comes from the highest bracket whose implied amount lies
// within the bracket itself, so an accrual redeemed within the same bracket
// round-trips; below every bracket the lowest tier's rate applies. The result
// is not rounded, callers round at presentation time.
func AmountForPoints(points int64, system *model.PointsSystem) float64 {
	if system == nil || points <= 0 {
		return 0
	}

	switch system.ConversionType {
	case model.ConversionFixed:
		if system.FixedRate <= 0 {
			return 0
		}
		return float64(points) / system.FixedRate
	case model.ConversionTiered:
		if len(system.Tiers) == 0 {
			return 0
		}
		for i := len(system.Tiers) - 1; i >= 0; i-- {
			tier := system.Tiers[i]
			if tier.Rate <= 0 {
				continue
			}
			amount := float64(points) / tier.Rate
			if amount >= tier.MinAmount {
				return amount
			}
		}
		if lowest := system.Tiers[0]; lowest.Rate > 0 {
			return float64(points) / lowest.Rate
		}
		return 0
	default:
		return 0
	}
}

// tierForAmount selects the bracket with the largest MinAmount not exceeding
// amount. Tiers are stored sorted ascending by MinAmount.
func tierForAmount(tiers []model.Tier, amount float64) (model.Tier, bool) {
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i].MinAmount <= amount {
			return tiers[i], true
		}
	}
	return model.Tier{}, false
}
