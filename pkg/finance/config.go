package finance

import (
	"github.com/shopspring/decimal"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// Default values. Percentages are expressed as percent (8.1 means 8.1%).
const (
	DefaultTaxRatePct              = 8.1
	DefaultMarginTargetPct         = 75.0
	DefaultMarginBonusThresholdPct = 73.0
	DefaultCommissionBaseRatePct   = 4.5
	DefaultDesignDeposit           = 250.0
)

// Bonus condition keys understood by [Config.CommissionBonusRates].
const (
	BonusTorqCompleted  = "torq_completed"
	BonusGPMBonusEarned = "gpm_bonus_earned"
)

// Config holds the tax, margin and commission policy.
type Config struct {
	TaxRatePct    float64
	TaxNote       string // jurisdiction breakdown shown under the tax line
	TaxStatute    string // statute reference for taxable service
	ExemptStatute string // statute reference for the B2B exemption

	MarginTargetPct         float64
	MarginBonusThresholdPct float64

	CommissionBaseRatePct float64
	CommissionTypeRates   map[string]float64 // base rate per commission type, overrides CommissionBaseRatePct
	CommissionBonusRates  map[string]float64 // additive rate per satisfied condition

	DesignDeposit float64 // deposit assumed on estimates when the record has none
}

// DefaultConfig returns the shop's standing policy.
func DefaultConfig() Config {
	return Config{
		TaxRatePct:              DefaultTaxRatePct,
		TaxNote:                 "WA State 6.5% + Pierce County 1.6% - service performed at shop (Artondale, unincorporated)",
		TaxStatute:              "WA vehicle wrap installation - taxable retail service (RCW 82.04.050)",
		ExemptStatute:           "Washington B2B Exemption - WAC 458-20-211",
		MarginTargetPct:         DefaultMarginTargetPct,
		MarginBonusThresholdPct: DefaultMarginBonusThresholdPct,
		CommissionBaseRatePct:   DefaultCommissionBaseRatePct,
		CommissionTypeRates: map[string]float64{
			"inbound": DefaultCommissionBaseRatePct,
		},
		CommissionBonusRates: map[string]float64{
			BonusTorqCompleted:  1.0,
			BonusGPMBonusEarned: 2.0,
		},
		DesignDeposit: DefaultDesignDeposit,
	}
}

// Validate rejects inconsistent policies.
func (c Config) Validate() error {
	if c.TaxRatePct < 0 || c.TaxRatePct > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "tax rate %.3f%% out of range", c.TaxRatePct)
	}
	if c.MarginTargetPct < c.MarginBonusThresholdPct {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margin target %.1f%% is below bonus threshold %.1f%%", c.MarginTargetPct, c.MarginBonusThresholdPct)
	}
	if c.CommissionBaseRatePct < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "commission base rate cannot be negative")
	}
	for cond, rate := range c.CommissionBonusRates {
		if rate < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "commission bonus %q cannot be negative", cond)
		}
	}
	if c.DesignDeposit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "design deposit cannot be negative")
	}
	return nil
}

// baseRate returns the commission base rate for a commission type.
func (c Config) baseRate(commissionType string) decimal.Decimal {
	if r, ok := c.CommissionTypeRates[commissionType]; ok {
		return decimal.NewFromFloat(r)
	}
	return decimal.NewFromFloat(c.CommissionBaseRatePct)
}
