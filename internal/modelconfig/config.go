// Package modelconfig holds the named model constants of the valuation
// engine: projection horizons, decay factors, recovery rates, multiple
// defaults, and the weighting-policy base vector and thresholds. Tests
// and deployments override them via YAML; code never hardcodes them.
package modelconfig

import "github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"

// Config is the full set of model constants
type Config struct {
	Discounting Discounting `yaml:"discounting" json:"discounting"`
	Multiples   Multiples   `yaml:"multiples" json:"multiples"`
	Assets      Assets      `yaml:"assets" json:"assets"`
	Weighting   Weighting   `yaml:"weighting" json:"weighting"`
	Confidence  Confidence  `yaml:"confidence" json:"confidence"`
}

// Discounting controls the DCF projections
type Discounting struct {
	// CostOfDebt is an estimated fixed rate, not derived from the record
	CostOfDebt float64 `yaml:"cost_of_debt" json:"cost_of_debt"`

	FCFEYears       int     `yaml:"fcfe_years" json:"fcfe_years"`
	FCFEGrowthCap   float64 `yaml:"fcfe_growth_cap" json:"fcfe_growth_cap"`
	FCFEGrowthDecay float64 `yaml:"fcfe_growth_decay" json:"fcfe_growth_decay"`

	FCFFYears     int     `yaml:"fcff_years" json:"fcff_years"`
	FCFFFlatYears int     `yaml:"fcff_flat_years" json:"fcff_flat_years"`
	FCFFGrowthCap float64 `yaml:"fcff_growth_cap" json:"fcff_growth_cap"`
	FCFFFadeShare float64 `yaml:"fcff_fade_share" json:"fcff_fade_share"`
}

// Multiples controls the relative valuation methods
type Multiples struct {
	// EBITDAMarkup estimates EBITDA from operating income (D&A add-back)
	EBITDAMarkup float64 `yaml:"ebitda_markup" json:"ebitda_markup"`
	// Defaults apply when the record carries no industry benchmark
	DefaultPE       float64 `yaml:"default_pe" json:"default_pe"`
	DefaultEVEBITDA float64 `yaml:"default_ev_ebitda" json:"default_ev_ebitda"`
}

// Assets controls the asset-based methods
type Assets struct {
	IntangibleAssetPct      float64 `yaml:"intangible_asset_pct" json:"intangible_asset_pct"`
	LiquidationRecoveryRate float64 `yaml:"liquidation_recovery_rate" json:"liquidation_recovery_rate"`
}

// Weighting controls the dynamic weighting policy
type Weighting struct {
	// Base is the starting weight vector over all method keys; must sum to 1
	Base map[string]float64 `yaml:"base" json:"base"`

	// CyclicalKeywords mark heavy/cyclical industries by substring match
	CyclicalKeywords []string `yaml:"cyclical_keywords" json:"cyclical_keywords"`

	LargeCapThreshold      float64 `yaml:"large_cap_threshold" json:"large_cap_threshold"`
	LeverageThreshold      float64 `yaml:"leverage_threshold" json:"leverage_threshold"`
	BetaThreshold          float64 `yaml:"beta_threshold" json:"beta_threshold"`
	DividendYieldThreshold float64 `yaml:"dividend_yield_threshold" json:"dividend_yield_threshold"`

	// DampenUpsidePct halves a method's weight beyond this |upside|;
	// ExcludeUpsidePct zeroes it entirely.
	DampenUpsidePct  float64 `yaml:"dampen_upside_pct" json:"dampen_upside_pct"`
	ExcludeUpsidePct float64 `yaml:"exclude_upside_pct" json:"exclude_upside_pct"`

	// AssetFloorWeight restores a minimal book-value weight for
	// asset-heavy cyclicals whose book weight was zeroed by quality rules
	AssetFloorWeight float64 `yaml:"asset_floor_weight" json:"asset_floor_weight"`
}

// Confidence holds the coefficient-of-variation bands
type Confidence struct {
	HighCV   float64 `yaml:"high_cv" json:"high_cv"`
	MediumCV float64 `yaml:"medium_cv" json:"medium_cv"`
}

// Default returns the documented model constants
func Default() *Config {
	return &Config{
		Discounting: Discounting{
			CostOfDebt:      0.04,
			FCFEYears:       5,
			FCFEGrowthCap:   0.15,
			FCFEGrowthDecay: 0.85,
			FCFFYears:       10,
			FCFFFlatYears:   5,
			FCFFGrowthCap:   0.12,
			FCFFFadeShare:   0.7,
		},
		Multiples: Multiples{
			EBITDAMarkup:    1.15,
			DefaultPE:       16.0,
			DefaultEVEBITDA: 12.0,
		},
		Assets: Assets{
			IntangibleAssetPct:      0.07,
			LiquidationRecoveryRate: 0.70,
		},
		Weighting: Weighting{
			Base: map[string]float64{
				string(contracts.MethodFCFE):                0.20,
				string(contracts.MethodFCFF):                0.20,
				string(contracts.MethodDDM):                 0.10,
				string(contracts.MethodPERelative):          0.12,
				string(contracts.MethodEVEBITDA):            0.12,
				string(contracts.MethodBookValue):           0.06,
				string(contracts.MethodTangibleBookValue):   0.04,
				string(contracts.MethodLiquidationValue):    0.02,
				string(contracts.MethodCapitalizedEarnings): 0.09,
				string(contracts.MethodEarningsPowerValue):  0.05,
			},
			CyclicalKeywords: []string{
				"auto", "steel", "mining", "metals", "chemical",
				"construction", "machinery", "industrial", "shipbuilding",
				"airline", "semiconductor", "oil", "gas", "paper",
			},
			LargeCapThreshold:      100_000_000_000,
			LeverageThreshold:      2.0,
			BetaThreshold:          1.3,
			DividendYieldThreshold: 0.03,
			DampenUpsidePct:        100,
			ExcludeUpsidePct:       150,
			AssetFloorWeight:       0.05,
		},
		Confidence: Confidence{
			HighCV:   0.20,
			MediumCV: 0.40,
		},
	}
}

// BaseWeights converts the configured base vector to a WeightSet
func (c *Config) BaseWeights() contracts.WeightSet {
	out := make(contracts.WeightSet, len(c.Weighting.Base))
	for k, v := range c.Weighting.Base {
		out[contracts.MethodKey(k)] = v
	}
	return out
}
