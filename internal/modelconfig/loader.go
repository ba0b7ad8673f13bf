package modelconfig

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// Load reads a YAML override file. Unknown fields fail immediately so a
// typo in an override never silently falls back to a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode model config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidationError reports an invalid model constant
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints on the model constants
func Validate(cfg *Config) error {
	// === Discounting ===
	if cfg.Discounting.CostOfDebt <= 0 || cfg.Discounting.CostOfDebt >= 1 {
		return ValidationError{"discounting.cost_of_debt", "must be in (0, 1)"}
	}
	if cfg.Discounting.FCFEYears < 1 {
		return ValidationError{"discounting.fcfe_years", "must be >= 1"}
	}
	if cfg.Discounting.FCFEGrowthDecay <= 0 || cfg.Discounting.FCFEGrowthDecay > 1 {
		return ValidationError{"discounting.fcfe_growth_decay", "must be in (0, 1]"}
	}
	if cfg.Discounting.FCFFYears < cfg.Discounting.FCFFFlatYears {
		return ValidationError{"discounting.fcff_years", "must be >= fcff_flat_years"}
	}
	if cfg.Discounting.FCFFFadeShare < 0 || cfg.Discounting.FCFFFadeShare > 1 {
		return ValidationError{"discounting.fcff_fade_share", "must be in [0, 1]"}
	}

	// === Multiples ===
	if cfg.Multiples.EBITDAMarkup < 1 {
		return ValidationError{"multiples.ebitda_markup", "must be >= 1 (D&A add-back)"}
	}
	if cfg.Multiples.DefaultPE <= 0 {
		return ValidationError{"multiples.default_pe", "must be > 0"}
	}
	if cfg.Multiples.DefaultEVEBITDA <= 0 {
		return ValidationError{"multiples.default_ev_ebitda", "must be > 0"}
	}

	// === Assets ===
	if cfg.Assets.IntangibleAssetPct < 0 || cfg.Assets.IntangibleAssetPct >= 1 {
		return ValidationError{"assets.intangible_asset_pct", "must be in [0, 1)"}
	}
	if cfg.Assets.LiquidationRecoveryRate <= 0 || cfg.Assets.LiquidationRecoveryRate > 1 {
		return ValidationError{"assets.liquidation_recovery_rate", "must be in (0, 1]"}
	}

	// === Weighting ===
	if len(cfg.Weighting.Base) == 0 {
		return ValidationError{"weighting.base", "required"}
	}
	known := make(map[string]bool, len(contracts.AllMethods()))
	for _, key := range contracts.AllMethods() {
		known[string(key)] = true
	}
	sum := 0.0
	for key, w := range cfg.Weighting.Base {
		if !known[key] {
			return ValidationError{"weighting.base", fmt.Sprintf("unknown method key %q", key)}
		}
		if w < 0 {
			return ValidationError{"weighting.base", fmt.Sprintf("%s: weight must be >= 0", key)}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return ValidationError{"weighting.base", fmt.Sprintf("must sum to 1.0, got %.6f", sum)}
	}
	if cfg.Weighting.DampenUpsidePct <= 0 {
		return ValidationError{"weighting.dampen_upside_pct", "must be > 0"}
	}
	if cfg.Weighting.ExcludeUpsidePct < cfg.Weighting.DampenUpsidePct {
		return ValidationError{"weighting.exclude_upside_pct", "must be >= dampen_upside_pct"}
	}
	if cfg.Weighting.AssetFloorWeight < 0 || cfg.Weighting.AssetFloorWeight > 0.5 {
		return ValidationError{"weighting.asset_floor_weight", "must be in [0, 0.5]"}
	}
	if cfg.Weighting.LeverageThreshold <= 0 {
		return ValidationError{"weighting.leverage_threshold", "must be > 0"}
	}

	// === Confidence ===
	if cfg.Confidence.HighCV <= 0 || cfg.Confidence.MediumCV <= cfg.Confidence.HighCV {
		return ValidationError{"confidence", "requires 0 < high_cv < medium_cv"}
	}

	return nil
}
