package models

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"
)

// Typed decoding for the jsonb impact maps. Rows whose payloads fail these
// checks are logged and skipped by callers rather than letting NaN or Inf
// leak into price math.

func ParseStringList(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseImpactMap decodes an asset-id→value map whose values must be finite
// and non-negative (volume multipliers, house response multipliers).
func ParseImpactMap(raw datatypes.JSON) (map[string]float64, error) {
	out, err := parseFloatMap(raw)
	if err != nil {
		return nil, err
	}
	for k, v := range out {
		if v < 0 {
			return nil, fmt.Errorf("negative multiplier %f for %q", v, k)
		}
	}
	return out, nil
}

// ParseSignedImpactMap decodes an asset-id→value map whose values must be
// finite but may be negative (price impacts, volatility adjustments).
func ParseSignedImpactMap(raw datatypes.JSON) (map[string]float64, error) {
	return parseFloatMap(raw)
}

func parseFloatMap(raw datatypes.JSON) (map[string]float64, error) {
	if len(raw) == 0 {
		return map[string]float64{}, nil
	}
	var out map[string]float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value for %q", k)
		}
	}
	if out == nil {
		out = map[string]float64{}
	}
	return out, nil
}

// ParseHouseImpactMap decodes a house-id→impact map.
func ParseHouseImpactMap(raw datatypes.JSON) (map[string]HouseImpact, error) {
	if len(raw) == 0 {
		return map[string]HouseImpact{}, nil
	}
	var out map[string]HouseImpact
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range out {
		for _, f := range []float64{v.VolatilityMultiplier, v.SentimentShift, v.TradingVolumeChange} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("non-finite house impact for %q", k)
			}
		}
	}
	if out == nil {
		out = map[string]HouseImpact{}
	}
	return out, nil
}

// MustJSON marshals v into a jsonb column value. Marshal errors collapse to
// an empty payload; inputs are service-constructed maps and slices only.
func MustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
