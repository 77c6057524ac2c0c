package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestParseImpactMapRejectsNegative(t *testing.T) {
	if _, err := ParseImpactMap(datatypes.JSON(`{"a1": -0.5}`)); err == nil {
		t.Fatalf("negative multiplier accepted")
	}
	out, err := ParseImpactMap(datatypes.JSON(`{"a1": 1.5}`))
	if err != nil {
		t.Fatalf("valid map rejected: %v", err)
	}
	if out["a1"] != 1.5 {
		t.Fatalf("value = %f, want 1.5", out["a1"])
	}
}

func TestParseSignedImpactMapAllowsNegative(t *testing.T) {
	out, err := ParseSignedImpactMap(datatypes.JSON(`{"a1": -0.15}`))
	if err != nil {
		t.Fatalf("signed map rejected: %v", err)
	}
	if out["a1"] != -0.15 {
		t.Fatalf("value = %f, want -0.15", out["a1"])
	}
}

func TestParseFloatMapRejectsMalformedPayloads(t *testing.T) {
	bad := []string{
		`{"a1": "NaN"}`,
		`{"a1": [1]}`,
		`not json`,
		`[1, 2, 3]`,
	}
	for _, payload := range bad {
		if _, err := ParseSignedImpactMap(datatypes.JSON(payload)); err == nil {
			t.Fatalf("malformed payload %q accepted", payload)
		}
	}
}

func TestParseFloatMapEmptyPayload(t *testing.T) {
	out, err := ParseSignedImpactMap(nil)
	if err != nil {
		t.Fatalf("empty payload rejected: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("empty payload produced entries: %v", out)
	}
}

func TestParseStringListMalformed(t *testing.T) {
	if _, err := ParseStringList(datatypes.JSON(`{"not": "a list"}`)); err == nil {
		t.Fatalf("object accepted as string list")
	}
	out, err := ParseStringList(datatypes.JSON(`["a", "b"]`))
	if err != nil {
		t.Fatalf("valid list rejected: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("list = %v, want 2 entries", out)
	}
}

func TestParseHouseImpactMap(t *testing.T) {
	raw := datatypes.JSON(`{"power": {"volatility_multiplier": 2.0, "sentiment_shift": -0.3, "trading_volume_change": 0.5}}`)
	out, err := ParseHouseImpactMap(raw)
	if err != nil {
		t.Fatalf("valid house map rejected: %v", err)
	}
	if out["power"].VolatilityMultiplier != 2.0 {
		t.Fatalf("volatility multiplier = %f, want 2.0", out["power"].VolatilityMultiplier)
	}
}

func TestEventTouches(t *testing.T) {
	e := NarrativeMarketEvent{AffectedAssets: MustJSON([]string{"a1", "a2"})}
	if !e.Touches("a1") || e.Touches("a3") {
		t.Fatalf("Touches misclassified membership")
	}

	malformed := NarrativeMarketEvent{AffectedAssets: datatypes.JSON(`{"oops": 1}`)}
	if malformed.Touches("a1") {
		t.Fatalf("malformed asset list should touch nothing")
	}
}
