package houses

import "testing"

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("static tables invalid: %v", err)
	}
}

func TestAssessSeverity(t *testing.T) {
	cases := []struct {
		title, desc string
		want        string
	}{
		{"The multiverse fractures", "reality unravels", SeverityUniverseAltering},
		{"Galactus approaches", "a cosmic threat looms", SeverityCosmic},
		{"A hero's death", "the funeral draws millions", SeverityMajor},
		{"Team versus team", "an epic fight downtown", SeverityModerate},
		{"Morning training", "daily routine at the tower", SeverityMinor},
		{"Nothing much happens", "a quiet issue", SeverityModerate},
	}
	for _, tc := range cases {
		if got := AssessSeverity(tc.title, tc.desc); got != tc.want {
			t.Fatalf("AssessSeverity(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSeverityOrderingWinsOnMixedKeywords(t *testing.T) {
	// "death" (major) and "cosmic" (cosmic) both present: the more severe
	// class must win.
	if got := AssessSeverity("Death at the cosmic gate", ""); got != SeverityCosmic {
		t.Fatalf("mixed keywords resolved to %q, want cosmic", got)
	}
}

func TestResponseForUnknownHouse(t *testing.T) {
	r := ResponseFor("unknown")
	if r.Multiplier != 1.0 || r.Stability != 1.0 || r.Recovery != 1.0 {
		t.Fatalf("unknown house response = %+v, want neutral", r)
	}
}

func TestBeatImpactForUnknownType(t *testing.T) {
	b := BeatImpactFor("mystery_box")
	if b.VolatilitySpike != 0.1 || b.MomentumShift != 0 || b.PriceImpact != 0 {
		t.Fatalf("unknown beat impact = %+v, want volatility-only nudge", b)
	}
}

func TestPowerLevelForDefault(t *testing.T) {
	f := PowerLevelFor("Unclassified")
	if f != PowerLevelFactors["Enhanced Human"] {
		t.Fatalf("unknown power level = %+v, want Enhanced Human baseline", f)
	}
}

func TestStoryArcVolatilityMultiplier(t *testing.T) {
	if got := StoryArcVolatilityMultiplier("climax"); got != 1.8 {
		t.Fatalf("climax multiplier = %f, want 1.8", got)
	}
	if got := StoryArcVolatilityMultiplier("unknown_phase"); got != 1.0 {
		t.Fatalf("unknown phase multiplier = %f, want 1.0", got)
	}
}

func TestDurationFallbacks(t *testing.T) {
	if got := ImmediateDuration("bogus"); got != ImmediateDuration(SeverityModerate) {
		t.Fatalf("unknown severity immediate duration = %d, want moderate fallback", got)
	}
	if got := MediumTermDuration("bogus"); got != MediumTermDuration(SeverityModerate) {
		t.Fatalf("unknown severity medium duration = %d, want moderate fallback", got)
	}
}

func TestEventResponseProfileCosmicSensitivity(t *testing.T) {
	power := EventResponseProfile(Power)
	wisdom := EventResponseProfile(Wisdom)
	if power["cosmic_event"] <= wisdom["cosmic_event"] {
		t.Fatalf("power cosmic response %f should exceed wisdom %f", power["cosmic_event"], wisdom["cosmic_event"])
	}
}
