package scpi

import "testing"

func TestParseUnitValueMilliVsMega(t *testing.T) {
	mv := ParseUnitValue(5, "mV")
	if mv.Prefix != PrefixMilli || mv.Unit != UnitVolt {
		t.Fatalf("mV: got prefix=%v unit=%v", mv.Prefix, mv.Unit)
	}
	if mv.ScaledValue != 0.005 {
		t.Errorf("mV scaled value = %v, want 0.005", mv.ScaledValue)
	}

	MV := ParseUnitValue(5, "MV")
	if MV.Prefix != PrefixMega || MV.Unit != UnitVolt {
		t.Fatalf("MV: got prefix=%v unit=%v", MV.Prefix, MV.Unit)
	}
	if MV.ScaledValue != 5e6 {
		t.Errorf("MV scaled value = %v, want 5e6", MV.ScaledValue)
	}
}

func TestParseUnitValueBareUnit(t *testing.T) {
	hz := ParseUnitValue(1000, "HZ")
	if hz.Prefix != PrefixNone || hz.Unit != UnitHertz {
		t.Fatalf("HZ: got prefix=%v unit=%v", hz.Prefix, hz.Unit)
	}
	if hz.ScaledValue != 1000 {
		t.Errorf("HZ scaled value = %v, want 1000", hz.ScaledValue)
	}
}

func TestParseUnitValueUnknownSuffixFallsBackToNone(t *testing.T) {
	v := ParseUnitValue(42, "BOGUS")
	if v.Prefix != PrefixNone || v.Unit != UnitNone {
		t.Fatalf("unknown suffix: got prefix=%v unit=%v", v.Prefix, v.Unit)
	}
	if v.ScaledValue != 42 {
		t.Errorf("unknown suffix scaled value = %v, want 42 (unscaled)", v.ScaledValue)
	}
}

func TestParseUnitValueEmptySuffix(t *testing.T) {
	v := ParseUnitValue(3.5, "")
	if v.Prefix != PrefixNone || v.Unit != UnitNone {
		t.Fatalf("empty suffix: got prefix=%v unit=%v", v.Prefix, v.Unit)
	}
	if v.ScaledValue != 3.5 {
		t.Errorf("empty suffix scaled value = %v, want 3.5", v.ScaledValue)
	}
}

func TestGetMultiplierRoundTrip(t *testing.T) {
	cases := map[SiPrefix]float64{
		PrefixFemto: 1e-15,
		PrefixPico:  1e-12,
		PrefixNano:  1e-9,
		PrefixMicro: 1e-6,
		PrefixMilli: 1e-3,
		PrefixNone:  1,
		PrefixKilo:  1e3,
		PrefixMega:  1e6,
		PrefixGiga:  1e9,
		PrefixTera:  1e12,
	}
	for prefix, want := range cases {
		if got := getMultiplier(prefix); got != want {
			t.Errorf("getMultiplier(%v) = %v, want %v", prefix, got, want)
		}
	}
}

func TestSelectBestPrefix(t *testing.T) {
	cases := []struct {
		value float64
		want  SiPrefix
	}{
		{1.5e9, PrefixGiga},
		{2.5e6, PrefixMega},
		{999, PrefixNone},
		{0.005, PrefixMilli},
		{-0.005, PrefixMilli},
		{2.5e-9, PrefixNano},
	}
	for _, c := range cases {
		if got := selectBestPrefix(c.value); got != c.want {
			t.Errorf("selectBestPrefix(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}
