package scpi

import "testing"

func TestParseNumericKeyword(t *testing.T) {
	cases := []struct {
		ident string
		want  NumericKeyword
		ok    bool
	}{
		{"MIN", KeywordMinimum, true},
		{"minimum", KeywordMinimum, true},
		{"MAX", KeywordMaximum, true},
		{"MAXIMUM", KeywordMaximum, true},
		{"DEF", KeywordDefault, true},
		{"+INF", KeywordInfinityPos, true},
		{"-INF", KeywordInfinityNeg, true},
		{"INFINITY", KeywordInfinityPos, true},
		{"NINF", KeywordInfinityNeg, true},
		{"NAN", KeywordNotANumber, true},
		{"UP", KeywordUp, true},
		{"DOWN", KeywordDown, true},
		{"VOLT", KeywordNone, false},
		{"MI", KeywordNone, false},
	}
	for _, c := range cases {
		got, ok := ParseNumericKeyword(c.ident)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseNumericKeyword(%q) = (%v, %v), want (%v, %v)", c.ident, got, ok, c.want, c.ok)
		}
	}
}

func TestIsInfinityKeyword(t *testing.T) {
	if !IsInfinityKeyword(KeywordInfinityPos) || !IsInfinityKeyword(KeywordInfinityNeg) {
		t.Error("both infinity keywords should report true")
	}
	if IsInfinityKeyword(KeywordMinimum) {
		t.Error("MIN is not an infinity keyword")
	}
}

func TestKeywordStringRoundTrip(t *testing.T) {
	for _, k := range []NumericKeyword{KeywordMinimum, KeywordMaximum, KeywordDefault, KeywordInfinityPos, KeywordInfinityNeg, KeywordNotANumber, KeywordUp, KeywordDown} {
		short := keywordToShortString(k)
		if short == "" {
			t.Errorf("keywordToShortString(%v) is empty", k)
		}
		if _, ok := ParseNumericKeyword(short); !ok {
			t.Errorf("short form %q of %v does not round-trip through ParseNumericKeyword", short, k)
		}
	}
}
