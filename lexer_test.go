package scpi

import "testing"

func TestLexerBasicPunctuation(t *testing.T) {
	l := NewLexer([]byte(":;,?*()@\n"))
	want := []LexTokenType{TokColon, TokSemicolon, TokComma, TokQuestion, TokAsterisk, TokLParen, TokRParen, TokAt, TokNewline, TokEOF}
	for i, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, wantType)
		}
	}
}

func TestLexerIdentifierWithNumericSuffix(t *testing.T) {
	l := NewLexer([]byte("CHANnel3"))
	tok := l.Next()
	if tok.Type != TokIdentifier {
		t.Fatalf("got type %v, want TokIdentifier", tok.Type)
	}
	if tok.BaseName != "CHANnel" || !tok.HasNumericSuffix || tok.NumericSuffix != 3 {
		t.Errorf("split = (%q, %d, %v), want (\"CHANnel\", 3, true)", tok.BaseName, tok.NumericSuffix, tok.HasNumericSuffix)
	}
}

func TestLexerIdentifierWithoutSuffix(t *testing.T) {
	l := NewLexer([]byte("VOLTage"))
	tok := l.Next()
	if tok.HasNumericSuffix {
		t.Errorf("VOLTage should have no numeric suffix, got %d", tok.NumericSuffix)
	}
	if tok.BaseName != "VOLTage" {
		t.Errorf("BaseName = %q, want VOLTage", tok.BaseName)
	}
}

func TestLexerNumberVariants(t *testing.T) {
	cases := []struct {
		input     string
		wantVal   float64
		wantIsInt bool
	}{
		{"42", 42, true},
		{"-42", -42, true},
		{"+3", 3, true},
		{"3.14", 3.14, false},
		{"1e10", 1e10, false},
		{"1.5e-3", 1.5e-3, false},
		{".5", 0.5, false},
	}
	for _, c := range cases {
		l := NewLexer([]byte(c.input))
		tok := l.Next()
		if tok.Type != TokNumber {
			t.Fatalf("%q: got type %v, want TokNumber", c.input, tok.Type)
		}
		if tok.NumberValue != c.wantVal {
			t.Errorf("%q: value = %v, want %v", c.input, tok.NumberValue, c.wantVal)
		}
		if tok.IsInteger != c.wantIsInt {
			t.Errorf("%q: IsInteger = %v, want %v", c.input, tok.IsInteger, c.wantIsInt)
		}
	}
}

func TestLexerNonDecimalNumeric(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"#HFF", 255},
		{"#Q17", 15},
		{"#B1010", 10},
	}
	for _, c := range cases {
		l := NewLexer([]byte(c.input))
		tok := l.Next()
		if tok.Type != TokNumber || !tok.IsInteger {
			t.Fatalf("%q: got %+v, want integer number token", c.input, tok)
		}
		if tok.IntValue != c.want {
			t.Errorf("%q: IntValue = %d, want %d", c.input, tok.IntValue, c.want)
		}
	}
}

func TestLexerDefiniteBlockData(t *testing.T) {
	l := NewLexer([]byte("#15HELLO"))
	tok := l.Next()
	if tok.Type != TokBlockData {
		t.Fatalf("got type %v, want TokBlockData", tok.Type)
	}
	if string(tok.BlockData) != "HELLO" {
		t.Errorf("block data = %q, want HELLO", string(tok.BlockData))
	}
	if tok.BlockIndefinite {
		t.Error("definite-length block should not be marked indefinite")
	}
}

func TestLexerIndefiniteBlockData(t *testing.T) {
	l := NewLexer([]byte("#0HELLO\nAFTER"))
	tok := l.Next()
	if tok.Type != TokBlockData || !tok.BlockIndefinite {
		t.Fatalf("got %+v, want indefinite block data", tok)
	}
	if string(tok.BlockData) != "HELLO" {
		t.Errorf("block data = %q, want HELLO", string(tok.BlockData))
	}
	next := l.Next()
	if next.Type != TokIdentifier || next.Text != "AFTER" {
		t.Errorf("token after indefinite block = %+v, want identifier AFTER", next)
	}
}

func TestLexerStringWithDoubledQuoteEscape(t *testing.T) {
	l := NewLexer([]byte(`'it''s'`))
	tok := l.Next()
	if tok.Type != TokString {
		t.Fatalf("got type %v, want TokString", tok.Type)
	}
	if tok.Text != "it's" {
		t.Errorf("string = %q, want %q", tok.Text, "it's")
	}
}

func TestLexerIdentifierTooLong(t *testing.T) {
	long := make([]byte, maxIdentifierLength+1)
	for i := range long {
		long[i] = 'A'
	}
	l := NewLexer(long)
	tok := l.Next()
	if tok.Type != TokError || tok.ErrorCode != ProgramMnemonicTooLong {
		t.Fatalf("got %+v, want ProgramMnemonicTooLong error", tok)
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	l := NewLexer([]byte("ABC,DEF"))
	first := l.Peek()
	second := l.Next()
	if first.Text != second.Text {
		t.Fatalf("Peek() then Next() disagree: %q vs %q", first.Text, second.Text)
	}
	third := l.Next()
	if third.Type != TokComma {
		t.Fatalf("expected comma after first identifier, got %v", third.Type)
	}
}

func TestSplitNumericSuffixOverflowFallsBackToNoSuffix(t *testing.T) {
	base, suffix, ok := splitNumericSuffix("CHAN99999999999999999999")
	if ok {
		t.Errorf("overflowing suffix should report hasSuffix=false, got base=%q suffix=%d", base, suffix)
	}
}
