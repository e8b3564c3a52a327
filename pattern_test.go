package scpi

import "testing"

func TestParsePatternSimple(t *testing.T) {
	nodes, isQuery, err := ParsePattern(":MEASure:VOLTage?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isQuery {
		t.Error("expected isQuery = true")
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Name != "MEASure" || nodes[0].ShortName != "MEAS" {
		t.Errorf("node 0 = %+v", nodes[0])
	}
	if nodes[1].Name != "VOLTage" || nodes[1].ShortName != "VOLT" {
		t.Errorf("node 1 = %+v", nodes[1])
	}
}

func TestParsePatternOptionalNode(t *testing.T) {
	nodes, _, err := ParsePattern(":MEASure:VOLTage[:DC]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	if !nodes[2].IsOptional {
		t.Error("DC node should be optional")
	}
	if nodes[2].Name != "DC" {
		t.Errorf("optional node name = %q, want DC", nodes[2].Name)
	}
}

func TestParsePatternNamedRangeParam(t *testing.T) {
	nodes, _, err := ParsePattern(":MEASure<ch:1-8>:VOLTage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nodes[0].HasParam || nodes[0].ParamName != "ch" {
		t.Fatalf("param node = %+v", nodes[0])
	}
	if nodes[0].Constraint.MinValue != 1 || nodes[0].Constraint.MaxValue != 8 {
		t.Errorf("constraint = %+v, want [1,8]", nodes[0].Constraint)
	}
}

func TestParsePatternAnonymousAutoIndexedParam(t *testing.T) {
	nodes, _, err := ParsePattern(":OUTPut#:VOLTage#")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes[0].ParamName != "_1" {
		t.Errorf("first anonymous param = %q, want _1", nodes[0].ParamName)
	}
	if nodes[1].ParamName != "_2" {
		t.Errorf("second anonymous param = %q, want _2", nodes[1].ParamName)
	}
}

func TestParsePatternMalformedRangeIsError(t *testing.T) {
	if _, _, err := ParsePattern(":OUTPut<n:5-1>"); err == nil {
		t.Error("expected an error for a range with min > max")
	}
	if _, _, err := ParsePattern(":OUTPut<n:abc>"); err == nil {
		t.Error("expected an error for a non-numeric range")
	}
}

func TestParsePatternUnbalancedBracketsIsError(t *testing.T) {
	if _, _, err := ParsePattern(":MEASure[:DC"); err == nil {
		t.Error("expected an error for an unmatched '['")
	}
	if _, _, err := ParsePattern(":MEASure:DC]"); err == nil {
		t.Error("expected an error for an unmatched ']'")
	}
}

func TestExtractShortNameFallsBackWhenNoUppercase(t *testing.T) {
	if got := extractShortName("volt"); got != "VOLT" {
		t.Errorf("extractShortName(volt) = %q, want VOLT", got)
	}
	if got := extractShortName("MEASure"); got != "MEAS" {
		t.Errorf("extractShortName(MEASure) = %q, want MEAS", got)
	}
}
