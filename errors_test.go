package scpi

import "testing"

func TestErrorClassPredicates(t *testing.T) {
	cases := []struct {
		code                                           Code
		command, execution, device, query, userError bool
	}{
		{NoError, false, false, false, false, false},
		{CommandError, true, false, false, false, false},
		{SyntaxError, true, false, false, false, false},
		{ExecutionError, false, true, false, false, false},
		{DeviceSpecificError, false, false, true, false, false},
		{QueryError, false, false, false, true, false},
		{QueueOverflow, false, false, true, false, false},
		{10, false, false, false, false, true},
	}

	for _, c := range cases {
		if got := IsCommandError(c.code); got != c.command {
			t.Errorf("IsCommandError(%d) = %v, want %v", c.code, got, c.command)
		}
		if got := IsExecutionError(c.code); got != c.execution {
			t.Errorf("IsExecutionError(%d) = %v, want %v", c.code, got, c.execution)
		}
		if got := IsDeviceError(c.code); got != c.device {
			t.Errorf("IsDeviceError(%d) = %v, want %v", c.code, got, c.device)
		}
		if got := IsQueryError(c.code); got != c.query {
			t.Errorf("IsQueryError(%d) = %v, want %v", c.code, got, c.query)
		}
		if got := IsUserError(c.code); got != c.userError {
			t.Errorf("IsUserError(%d) = %v, want %v", c.code, got, c.userError)
		}
	}
}

func TestIsError(t *testing.T) {
	if IsError(NoError) {
		t.Error("NoError must not be an error")
	}
	if !IsError(CommandError) {
		t.Error("CommandError must be an error")
	}
	if !IsError(1) {
		t.Error("positive device-defined codes are still errors")
	}
}

func TestGetStandardMessageKnownAndUnknown(t *testing.T) {
	if msg := GetStandardMessage(UndefinedHeader); msg == "" {
		t.Error("UndefinedHeader should have a non-empty standard message")
	}
	if msg := GetStandardMessage(NoError); msg != "No error" {
		t.Errorf("NoError message = %q, want %q", msg, "No error")
	}
	if msg := GetStandardMessage(Code(-999)); msg == "" {
		t.Error("an unmapped code should still return a non-empty fallback message")
	}
}
