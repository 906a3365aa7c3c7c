package errors

import "testing"

func TestSentinelErrors(t *testing.T) {
	if ErrEmailTaken == nil {
		t.Error("ErrEmailTaken should not be nil")
	}
	if ErrInvalidCredentials == nil {
		t.Error("ErrInvalidCredentials should not be nil")
	}
	if ErrNotFound == nil {
		t.Error("ErrNotFound should not be nil")
	}
}
