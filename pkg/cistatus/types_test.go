package cistatus

import "testing"

func TestErrorStatus(t *testing.T) {
	s := errorStatus()
	if s.CIStatus != StatusError {
		t.Errorf("errorStatus().CIStatus = %v, want StatusError", s.CIStatus)
	}
	if s.IsStale {
		t.Error("errorStatus() should not be stale")
	}
	if s.URL != "" {
		t.Errorf("errorStatus().URL = %q, want empty", s.URL)
	}
}

func TestIndicator(t *testing.T) {
	if got := (&PrStatus{CIStatus: StatusError}).Indicator(); got == "" {
		t.Error("Indicator() for StatusError should not be empty")
	}
	passed := &PrStatus{CIStatus: StatusPassed}
	failed := &PrStatus{CIStatus: StatusError}
	if passed.Indicator() == failed.Indicator() {
		t.Error("passed and error statuses should use different indicator glyphs")
	}
}
