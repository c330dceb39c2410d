package cistatus

import "testing"

func TestAggregateGitHubChecks(t *testing.T) {
	tests := []struct {
		name   string
		checks []githubCheck
		want   Status
	}{
		{"empty", nil, StatusNoCI},
		{"all skipped", []githubCheck{{Status: "completed", Conclusion: "skipped"}, {Status: "completed", Conclusion: "neutral"}}, StatusNoCI},
		{"running beats failure", []githubCheck{{Status: "in_progress"}, {Status: "completed", Conclusion: "failure"}}, StatusRunning},
		{"failure beats success", []githubCheck{{Status: "completed", Conclusion: "success"}, {Status: "completed", Conclusion: "failure"}}, StatusFailed},
		{"all success", []githubCheck{{Status: "completed", Conclusion: "success"}, {Status: "completed", Conclusion: "success"}}, StatusPassed},
		{"success plus skipped", []githubCheck{{Status: "completed", Conclusion: "success"}, {Status: "completed", Conclusion: "skipped"}}, StatusPassed},
		{"case insensitive", []githubCheck{{Status: "COMPLETED", Conclusion: "FAILURE"}}, StatusFailed},
		{"status context pending", []githubCheck{{State: "PENDING"}}, StatusRunning},
		{"status context failure", []githubCheck{{State: "failure"}}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aggregateGitHubChecks(tt.checks); got != tt.want {
				t.Errorf("aggregateGitHubChecks(%+v) = %v, want %v", tt.checks, got, tt.want)
			}
		})
	}
}
