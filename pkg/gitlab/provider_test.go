package gitlab

import (
	"testing"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("test-token", "")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if provider.Name() != "gitlab" {
		t.Errorf("Name() = %q, want %q", provider.Name(), "gitlab")
	}

	if provider.token != "test-token" {
		t.Errorf("token = %q, want %q", provider.token, "test-token")
	}

	if provider.client == nil {
		t.Error("client should not be nil")
	}
}

func TestNewProvider_SelfHostedBaseURL(t *testing.T) {
	provider, err := NewProvider("token", "https://gitlab.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if provider.baseURL != "https://gitlab.example.com" {
		t.Errorf("baseURL = %q, want %q", provider.baseURL, "https://gitlab.example.com")
	}
}

func TestProvider_SetToken(t *testing.T) {
	provider, err := NewProvider("initial-token", "")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if err := provider.SetToken("new-token"); err != nil {
		t.Errorf("SetToken failed: %v", err)
	}

	if provider.token != "new-token" {
		t.Errorf("token = %q, want %q", provider.token, "new-token")
	}
}

func TestProvider_ValidateToken_EmptyToken(t *testing.T) {
	provider, err := NewProvider("", "")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	valid, err := provider.ValidateToken(nil)
	if err != nil {
		t.Errorf("ValidateToken returned error: %v", err)
	}
	if valid {
		t.Error("ValidateToken should return false for empty token")
	}
}
