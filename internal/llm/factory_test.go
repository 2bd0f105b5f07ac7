package llm

import (
	"testing"
	"time"
)

func TestNewTextGenerator(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ProviderConfig
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:    "no api key yields nil generator",
			cfg:     ProviderConfig{Provider: "anthropic"},
			wantNil: true,
		},
		{
			name:      "anthropic",
			cfg:       ProviderConfig{Provider: "anthropic", APIKey: "k", Model: "claude-test"},
			wantModel: "claude-test",
		},
		{
			name:      "default provider is anthropic",
			cfg:       ProviderConfig{APIKey: "k", Model: "claude-test"},
			wantModel: "claude-test",
		},
		{
			name:      "openai",
			cfg:       ProviderConfig{Provider: "openai", APIKey: "k", Model: "gpt-test", Timeout: time.Second},
			wantModel: "gpt-test",
		},
		{
			name:    "unknown provider",
			cfg:     ProviderConfig{Provider: "llamafarm", APIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewTextGenerator(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTextGenerator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if gen != nil {
					t.Errorf("expected nil generator, got %T", gen)
				}
				return
			}
			if gen == nil {
				t.Fatal("expected a generator")
			}
			if gen.GetModel() != tt.wantModel {
				t.Errorf("GetModel() = %q, want %q", gen.GetModel(), tt.wantModel)
			}
		})
	}
}
