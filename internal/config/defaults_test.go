package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	if got := viper.GetString("generator.ollamaURL"); got != DefaultOllamaURL {
		t.Errorf("generator.ollamaURL = %q, want %q", got, DefaultOllamaURL)
	}
	if got := viper.GetString("data.format"); got != "json" {
		t.Errorf("data.format = %q, want json", got)
	}
	if viper.GetBool("telemetry.enabled") {
		t.Error("telemetry must default to disabled")
	}

	// Explicit values win over defaults.
	viper.Set("generator.ollamaURL", "http://10.0.0.5:11434")
	if got := viper.GetString("generator.ollamaURL"); got != "http://10.0.0.5:11434" {
		t.Errorf("explicit value not honored: %q", got)
	}
}
