package log_test

import (
	"log/slog"
	"testing"

	"github.com/ossf/binpattern/internal/log"
)

func TestInitialize(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		log.Initialize(log.LoggingEnvDev.String())
		slog.SetDefault(prev)
	})

	tests := []struct {
		env       string
		wantEnv   log.LoggingEnv
		wantLabel string
	}{
		{env: "dev", wantEnv: log.LoggingEnvDev, wantLabel: "corpus"},
		{env: "", wantEnv: log.LoggingEnvDev, wantLabel: "corpus"},
		{env: "PROD", wantEnv: log.LoggingEnvProd, wantLabel: "labels.corpus"},
	}
	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			if logger := log.Initialize(test.env); logger == nil {
				t.Fatalf("Initialize(%q) = nil; want logger", test.env)
			}
			if got := log.Env(); got != test.wantEnv {
				t.Errorf("Env() = %v; want %v", got, test.wantEnv)
			}
			if got := log.LabelAttr("corpus", "samples/").Key; got != test.wantLabel {
				t.Errorf("LabelAttr().Key = %q; want %q", got, test.wantLabel)
			}
			slog.Info("initialized", "env", test.env)
		})
	}
}
