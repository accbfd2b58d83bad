package tui

import (
	"os"
	"testing"
)

func clearModeEnv(t *testing.T) {
	t.Setenv("TABLOAD_PLAIN", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")
}

func TestDetectMode_EnvironmentOverrides(t *testing.T) {
	for _, key := range []string{"TABLOAD_PLAIN", "CI", "NO_COLOR"} {
		t.Run(key, func(t *testing.T) {
			clearModeEnv(t)
			t.Setenv(key, "1")

			if got := DetectMode(os.Stdout); got != ModePlain {
				t.Errorf("DetectMode() = %d, want ModePlain", got)
			}
		})
	}
}

func TestDetectMode_NoTerminal(t *testing.T) {
	clearModeEnv(t)

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := DetectMode(f); got != ModePlain {
		t.Errorf("DetectMode() = %d, want ModePlain for a regular file", got)
	}
}

func TestDetectMode_NilFile(t *testing.T) {
	clearModeEnv(t)

	if got := DetectMode(nil); got != ModePlain {
		t.Errorf("DetectMode(nil) = %d, want ModePlain", got)
	}
}
