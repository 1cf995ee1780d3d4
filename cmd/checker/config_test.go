package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulog/plagiarism-check/pkg/plagiarism"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("COPYLEAKS_EMAIL", "bot@campus.edu")
	t.Setenv("COPYLEAKS_API_KEY", "secret")

	cfg, err := loadConfig()

	req.NoError(err)
	req.Equal("upstream", cfg.CheckMode)
	req.Equal(40.0, cfg.Threshold)
	req.Equal(3*time.Second, cfg.PollInterval)
	req.Equal(1500*time.Millisecond, cfg.FallbackDelay)
	req.Zero(cfg.MaxPolls)
	req.Positive(cfg.WorkerCount)
}

func TestLoadConfig_UpstreamNeedsCredentials(t *testing.T) {
	t.Setenv("CHECK_MODE", "upstream")
	t.Setenv("COPYLEAKS_EMAIL", "")
	t.Setenv("COPYLEAKS_API_KEY", "")

	_, err := loadConfig()
	require.Error(t, err)
}

func TestLoadConfig_SimulationWithoutCredentials(t *testing.T) {
	req := require.New(t)
	t.Setenv("CHECK_MODE", "simulation")
	t.Setenv("COPYLEAKS_EMAIL", "")
	t.Setenv("COPYLEAKS_API_KEY", "")
	t.Setenv("PLAGIARISM_THRESHOLD", "25")
	t.Setenv("FALLBACK_DELAY", "1ms")

	cfg, err := loadConfig()
	req.NoError(err)
	req.Equal(25.0, cfg.Threshold)

	res, err := newChecker(cfg, nil).Check(t.Context(), "hello")
	req.NoError(err)
	req.True(res.Allowed)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"CHECK_MODE":           "maybe",
		"PLAGIARISM_THRESHOLD": "140",
		"POLL_INTERVAL":        "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("COPYLEAKS_EMAIL", "bot@campus.edu")
			t.Setenv("COPYLEAKS_API_KEY", "secret")
			t.Setenv(key, value)
			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}

func TestNewChecker_ThresholdFromConfig(t *testing.T) {
	req := require.New(t)
	cfg := config{CheckMode: "simulation", Threshold: 1, PollInterval: time.Second}

	checker := newChecker(cfg, nil)
	// "hello" scores 2 in the fallback scorer.
	res, err := checker.Check(t.Context(), "hello")
	req.NoError(err)
	req.Equal(plagiarism.SourceFallback, res.Source)
	req.Equal(2.0, res.Percentage)
	req.False(res.Allowed)
}
