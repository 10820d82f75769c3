package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/pkg/contracts/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "07:30:00", cfg.Policy.LateStartCutoff)
	assert.Equal(t, "16:00:00", cfg.Policy.EarlyEndCutoff)
	assert.Equal(t, 7.0, cfg.Policy.MinimumHours)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid window",
			mutate: func(c *Config) { c.Window = WindowConfig{Start: "2024-07-01", End: "2024-07-07"} },
		},
		{
			name:    "window end before start",
			mutate:  func(c *Config) { c.Window = WindowConfig{Start: "2024-07-07", End: "2024-07-01"} },
			wantErr: "precedes",
		},
		{
			name:    "malformed start date",
			mutate:  func(c *Config) { c.Window = WindowConfig{Start: "07/01/2024", End: "2024-07-07"} },
			wantErr: "invalid window start",
		},
		{
			name:    "bad late start cutoff",
			mutate:  func(c *Config) { c.Policy.LateStartCutoff = "quarter past seven" },
			wantErr: "late start cutoff",
		},
		{
			name:    "bad early end cutoff",
			mutate:  func(c *Config) { c.Policy.EarlyEndCutoff = "25:00:00" },
			wantErr: "early end cutoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
}

func TestSourcesConfig_Path(t *testing.T) {
	sources := SourcesConfig{
		LocationHistory: "loc.xlsx",
		ActivityLog:     "act.csv",
		TimeOnSite:      "tos.xlsx",
	}

	assert.Equal(t, "loc.xlsx", sources.Path(domain.SourceLocationHistory))
	assert.Equal(t, "act.csv", sources.Path(domain.SourceActivityLog))
	assert.Equal(t, "tos.xlsx", sources.Path(domain.SourceTimeOnSite))
	assert.Equal(t, "", sources.Path(domain.SourceSpeeding))
}

func TestWindowConfig_Dates(t *testing.T) {
	w := WindowConfig{Start: "2024-07-01", End: "2024-07-07"}

	start, err := w.StartDate()
	require.NoError(t, err)
	end, err := w.EndDate()
	require.NoError(t, err)

	assert.Equal(t, 2024, start.Year())
	assert.True(t, start.Before(end))
}
