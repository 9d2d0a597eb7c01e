package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/calebhart/enrichflow/internal/common"
	"github.com/calebhart/enrichflow/internal/config"
	"github.com/calebhart/enrichflow/internal/csvio"
	"github.com/calebhart/enrichflow/internal/enrich"
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
	"github.com/calebhart/enrichflow/internal/storage"
)

const defaultRelayURL = "http://localhost:8477"

// newAPI picks the live relay client or the in-process mock.
func newAPI(mock bool) enrich.API {
	if mock {
		return enrich.NewMockAPI()
	}
	return enrich.NewClient(relayURLFromConfig())
}

func relayURLFromConfig() string {
	if relayURL := viper.GetString("relay.url"); relayURL != "" {
		return relayURL
	}
	return defaultRelayURL
}

func newPoller(api enrich.API) *enrich.Poller {
	cfg := enrich.DefaultPollerConfig()
	if interval := viper.GetDuration("poll.interval"); interval > 0 {
		cfg.Interval = interval
	}
	if maxAttempts := viper.GetInt("poll.max_attempts"); maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	return enrich.NewPoller(api, cfg)
}

func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "enrichflow", "enrichflow.db")
	}
	return storage.NewSQLiteStorage(dbPath)
}

// loadTable reads and parses a CSV file, returning its table and source hash.
func loadTable(path string) (*model.ParsedTable, string, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, "", common.NewUserError(fmt.Sprintf("failed to read %s", path), err)
	}

	text := string(data)
	table := csvio.Parse(text)
	if table.RowCount() == 0 {
		return nil, "", fmt.Errorf("%s: %w", path, common.ErrEmptyFile)
	}
	return table, storage.HashSource(text), nil
}

// applyMappingOverrides layers --map and --disable flags over auto-detection.
// Each --map entry is "CSV Column=FIELD_NAME"; "CSV Column=" clears a mapping.
func applyMappingOverrides(mappings []model.ColumnMapping, overrides, disabled []string) error {
	for _, entry := range overrides {
		column, fieldName, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid --map entry %q, want \"Column=FIELD\"", entry)
		}

		var target model.InputField
		if fieldName != "" {
			field, err := model.ParseInputField(fieldName)
			if err != nil {
				return err
			}
			target = field
		}
		if err := mapping.SetTarget(mappings, column, target); err != nil {
			return err
		}
	}

	for _, column := range disabled {
		if err := mapping.SetEnabled(mappings, column, false); err != nil {
			return err
		}
	}
	return nil
}

// defaultJobName stamps a job the way the dashboard did: Enrichment_<timestamp>.
func defaultJobName() string {
	return "Enrichment_" + time.Now().Format("20060102_150405")
}
