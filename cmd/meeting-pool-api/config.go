// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

// flags are the command line flags for the meeting pool service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the meeting pool service.
type environment struct {
	Port         string
	NatsURL      string
	AccountsFile string
	ZoomBaseURL  string
	ZoomAuthURL  string
}

// parseFlags parses command line flags for the meeting pool service.
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the meeting pool service.
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return environment{
		Port:         port,
		NatsURL:      os.Getenv("NATS_URL"),
		AccountsFile: os.Getenv("MEETING_ACCOUNTS_FILE"),
		ZoomBaseURL:  os.Getenv("ZOOM_API_BASE_URL"),
		ZoomAuthURL:  os.Getenv("ZOOM_AUTH_URL"),
	}
}

// accountsFile is the on-disk shape of the pool configuration.
type accountsFile struct {
	Accounts []models.Account `yaml:"accounts"`
}

// loadAccounts reads the pool account roster. When MEETING_ACCOUNTS_FILE
// is set the roster comes from that YAML file; otherwise a single account
// is assembled from the ZOOM_* environment variables so that small
// deployments can run without a config file.
func loadAccounts(env environment) ([]models.Account, error) {
	if env.AccountsFile != "" {
		data, err := os.ReadFile(env.AccountsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read accounts file %s: %w", env.AccountsFile, err)
		}

		var file accountsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse accounts file %s: %w", env.AccountsFile, err)
		}
		return file.Accounts, nil
	}

	account := models.Account{
		ID:                "default",
		ClientID:          os.Getenv("ZOOM_CLIENT_ID"),
		ClientSecret:      os.Getenv("ZOOM_CLIENT_SECRET"),
		ProviderAccountID: os.Getenv("ZOOM_ACCOUNT_ID"),
		HostUserID:        os.Getenv("ZOOM_USER_ID"),
		SDKKey:            os.Getenv("ZOOM_SDK_KEY"),
		SDKSecret:         os.Getenv("ZOOM_SDK_SECRET"),
	}
	if maxRaw := os.Getenv("ZOOM_MAX_CONCURRENT_MEETINGS"); maxRaw != "" {
		maxMeetings, err := strconv.Atoi(maxRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid ZOOM_MAX_CONCURRENT_MEETINGS %q: %w", maxRaw, err)
		}
		account.MaxConcurrentMeetings = maxMeetings
	}

	return []models.Account{account}, nil
}
