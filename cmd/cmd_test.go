package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bridgelog-cli/internal/client"
)

// Test command initialization and registration
func TestCommandsRegistered(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	commands := rootCmd.Commands()
	expectedCommands := map[string]bool{
		"login":    false,
		"device":   false,
		"logs":     false,
		"exporter": false,
	}

	for _, cmd := range commands {
		cmdName := cmd.Use
		for key := range expectedCommands {
			if strings.HasPrefix(cmdName, key) {
				expectedCommands[key] = true
				break
			}
		}
	}

	for cmdName, found := range expectedCommands {
		if !found {
			t.Errorf("expected command '%s' to be registered with root command", cmdName)
		}
	}
}

func TestDeviceCommandHasInfoSubcommand(t *testing.T) {
	if deviceCmd == nil {
		t.Fatal("deviceCmd should not be nil")
	}

	found := false
	for _, cmd := range deviceCmd.Commands() {
		if strings.HasPrefix(cmd.Use, "info") {
			found = true
			break
		}
	}
	if !found {
		t.Error("device command should have 'info' subcommand")
	}
}

func TestLogsCommandHasPullSubcommand(t *testing.T) {
	if logsCmd == nil {
		t.Fatal("logsCmd should not be nil")
	}

	found := false
	for _, cmd := range logsCmd.Commands() {
		if strings.HasPrefix(cmd.Use, "pull") {
			found = true
			break
		}
	}
	if !found {
		t.Error("logs command should have 'pull' subcommand")
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := []string{"config", "json"}
	for _, flagName := range flags {
		if rootCmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag '%s' to be defined", flagName)
		}
	}
}

func TestSelectArchiver(t *testing.T) {
	// Valid 1-based selections map to 0-based indices.
	for selection, want := range map[int]int{1: 0, 2: 1, 3: 2} {
		got, err := selectArchiver(selection, 3)
		if err != nil {
			t.Fatalf("selectArchiver(%d, 3) returned error: %v", selection, err)
		}
		if got != want {
			t.Errorf("selectArchiver(%d, 3) = %d, want %d", selection, got, want)
		}
	}
}

func TestSelectArchiverOutOfRange(t *testing.T) {
	// An out-of-range --archiver value must surface as a ValidationError,
	// never as a slice panic.
	for _, selection := range []int{-1, 0, 2, 5} {
		_, err := selectArchiver(selection, 1)
		if err == nil {
			t.Fatalf("selectArchiver(%d, 1) should fail", selection)
		}

		var valErr *client.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("selectArchiver(%d, 1) error = %T, want *client.ValidationError", selection, err)
		}
	}
}

func TestParseEnd(t *testing.T) {
	got, err := parseEnd("202403051430")
	if err != nil {
		t.Fatalf("parseEnd returned error: %v", err)
	}
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseEnd = %v, want %v", got, want)
	}

	if _, err := parseEnd("2024-03-05"); err == nil {
		t.Error("parseEnd should reject non-YYYYMMDDHHMM input")
	}
}

func TestParseEndCurrentTimeSentinel(t *testing.T) {
	for _, sentinel := range []string{"c", "C", "now", "NOW"} {
		got, err := parseEnd(sentinel)
		if err != nil {
			t.Fatalf("parseEnd(%q) returned error: %v", sentinel, err)
		}
		if time.Since(got) > time.Minute {
			t.Errorf("parseEnd(%q) should be close to now, got %v", sentinel, got)
		}
	}
}
