// ABOUTME: Tests for the check command
// ABOUTME: Verifies stat threshold logic and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func TestCheckResult_AllPassed(t *testing.T) {
	results := performChecks([]client.Companion{
		{Name: "Sparky", Health: 90, Hunger: 50, Energy: 60, Happiness: 70, Hygiene: 80},
	}, 30)

	passed, failed := countResults(results)
	if passed != 5 {
		t.Errorf("expected 5 passed, got %d", passed)
	}
	if failed != 0 {
		t.Errorf("expected 0 failed, got %d", failed)
	}
}

func TestCheckResult_SomeFailed(t *testing.T) {
	results := performChecks([]client.Companion{
		{Name: "Sparky", Health: 90, Hunger: 10, Energy: 60, Happiness: 70, Hygiene: 80, Sick: true},
	}, 30)

	passed, failed := countResults(results)
	if passed != 4 {
		t.Errorf("expected 4 passed, got %d", passed)
	}
	if failed != 2 {
		t.Errorf("expected 2 failed (hunger and sick), got %d", failed)
	}
}

func TestFormatCheckHuman(t *testing.T) {
	results := []checkResult{
		{companion: "Sparky", name: "health", value: 90, threshold: 30, passed: true},
		{companion: "Sparky", name: "energy", value: 12, threshold: 30, passed: false},
		{companion: "Sparky", name: "sick", passed: false},
	}

	output := formatCheckHuman(results)

	if !strings.Contains(output, "✗ Sparky: energy 12 (minimum: 30)") {
		t.Errorf("expected the failing stat, got:\n%s", output)
	}
	if !strings.Contains(output, "✗ Sparky is sick") {
		t.Errorf("expected the sickness line, got:\n%s", output)
	}
	if !strings.Contains(output, "FAILED: 2 check(s)") {
		t.Errorf("expected FAILED summary, got:\n%s", output)
	}
}

func TestFormatCheckJSON(t *testing.T) {
	results := []checkResult{
		{companion: "Sparky", name: "health", value: 90, threshold: 30, passed: true},
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(formatCheckJSON(results)), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["status"] != "passed" {
		t.Errorf("expected status passed, got %v", parsed["status"])
	}
}

func TestValidateThreshold(t *testing.T) {
	if err := validateThreshold(101); err == nil {
		t.Error("expected error for threshold above 100")
	}
	if err := validateThreshold(-1); err == nil {
		t.Error("expected error for negative threshold")
	}
	if err := validateThreshold(0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckCommand_Passes(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	minStat = 30
	defer func() { minStat = 30 }()

	var buf bytes.Buffer
	if exitCode := runCheck(context.Background(), &buf); exitCode != 0 {
		t.Errorf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "PASSED") {
		t.Errorf("expected PASSED, got %s", buf.String())
	}
}

func TestCheckCommand_FailsBelowThreshold(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	srv.UpdateCompanion(testserver.Companion, func(c *client.Companion) { c.Energy = 5 })
	minStat = 30
	defer func() { minStat = 30 }()

	var buf bytes.Buffer
	if exitCode := runCheck(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Sparky: energy 5") {
		t.Errorf("expected the failing stat, got %s", buf.String())
	}
}

func TestCheckCommand_InvalidThreshold(t *testing.T) {
	setupServer(t)
	minStat = 150
	defer func() { minStat = 30 }()

	var buf bytes.Buffer
	if exitCode := runCheck(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}
