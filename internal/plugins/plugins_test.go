package plugins

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/no-hive/solidity-learning/internal/tasks"
)

func TestActivateDefault(t *testing.T) {
	reg := tasks.NewRegistry()
	if err := Activate(reg, Default(), zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	wantPlugins := []string{
		"hardhat",
		"@nomicfoundation/hardhat-chai-matchers",
		"@nomicfoundation/hardhat-ethers",
		"hardhat-exposed",
		"hardhat-gas-reporter",
		"hardhat-ignore-warnings",
		"hardhat-predeploy",
		"solidity-coverage",
		"solidity-docgen",
	}
	if diff := cmp.Diff(wantPlugins, reg.Activated()); diff != "" {
		t.Fatalf("unexpected activation order (-want +got):\n%s", diff)
	}

	coverage, ok := reg.Lookup("coverage")
	if !ok {
		t.Fatalf("expected coverage task to be registered")
	}
	if coverage.Source != "solidity-coverage" {
		t.Fatalf("expected task source to be the plugin name, got %q", coverage.Source)
	}
}

func TestActivateStopsAtFirstFailure(t *testing.T) {
	reg := tasks.NewRegistry()
	plugins := []Plugin{
		{Name: "broken", Tasks: []tasks.Task{{Name: "docgen", Deps: []string{"compile"}}}},
		{Name: "never", Tasks: []tasks.Task{{Name: "compile"}}},
	}

	err := Activate(reg, plugins, zaptest.NewLogger(t))
	if !errors.Is(err, tasks.ErrUnknownDependency) {
		t.Fatalf("expected ErrUnknownDependency, got %v", err)
	}
	if len(reg.Activated()) != 0 {
		t.Fatalf("no plugin should be marked activated, got %v", reg.Activated())
	}
	if _, ok := reg.Lookup("compile"); ok {
		t.Fatalf("plugins after the failure must not run")
	}
}
