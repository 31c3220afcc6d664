package options

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/no-hive/solidity-learning/internal/optional"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

var optionCmp = cmp.AllowUnexported(optional.Value[string]{})

func TestResolveDefaults(t *testing.T) {
	opts, err := Resolve(nil, envFrom(nil))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := Options{
		Compiler: "0.8.27",
		Source:   "contracts",
		Runs:     200,
		EVM:      "prague",
	}
	if diff := cmp.Diff(want, opts, optionCmp); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
	if opts.Coinmarketcap.Present() {
		t.Fatalf("expected coinmarketcap key to be absent")
	}
}

func TestResolveBlankValuesAreUnset(t *testing.T) {
	opts, err := Resolve(Overrides{"src": "  "}, envFrom(map[string]string{"RUNS": "", "COMPILER": " "}))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if opts.Source != DefaultSource || opts.Runs != DefaultRuns || opts.Compiler != DefaultCompiler {
		t.Fatalf("blank values must fall back to defaults, got %+v", opts)
	}
}

func TestResolveEnvironment(t *testing.T) {
	env := map[string]string{
		"COMPILER":      "0.8.24",
		"SRC":           "src",
		"RUNS":          "1000",
		"IR":            "true",
		"EVM":           "cancun",
		"COVERAGE":      "true",
		"GAS":           "1",
		"CI":            "true",
		"COINMARKETCAP": "cmc-key",
	}

	opts, err := Resolve(nil, envFrom(env))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := Options{
		Compiler:      "0.8.24",
		Source:        "src",
		Runs:          1000,
		IR:            true,
		EVM:           "cancun",
		Coverage:      true,
		Gas:           true,
		CI:            true,
		Coinmarketcap: optional.Some("cmc-key"),
	}
	if diff := cmp.Diff(want, opts, optionCmp); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestResolveAliasEnvironment(t *testing.T) {
	env := map[string]string{
		"COMPILE_VERSION":       "0.8.20",
		"SOURCE":                "lib",
		"OPTIMIZATION_RUNS":     "5",
		"ENABLE_IR":             "true",
		"EVM_VERSION":           "shanghai",
		"ENABLE_GAS_REPORT":     "true",
		"COINMARKETCAP_API_KEY": "alias-key",
	}

	opts, err := Resolve(nil, envFrom(env))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if opts.Compiler != "0.8.20" || opts.Source != "lib" || opts.Runs != 5 || !opts.IR || opts.EVM != "shanghai" || !opts.Gas {
		t.Fatalf("alias env vars not applied: %+v", opts)
	}
	if key, _ := opts.Coinmarketcap.Get(); key != "alias-key" {
		t.Fatalf("expected alias coinmarketcap key, got %q", key)
	}
}

func TestResolvePrimaryEnvBeatsAlias(t *testing.T) {
	opts, err := Resolve(nil, envFrom(map[string]string{"RUNS": "7", "OPTIMIZATION_RUNS": "9"}))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if opts.Runs != 7 {
		t.Fatalf("expected primary env to win, got %d", opts.Runs)
	}
}

func TestResolveCLIOverridesEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		envV  string
		cliV  string
		check func(Options) bool
	}{
		{"compiler", "COMPILER", "0.8.20", "0.8.26", func(o Options) bool { return o.Compiler == "0.8.26" }},
		{"src", "SRC", "env-src", "cli-src", func(o Options) bool { return o.Source == "cli-src" }},
		{"runs", "RUNS", "10", "20", func(o Options) bool { return o.Runs == 20 }},
		{"ir", "IR", "true", "false", func(o Options) bool { return !o.IR }},
		{"evm", "EVM", "cancun", "paris", func(o Options) bool { return o.EVM == "paris" }},
		{"coverage", "COVERAGE", "false", "true", func(o Options) bool { return o.Coverage }},
		{"gas", "GAS", "false", "true", func(o Options) bool { return o.Gas }},
		{"ci", "CI", "true", "false", func(o Options) bool { return !o.CI }},
		{"coinmarketcap", "COINMARKETCAP", "env-key", "cli-key", func(o Options) bool {
			key, ok := o.Coinmarketcap.Get()
			return ok && key == "cli-key"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := Resolve(Overrides{tc.name: tc.cliV}, envFrom(map[string]string{tc.env: tc.envV}))
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if !tc.check(opts) {
				t.Fatalf("expected CLI value %q to win over env %q, got %+v", tc.cliV, tc.envV, opts)
			}
		})
	}
}

func TestResolveMalformedValues(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		env       map[string]string
	}{
		{"non-numeric runs flag", Overrides{"runs": "abc"}, nil},
		{"non-numeric runs env", nil, map[string]string{"RUNS": "abc"}},
		{"negative runs", Overrides{"runs": "-1"}, nil},
		{"fractional runs", nil, map[string]string{"RUNS": "1.5"}},
		{"bad boolean", nil, map[string]string{"COVERAGE": "yes please"}},
		{"bad compiler", Overrides{"compiler": "latest"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.overrides, envFrom(tc.env))
			if !errors.Is(err, ErrMalformedOption) {
				t.Fatalf("expected ErrMalformedOption, got %v", err)
			}
		})
	}
}

func TestResolveCIPresence(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"woodpecker", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			opts, err := Resolve(nil, envFrom(map[string]string{"CI": tc.raw}))
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if opts.CI != tc.want {
				t.Fatalf("CI=%q: expected ci=%v, got %v", tc.raw, tc.want, opts.CI)
			}
		})
	}
}

func TestResolveCompilerErrorNamesTool(t *testing.T) {
	_, err := Resolve(Overrides{"compiler": "latest"}, envFrom(nil))
	if !errors.Is(err, ErrMalformedOption) {
		t.Fatalf("expected ErrMalformedOption, got %v", err)
	}
	if !strings.Contains(err.Error(), "hhconfig requires a semantic compiler version") {
		t.Fatalf("expected error to name the version check, got %v", err)
	}
}

func TestOptionsLookup(t *testing.T) {
	opts := Defaults()
	opts.Coinmarketcap = optional.Some("k")

	if v, ok := opts.Lookup("runs"); !ok || v != 200 {
		t.Fatalf("expected runs=200, got %v (%v)", v, ok)
	}
	if v, ok := opts.Lookup("evmVersion"); !ok || v != "prague" {
		t.Fatalf("expected alias lookup to resolve, got %v (%v)", v, ok)
	}
	if v, ok := opts.Lookup("coinmarketcapApiKey"); !ok || v != "k" {
		t.Fatalf("expected coinmarketcap key, got %v", v)
	}
	if _, ok := opts.Lookup("network"); ok {
		t.Fatalf("unknown option must not resolve")
	}

	if v, _ := Defaults().Lookup("coinmarketcap"); v != nil {
		t.Fatalf("absent key must resolve to nil, got %v", v)
	}
}

func TestNamesOrder(t *testing.T) {
	want := []string{"compiler", "src", "runs", "ir", "evm", "coverage", "gas", "ci", "coinmarketcap"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}
