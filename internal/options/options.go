package options

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/no-hive/solidity-learning/internal/optional"
)

const (
	DefaultCompiler = "0.8.27"
	DefaultSource   = "contracts"
	DefaultRuns     = 200
	DefaultEVM      = "prague"
)

// ErrMalformedOption is returned when an option value cannot be coerced to its type.
var ErrMalformedOption = errors.New("malformed option value")

// Options is the resolved, typed build option set.
type Options struct {
	Compiler      string
	Source        string
	Runs          int
	IR            bool
	EVM           string
	Coverage      bool
	Gas           bool
	CI            bool
	Coinmarketcap optional.Value[string]
}

// Defaults returns the option set used when neither CLI nor environment supplies a value.
func Defaults() Options {
	return Options{
		Compiler: DefaultCompiler,
		Source:   DefaultSource,
		Runs:     DefaultRuns,
		EVM:      DefaultEVM,
	}
}

// Overrides maps canonical option names to raw command-line values.
type Overrides map[string]string

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
)

type definition struct {
	name    string
	alias   string
	env     []string
	kind    kind
	help    string
	apply   func(*Options, string) error
	valueOf func(Options) any
}

var definitions = []definition{
	{
		name:  "compiler",
		alias: "compileVersion",
		env:   []string{"COMPILER", "COMPILE_VERSION"},
		kind:  kindString,
		help:  "Solidity compiler version ($COMPILER)",
		apply: func(o *Options, raw string) error {
			if _, err := semver.NewVersion(raw); err != nil {
				return fmt.Errorf("hhconfig requires a semantic compiler version: %v", err)
			}
			o.Compiler = raw
			return nil
		},
		valueOf: func(o Options) any { return o.Compiler },
	},
	{
		name:    "src",
		alias:   "source",
		env:     []string{"SRC", "SOURCE"},
		kind:    kindString,
		help:    "Contracts source directory ($SRC)",
		apply:   func(o *Options, raw string) error { o.Source = raw; return nil },
		valueOf: func(o Options) any { return o.Source },
	},
	{
		name:  "runs",
		alias: "optimizationRuns",
		env:   []string{"RUNS", "OPTIMIZATION_RUNS"},
		kind:  kindInt,
		help:  "Optimizer runs ($RUNS)",
		apply: func(o *Options, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return errors.New("not an integer")
			}
			if n < 0 {
				return errors.New("must be >= 0")
			}
			o.Runs = n
			return nil
		},
		valueOf: func(o Options) any { return o.Runs },
	},
	{
		name:    "ir",
		alias:   "enableIR",
		env:     []string{"IR", "ENABLE_IR"},
		kind:    kindBool,
		help:    "Compile through the IR pipeline ($IR)",
		apply:   boolSetter(func(o *Options) *bool { return &o.IR }),
		valueOf: func(o Options) any { return o.IR },
	},
	{
		name:    "evm",
		alias:   "evmVersion",
		env:     []string{"EVM", "EVM_VERSION"},
		kind:    kindString,
		help:    "Target EVM version / hardfork ($EVM)",
		apply:   func(o *Options, raw string) error { o.EVM = raw; return nil },
		valueOf: func(o Options) any { return o.EVM },
	},
	{
		name:    "coverage",
		env:     []string{"COVERAGE"},
		kind:    kindBool,
		help:    "Coverage-friendly compilation ($COVERAGE)",
		apply:   boolSetter(func(o *Options) *bool { return &o.Coverage }),
		valueOf: func(o Options) any { return o.Coverage },
	},
	{
		name:    "gas",
		alias:   "enableGasReport",
		env:     []string{"GAS", "ENABLE_GAS_REPORT"},
		kind:    kindBool,
		help:    "Enable the gas report ($GAS)",
		apply:   boolSetter(func(o *Options) *bool { return &o.Gas }),
		valueOf: func(o Options) any { return o.Gas },
	},
	{
		name:    "ci",
		env:     []string{"CI"},
		kind:    kindBool,
		help:    "Write the gas report to a file instead of stdout ($CI)",
		apply:   ciSetter,
		valueOf: func(o Options) any { return o.CI },
	},
	{
		name:  "coinmarketcap",
		alias: "coinmarketcapApiKey",
		env:   []string{"COINMARKETCAP", "COINMARKETCAP_API_KEY"},
		kind:  kindString,
		help:  "CoinMarketCap API key for gas report pricing ($COINMARKETCAP)",
		apply: func(o *Options, raw string) error {
			o.Coinmarketcap = optional.Some(raw)
			return nil
		},
		valueOf: func(o Options) any {
			if key, ok := o.Coinmarketcap.Get(); ok {
				return key
			}
			return nil
		},
	},
}

func boolSetter(field func(*Options) *bool) func(*Options, string) error {
	return func(o *Options, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("not a boolean")
		}
		*field(o) = b
		return nil
	}
}

// ciSetter treats CI as a presence flag. CI services export it with values
// such as "woodpecker", so only the false spellings turn it off.
func ciSetter(o *Options, raw string) error {
	b, err := strconv.ParseBool(raw)
	o.CI = err != nil || b
	return nil
}

// Resolve merges command-line overrides and environment variables on top of
// the defaults. Precedence: CLI flags > primary env name > alias env name > defaults.
// A nil lookupEnv reads the process environment.
func Resolve(overrides Overrides, lookupEnv func(string) (string, bool)) (Options, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	opts := Defaults()
	for _, def := range definitions {
		raw, source, ok := def.lookup(overrides, lookupEnv)
		if !ok {
			continue
		}
		if err := def.apply(&opts, raw); err != nil {
			return Options{}, fmt.Errorf("%w: %s=%q (from %s): %v", ErrMalformedOption, def.name, raw, source, err)
		}
	}

	return opts, nil
}

func (d definition) lookup(overrides Overrides, lookupEnv func(string) (string, bool)) (string, string, bool) {
	if raw := strings.TrimSpace(overrides[d.name]); raw != "" {
		return raw, "flag --" + d.name, true
	}
	for _, name := range d.env {
		if raw, ok := lookupEnv(name); ok {
			if raw = strings.TrimSpace(raw); raw != "" {
				return raw, "env " + name, true
			}
		}
	}
	return "", "", false
}

// Lookup returns the resolved value of an option by name or alias. Absent
// optional values are reported as nil.
func (o Options) Lookup(name string) (any, bool) {
	for _, def := range definitions {
		if def.name == name || (def.alias != "" && def.alias == name) {
			return def.valueOf(o), true
		}
	}
	return nil, false
}

// Names lists the canonical option names in declaration order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for _, def := range definitions {
		names = append(names, def.name)
	}
	return names
}
