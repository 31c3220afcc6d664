// Package hardhat models the build configuration consumed by the Hardhat
// orchestrator and assembles it from resolved options.
package hardhat

import (
	"maps"

	"github.com/no-hive/solidity-learning/internal/optional"
	"github.com/no-hive/solidity-learning/internal/options"
)

// NetworkName is the in-process network the orchestrator emulates.
const NetworkName = "hardhat"

const (
	gasCurrency   = "USD"
	gasReportFile = "gas-report.txt"
)

// Config is the composed build configuration.
type Config struct {
	Solidity    Solidity                `json:"solidity" yaml:"solidity"`
	Warnings    map[string]WarningRules `json:"warnings" yaml:"warnings"`
	Networks    map[string]Network      `json:"networks" yaml:"networks"`
	Exposed     Exposed                 `json:"exposed" yaml:"exposed"`
	GasReporter GasReporter             `json:"gasReporter" yaml:"gasReporter"`
	Paths       Paths                   `json:"paths" yaml:"paths"`
	Docgen      map[string]any          `json:"docgen" yaml:"docgen"`
}

type Solidity struct {
	Version  string   `json:"version" yaml:"version"`
	Settings Settings `json:"settings" yaml:"settings"`
}

type Settings struct {
	Optimizer       Optimizer                      `json:"optimizer" yaml:"optimizer"`
	EVMVersion      string                         `json:"evmVersion" yaml:"evmVersion"`
	ViaIR           bool                           `json:"viaIR" yaml:"viaIR"`
	OutputSelection map[string]map[string][]string `json:"outputSelection" yaml:"outputSelection"`
}

type Optimizer struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Runs    int  `json:"runs" yaml:"runs"`
}

// WarningRules maps a warning code (or "default") to a severity: "off",
// "warn", "error", or a boolean toggle.
type WarningRules map[string]any

type Network struct {
	Hardfork                   string                `json:"hardfork" yaml:"hardfork"`
	AllowUnlimitedContractSize bool                  `json:"allowUnlimitedContractSize" yaml:"allowUnlimitedContractSize"`
	InitialBaseFeePerGas       optional.Value[int64] `json:"initialBaseFeePerGas,omitzero" yaml:"initialBaseFeePerGas,omitempty"`
	EnableRip7212              bool                  `json:"enableRip7212" yaml:"enableRip7212"`
}

type Exposed struct {
	Imports      bool     `json:"imports" yaml:"imports"`
	Initializers bool     `json:"initializers" yaml:"initializers"`
	Exclude      []string `json:"exclude" yaml:"exclude"`
}

type GasReporter struct {
	Enabled               bool                   `json:"enabled" yaml:"enabled"`
	ShowMethodSig         bool                   `json:"showMethodSig" yaml:"showMethodSig"`
	IncludeBytecodeInJSON bool                   `json:"includeBytecodeInJSON" yaml:"includeBytecodeInJSON"`
	Currency              string                 `json:"currency" yaml:"currency"`
	Coinmarketcap         optional.Value[string] `json:"coinmarketcap,omitzero" yaml:"coinmarketcap,omitempty"`
	OutputFile            optional.Value[string] `json:"outputFile,omitzero" yaml:"outputFile,omitempty"`
	NoColors              optional.Value[bool]   `json:"noColors,omitzero" yaml:"noColors,omitempty"`
}

type Paths struct {
	Sources string `json:"sources" yaml:"sources"`
}

// ExposedExclude returns the source globs never exposed.
func ExposedExclude() []string {
	return []string{"vendor/**/*", "**/*WithInit.sol"}
}

// Assemble builds the configuration from resolved options and the opaque
// documentation options. It has no side effects.
func Assemble(opts options.Options, docgen map[string]any) Config {
	network := Network{
		Hardfork:                   opts.EVM,
		AllowUnlimitedContractSize: true,
		EnableRip7212:              true,
	}
	if opts.Coverage {
		network.InitialBaseFeePerGas = optional.Some[int64](0)
	}

	gas := GasReporter{
		Enabled:               opts.Gas,
		ShowMethodSig:         true,
		IncludeBytecodeInJSON: true,
		Currency:              gasCurrency,
		Coinmarketcap:         opts.Coinmarketcap,
	}
	if opts.CI {
		gas.OutputFile = optional.Some(gasReportFile)
		gas.NoColors = optional.Some(true)
	}

	docs := make(map[string]any, len(docgen))
	maps.Copy(docs, docgen)

	return Config{
		Solidity: Solidity{
			Version: opts.Compiler,
			Settings: Settings{
				Optimizer:  Optimizer{Enabled: true, Runs: opts.Runs},
				EVMVersion: opts.EVM,
				ViaIR:      opts.IR,
				OutputSelection: map[string]map[string][]string{
					"*": {"*": {"storageLayout"}},
				},
			},
		},
		Warnings: map[string]WarningRules{
			// exposed contracts routinely exceed the size limits
			"contracts-exposed/**/*": {
				"code-size":     "off",
				"initcode-size": "off",
			},
			"*": {
				"unused-param":      !opts.Coverage,
				"transient-storage": false,
				"default":           "error",
			},
		},
		Networks: map[string]Network{NetworkName: network},
		Exposed: Exposed{
			Imports:      true,
			Initializers: true,
			Exclude:      ExposedExclude(),
		},
		GasReporter: gas,
		Paths:       Paths{Sources: opts.Source},
		Docgen:      docs,
	}
}
