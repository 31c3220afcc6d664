// Package options resolves the build options (compiler version, sources,
// optimizer runs, IR, EVM version, coverage, gas report, CI and the
// CoinMarketCap key) from command-line flags and unprefixed environment
// variables. Precedence: CLI flags > environment variables > defaults.
// Malformed values are rejected with ErrMalformedOption.
package options
