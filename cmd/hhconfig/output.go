package main

import (
	"fmt"
	"io"
	"os"

	"github.com/no-hive/solidity-learning/internal/application"
	"github.com/no-hive/solidity-learning/internal/hardhat"
	"github.com/no-hive/solidity-learning/internal/tasks"
)

type taskListing struct {
	Plugins    []string     `json:"plugins" yaml:"plugins"`
	Extensions []string     `json:"extensions" yaml:"extensions"`
	Tasks      []tasks.Task `json:"tasks" yaml:"tasks"`
}

func newTaskListing(result application.Result) taskListing {
	listing := taskListing{
		Plugins:    result.Plugins,
		Extensions: result.Extensions,
		Tasks:      result.Tasks,
	}
	if listing.Extensions == nil {
		listing.Extensions = []string{}
	}
	return listing
}

// writeOutput encodes v to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, v any, format hardhat.Format) error {
	if path == "" {
		return hardhat.Encode(stdout, v, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := hardhat.Encode(f, v, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
