// Package plugins activates the compiler plugins the build configuration is
// written for. Activation is an explicit, ordered list of registration calls.
package plugins

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/no-hive/solidity-learning/internal/tasks"
)

// Plugin is one compiler plugin and the tasks it contributes.
type Plugin struct {
	Name  string
	Tasks []tasks.Task
}

// Register adds the plugin's tasks to reg.
func (p Plugin) Register(reg *tasks.Registry) error {
	for _, task := range p.Tasks {
		task.Source = p.Name
		if _, err := reg.Register(task); err != nil {
			return err
		}
	}
	reg.MarkActivated(p.Name)
	return nil
}

// Default returns the plugin list in activation order.
func Default() []Plugin {
	return []Plugin{
		{
			Name: "hardhat",
			Tasks: []tasks.Task{
				{Name: "compile", Description: "Compiles the entire project"},
				{Name: "test", Description: "Runs mocha tests", Deps: []string{"compile"}},
				{Name: "clean", Description: "Clears the cache and deletes all artifacts"},
			},
		},
		{Name: "@nomicfoundation/hardhat-chai-matchers"},
		{Name: "@nomicfoundation/hardhat-ethers"},
		{
			Name: "hardhat-exposed",
			Tasks: []tasks.Task{
				{Name: "compile:exposed", Description: "Generates exposed contracts for internal functions", Deps: []string{"compile"}},
			},
		},
		{Name: "hardhat-gas-reporter"},
		{Name: "hardhat-ignore-warnings"},
		{Name: "hardhat-predeploy"},
		{
			Name: "solidity-coverage",
			Tasks: []tasks.Task{
				{Name: "coverage", Description: "Generates a code coverage report for tests", Deps: []string{"compile"}},
			},
		},
		{
			Name: "solidity-docgen",
			Tasks: []tasks.Task{
				{Name: "docgen", Description: "Generate documentation for contracts", Deps: []string{"compile"}},
			},
		},
	}
}

// Activate registers each plugin in order and stops at the first failure.
func Activate(reg *tasks.Registry, plugins []Plugin, logger *zap.Logger) error {
	for _, p := range plugins {
		if err := p.Register(reg); err != nil {
			return fmt.Errorf("activate plugin %s: %w", p.Name, err)
		}
		logger.Debug("plugin activated", zap.String("plugin", p.Name), zap.Int("tasks", len(p.Tasks)))
	}
	return nil
}
