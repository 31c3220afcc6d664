// Package tasks records the build tasks that compiler plugins and extension
// scripts register while the configuration is being composed.
package tasks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTask is returned when a task has no name.
	ErrInvalidTask = errors.New("task name must not be empty")
	// ErrUnknownDependency is returned when a task depends on a task that is not registered yet.
	ErrUnknownDependency = errors.New("task depends on an unregistered task")
)

// Task describes one registered build task.
type Task struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Deps        []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Source      string   `json:"source" yaml:"source"`
}

// Registry keeps tasks in registration order. It is filled by a single
// composition pass and is not safe for concurrent mutation.
type Registry struct {
	order     []string
	tasks     map[string]Task
	activated []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds a task. Every dependency must already be registered.
// Registering an existing name overrides it in place and reports true.
func (r *Registry) Register(task Task) (bool, error) {
	task.Name = strings.TrimSpace(task.Name)
	if task.Name == "" {
		return false, ErrInvalidTask
	}
	for _, dep := range task.Deps {
		if _, ok := r.tasks[dep]; !ok {
			return false, fmt.Errorf("%w: %s needs %s", ErrUnknownDependency, task.Name, dep)
		}
	}

	task.Deps = append([]string(nil), task.Deps...)
	_, replaced := r.tasks[task.Name]
	if !replaced {
		r.order = append(r.order, task.Name)
	}
	r.tasks[task.Name] = task
	return replaced, nil
}

// Lookup returns a registered task by name.
func (r *Registry) Lookup(name string) (Task, bool) {
	task, ok := r.tasks[name]
	return task, ok
}

// Tasks returns a copy of the registered tasks in registration order.
func (r *Registry) Tasks() []Task {
	out := make([]Task, 0, len(r.order))
	for _, name := range r.order {
		task := r.tasks[name]
		task.Deps = append([]string(nil), task.Deps...)
		out = append(out, task)
	}
	return out
}

// MarkActivated records that a plugin finished activating.
func (r *Registry) MarkActivated(plugin string) {
	r.activated = append(r.activated, plugin)
}

// Activated lists activated plugins in activation order.
func (r *Registry) Activated() []string {
	return append([]string(nil), r.activated...)
}
