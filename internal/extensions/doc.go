// Package extensions activates optional task-extension scripts written in
// Starlark. Scripts live in the hardhat/ directory of the project and run
// one after another in directory-listing order; each may register tasks
// that later scripts depend on. A missing directory means no extensions,
// while any failing script aborts composition.
package extensions
