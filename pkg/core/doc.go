// Package core defines the shared content language of the Weaver site.
//
// This package contains:
//   - Demo scripts (DemoExample, ExecutionStep, Table)
//   - Architecture content (ArchitectureStep, PipelineNode)
//   - Benchmark results (Dataset, ModelResults, MethodResult)
//   - Page furniture (Section, NavItem, Link, InstallGuide, Citation)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
