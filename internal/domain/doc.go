// Package domain contains the core entities and value objects for knapsack.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, queues, logging) and
// contains only the problem model and its rules.
//
// # Entities
//
//   - [Problem]: A 0-1 knapsack instance (capacity, item weights, item values)
//   - [Task]: A submitted problem tracked through submitted, started and completed
//   - [Solution]: The packed item indices and their total value
//
// # Design Principles
//
// Domain entities are:
//   - Copied at boundaries so stored state cannot be aliased
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
