// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [ProblemSender]: Posts a generated problem to the knapsack service
//   - [TaskStore]: Keeps tasks and their solutions
//   - [TaskQueue]: Hands submitted task ids to the optimizer
//   - [Solver]: Solves a knapsack problem
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app, internal/server) depends only on these
// interfaces. Infrastructure adapters (internal/adapters) implement them with
// concrete implementations (HTTP, in-memory, zerolog, etc.).
package ports
