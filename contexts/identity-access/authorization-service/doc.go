// Package authorization implements the group/permission policy gating book
// operations in libris.
//
// Layering:
// - domain: permissions, groups, operations, the pure authorize decision
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence and the policy-change outbox
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the identity-access context.
// - The policy never caches memberships; every decision reads a fresh
//   snapshot so administrative changes apply on the next evaluation.
// - Do not import other context adapters into domain/application.
package authorization
