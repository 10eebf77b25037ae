// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the build
// store (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. BuildService:
//   - CRUD and listing operations over the build catalog
//   - Serves reads through the shared cache and invalidates it on writes
//
// 2. BuildLogService:
//   - Orchestrates asynchronous build-log generation
//   - Registers task records, submits jobs to the runner, and answers
//     status and file-download queries
//
// 3. Dependency Management:
//   - Services receive dependencies through constructor injection
//   - Constructors reject nil required dependencies
//
// 4. Error Handling:
//   - Sentinel errors (ErrTaskNotFound, ErrTaskInProgress, ErrTaskFailed,
//     ErrLogFileMissing) describe task lifecycle conditions for the API layer
//   - Store and validation sentinels pass through unchanged so callers can
//     match them with errors.Is
//
// The service layer depends on domain entities and the store interface, but
// never on specific infrastructure implementations.
package service
