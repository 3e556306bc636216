// Package backend provides the VidShare API server.
//
// The binaries live under cmd/ and the implementation under internal/:
//
//   - internal/history: watch history tracker (view counting, per-viewer history)
//   - internal/engagement: video detail and channel aggregation
//   - internal/social: like and subscription toggles
//   - internal/handlers: HTTP request handlers for all API endpoints
//   - internal/repository: GORM-backed stores
//   - internal/models: Data models and database schemas
//   - internal/database: Database connection and migrations
//   - internal/lock: Per-viewer locks (in-process or Redis)
//   - internal/middleware: HTTP middleware (auth, rate limiting, metrics, tracing)
//   - internal/storage: Media uploads (S3)
//   - internal/telemetry: OpenTelemetry tracing
//
// See the individual package documentation for detailed API reference.
package backend
