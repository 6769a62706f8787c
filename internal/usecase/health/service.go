package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the engine is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckEngine   = "engine"
	CheckMetadata = "metadata"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine   EnginePinger
	metadata MetadataLoader
}

// New creates a Service. metadata can be nil.
func New(engine EnginePinger, metadata MetadataLoader) *Service {
	return &Service{engine: engine, metadata: metadata}
}

// Check pings the engine and, when it answers, verifies that metadata loads.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.engine.Ping(ctx); err != nil {
		checks[CheckEngine] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[CheckEngine] = CheckOK

	status := Healthy
	if s.metadata != nil {
		if _, err := s.metadata.Load(ctx); err != nil {
			checks[CheckMetadata] = CheckError
			status = Degraded
		} else {
			checks[CheckMetadata] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
