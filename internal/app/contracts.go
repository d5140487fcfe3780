package app

// SimulateService is the service surface the transports depend on.
type SimulateService interface {
	Simulate(spec RunSpec) (*RunSummary, error)
	SimulateBatch(spec BatchSpec) (*BatchResult, error)
}
