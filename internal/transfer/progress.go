package transfer

// Progress is a progress event of a run.
type Progress struct {
	// Progress is in [0, 1].
	Progress       float64
	Message        string
	CurrentTarget  string
	CurrentPlugin  string
	ProcessedSteps int
	TotalSteps     int
}

// ProgressFunc receives progress events. It is called on the run's
// goroutine.
type ProgressFunc func(Progress)
