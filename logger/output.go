package logger

// OutputCategory defines a category of CLI output that can be enabled or
// disabled by the -v flag count, independently of log severity.
type OutputCategory int

const (
	// Always shown
	OutputResults OutputCategory = iota // parsed filters, split windows
	OutputErrors                        // errors with hints

	// -v
	OutputSummary // import spans, window totals
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputSummary: VerbosityInfo,
}

var categoryNames = map[OutputCategory]string{
	OutputResults: "results",
	OutputErrors:  "errors",
	OutputSummary: "summary",
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
