package search

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterNormalize(normalizedQuery string, tokens []string)
	AfterCandidates(count int)
	AfterFilter(retained int)
	Finish(results int)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string) {}
func (n *noopMonitor) AfterNormalize(_ string, _ []string) {}
func (n *noopMonitor) AfterCandidates(_ int) {}
func (n *noopMonitor) AfterFilter(_ int) {}
func (n *noopMonitor) Finish(_ int) {}
