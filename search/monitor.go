package search

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterRead(events, documents int)
	AfterLexical(terms []string, candidates int)
	AfterSemantic(embedded int, degraded bool)
	Finish(results []Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                 {}
func (n *noopMonitor) AfterRead(_, _ int)             {}
func (n *noopMonitor) AfterLexical(_ []string, _ int) {}
func (n *noopMonitor) AfterSemantic(_ int, _ bool)    {}
func (n *noopMonitor) Finish(_ []Result)              {}
