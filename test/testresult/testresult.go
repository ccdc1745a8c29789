// Package testresult holds the in-memory results of a single test run,
// grouped by the title of the suite the tests belong to.
package testresult

// Outcome is one executed test case.
type Outcome struct {
	Name         string
	ClassName    string
	DurationMs   int64
	Failed       bool
	ErrorMessage string
}

// SuiteGroup ...
type SuiteGroup struct {
	Name     string
	Outcomes []Outcome
}

// Failures returns the number of failed outcomes in the group.
func (g SuiteGroup) Failures() int {
	failures := 0
	for _, outcome := range g.Outcomes {
		if outcome.Failed {
			failures++
		}
	}
	return failures
}

// RunState maps suite titles to their outcomes.
// Iteration order is the order in which the suite titles were first seen.
type RunState struct {
	order  []string
	groups map[string]*SuiteGroup
}

// NewRunState ...
func NewRunState() *RunState {
	return &RunState{
		groups: map[string]*SuiteGroup{},
	}
}

// Add appends the outcome to the group keyed by suite, creating the group if needed.
// The key is used as is: identical titles share a group.
func (s *RunState) Add(suite string, outcome Outcome) {
	group, ok := s.groups[suite]
	if !ok {
		group = &SuiteGroup{Name: suite}
		s.groups[suite] = group
		s.order = append(s.order, suite)
	}
	group.Outcomes = append(group.Outcomes, outcome)
}

// Suites returns a copy of the groups in first-seen order.
func (s *RunState) Suites() []SuiteGroup {
	suites := make([]SuiteGroup, 0, len(s.order))
	for _, name := range s.order {
		group := s.groups[name]
		suites = append(suites, SuiteGroup{
			Name:     group.Name,
			Outcomes: append([]Outcome(nil), group.Outcomes...),
		})
	}
	return suites
}

// Len returns the number of suite groups.
func (s *RunState) Len() int {
	return len(s.order)
}
