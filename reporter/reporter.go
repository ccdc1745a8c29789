// Package reporter collects the outcome of every finished test of a run and
// writes them as a JUnit XML report once the run ends.
package reporter

import (
	"fmt"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/reportfile"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/test/junit"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/test/testresult"
)

// DefaultOutputPath is used when no output path is configured.
const DefaultOutputPath = "test-results.xml"

// Test is a finished test as reported by the test host.
type Test struct {
	Title       string
	FullTitle   string
	ParentTitle string
	Duration    time.Duration
}

// Listener receives the lifecycle events of a test run.
// Events are delivered one at a time, in run order.
type Listener interface {
	OnStart() error
	OnPass(test Test)
	OnFail(test Test, err error)
	OnEnd() error
}

// Reporter is a Listener which writes a JUnit XML report at the end of the run.
type Reporter struct {
	outputPath string
	sink       reportfile.Sink
	logger     log.Logger
	now        func() time.Time

	state *testresult.RunState
}

// New ...
func New(outputPath string, sink reportfile.Sink, logger log.Logger) *Reporter {
	return &Reporter{
		outputPath: outputPath,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
		state:      testresult.NewRunState(),
	}
}

// OnStart starts a new run and removes the report of a previous one,
// so a crashed run can not leave a stale report behind.
func (r *Reporter) OnStart() error {
	r.state = testresult.NewRunState()
	return r.sink.Remove(r.outputPath)
}

// OnPass ...
func (r *Reporter) OnPass(test Test) {
	r.state.Add(test.ParentTitle, outcome(test, nil))
}

// OnFail ...
func (r *Reporter) OnFail(test Test, err error) {
	o := outcome(test, err)
	o.Failed = true
	r.state.Add(test.ParentTitle, o)
}

// OnEnd serializes the run and writes the report.
func (r *Reporter) OnEnd() error {
	report := junit.Convert(r.state, r.now())
	r.logSummary()

	content, err := junit.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.sink.Write(r.outputPath, content); err != nil {
		return err
	}

	r.state = testresult.NewRunState()
	return nil
}

func (r *Reporter) logSummary() {
	for _, suite := range r.state.Suites() {
		r.logger.Debugf("%s: %d tests, %d failures", suite.Name, len(suite.Outcomes), suite.Failures())
	}
}

func outcome(test Test, err error) testresult.Outcome {
	o := testresult.Outcome{
		Name:       test.FullTitle,
		ClassName:  test.ParentTitle,
		DurationMs: test.Duration.Milliseconds(),
	}
	if err != nil {
		o.ErrorMessage = err.Error()
	}
	return o
}
