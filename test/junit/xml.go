package junit

import (
	"encoding/xml"
	"time"

	"github.com/bitrise-steplib/steps-go-test-junit-reporter/test/testresult"
)

// Declaration is prepended to every marshalled report.
const Declaration = `<?xml version="1.0"?>`

// TimestampLayout is the JUnit timestamp format (ISO 8601 without zone).
const TimestampLayout = "2006-01-02T15:04:05"

// XML ...
type XML struct {
	XMLName    xml.Name    `xml:"testsuites"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite ...
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Timestamp string     `xml:"timestamp,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase ...
type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"className,attr"`
	Time      int64    `xml:"time,attr"`
	// Error is nil for passing cases, so the attribute is left out.
	Error *string `xml:"error,attr"`
}

// Convert builds the report of the given run.
func Convert(state *testresult.RunState, timestamp time.Time) XML {
	stamp := timestamp.Format(TimestampLayout)

	var report XML
	for _, group := range state.Suites() {
		suite := TestSuite{
			Name:      group.Name,
			Tests:     len(group.Outcomes),
			Failures:  0,
			Timestamp: stamp,
		}

		for _, outcome := range group.Outcomes {
			testCase := TestCase{
				Name:      outcome.Name,
				ClassName: outcome.ClassName,
				Time:      outcome.DurationMs,
			}
			if outcome.Failed {
				message := outcome.ErrorMessage
				testCase.Error = &message
				suite.Failures++
			}

			suite.TestCases = append(suite.TestCases, testCase)
		}

		report.TestSuites = append(report.TestSuites, suite)
	}

	return report
}

// Marshal renders the report as an indented XML document with a declaration.
func Marshal(report XML) ([]byte, error) {
	xmlData, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(Declaration+"\n"), xmlData...), nil
}

// WithoutTimestamps returns a copy of the report with every suite timestamp cleared.
func (x XML) WithoutTimestamps() XML {
	suites := make([]TestSuite, len(x.TestSuites))
	copy(suites, x.TestSuites)
	for i := range suites {
		suites[i].Timestamp = ""
	}
	x.TestSuites = suites
	return x
}
