// Package gotest replays the event stream of `go test -json` (test2json)
// as test run lifecycle events.
package gotest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/reporter"
	"github.com/pkg/errors"
)

// test2json actions
const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionPause  = "pause"
	ActionCont   = "cont"
	ActionPass   = "pass"
	ActionBench  = "bench"
	ActionFail   = "fail"
	ActionOutput = "output"
	ActionSkip   = "skip"
)

const (
	maxLineSize           = 1024 * 1024
	defaultFailureMessage = "test failed"
)

var framingPrefixes = []string{"=== RUN", "=== PAUSE", "=== CONT", "=== NAME", "--- FAIL", "--- PASS", "--- SKIP"}

// Event is a single test2json record.
type Event struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

type testKey struct {
	pkg  string
	test string
}

type replayer struct {
	listener reporter.Listener
	logger   log.Logger

	outputs        map[testKey][]string
	failedPackages map[string]bool
}

// Replay reads test2json events from r and delivers them to listener:
// OnStart first, OnPass/OnFail for every finished test, OnEnd at the end of the stream.
func Replay(r io.Reader, listener reporter.Listener, logger log.Logger) error {
	p := replayer{
		listener:       listener,
		logger:         logger,
		outputs:        map[testKey][]string{},
		failedPackages: map[string]bool{},
	}

	if err := listener.OnStart(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		event, err := ParseEvent(line)
		if err != nil {
			logger.Debugf("Skipping line: %s", err)
			continue
		}

		p.handle(event)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read test events")
	}

	return listener.OnEnd()
}

// ParseEvent decodes a single test2json line.
func ParseEvent(line []byte) (Event, error) {
	if len(line) == 0 || line[0] != '{' {
		return Event{}, errors.Errorf("not a test event: %s", line)
	}

	var event Event
	if err := json.Unmarshal(line, &event); err != nil {
		return Event{}, errors.Wrap(err, string(line))
	}
	if event.Action == "" {
		return Event{}, errors.New("test event without action: " + string(line))
	}
	return event, nil
}

func (p *replayer) handle(event Event) {
	key := testKey{pkg: event.Package, test: event.Test}

	switch event.Action {
	case ActionOutput:
		p.outputs[key] = append(p.outputs[key], event.Output)
	case ActionPass:
		if event.Test != "" {
			p.listener.OnPass(newTest(event))
		}
		delete(p.outputs, key)
	case ActionFail:
		if event.Test != "" {
			p.failedPackages[event.Package] = true
			p.listener.OnFail(newTest(event), errors.New(failureMessage(p.outputs[key])))
		} else if !p.failedPackages[event.Package] {
			p.listener.OnFail(newPackageTest(event), errors.New(failureMessage(p.outputs[key])))
		}
		delete(p.outputs, key)
	case ActionSkip:
		delete(p.outputs, key)
	default:
		p.logger.Debugf("Ignoring %s event of %s %s", event.Action, event.Package, event.Test)
	}
}

func newTest(event Event) reporter.Test {
	parent := event.Package
	title := event.Test
	if i := strings.LastIndex(event.Test, "/"); i >= 0 {
		parent = event.Package + "/" + event.Test[:i]
		title = event.Test[i+1:]
	}

	return reporter.Test{
		Title:       title,
		FullTitle:   parent + " " + title,
		ParentTitle: parent,
		Duration:    elapsed(event.Elapsed),
	}
}

// newPackageTest stands in for a package which failed outside of any test,
// like a build failure or a panic in TestMain.
func newPackageTest(event Event) reporter.Test {
	return reporter.Test{
		Title:       event.Package,
		FullTitle:   event.Package,
		ParentTitle: event.Package,
		Duration:    elapsed(event.Elapsed),
	}
}

func elapsed(seconds float64) time.Duration {
	if seconds < 0 {
		return 0
	}
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}

func failureMessage(output []string) string {
	var lines []string
	for _, chunk := range output {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || isFraming(line) {
				continue
			}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return defaultFailureMessage
	}
	return strings.Join(lines, "\n")
}

func isFraming(line string) bool {
	for _, prefix := range framingPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
