package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/reporter"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/reportfile"
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/test/gotest"
)

// reportPathOutputKey is the step output holding the absolute path of the written report.
const reportPathOutputKey = "GO_TEST_JUNIT_REPORT_PATH"

// Config ...
type Config struct {
	OutputPath     string `env:"JUNIT_REPORT_PATH"`
	TestEventsPath string `env:"test_events_path"`
	DebugMode      bool   `env:"debug_mode"`
}

var logger = log.NewLogger()

func fail(format string, v ...interface{}) {
	logger.Errorf(format, v...)
	os.Exit(1)
}

func main() {
	config, err := parseConfig(env.NewRepository())
	if err != nil {
		fail("Issue with input: %s", err)
	}

	stepconf.Print(config)
	fmt.Println()
	logger.EnableDebugLog(config.DebugMode)

	if err := run(config); err != nil {
		fail("%s", err)
	}

	envRepository := env.NewRepository()
	exporter := export.NewExporter(command.NewFactory(envRepository))
	exportReportPath(func(key, value string) error {
		return exporter.ExportOutput(key, value)
	}, config.OutputPath)
}

// exportReportPath makes the report path available to later steps.
// Outside of a Bitrise build there is no envman to export with, so a failure is only a warning.
func exportReportPath(exportOutput func(key, value string) error, reportPath string) {
	if err := exportOutput(reportPathOutputKey, reportPath); err != nil {
		logger.Warnf("Failed to export %s: %s", reportPathOutputKey, err)
		return
	}
	logger.Printf("The report path is now available in the Environment Variable: %s (value: %s)", reportPathOutputKey, reportPath)
}

func run(config Config) error {
	var events io.Reader = os.Stdin
	if config.TestEventsPath != "" {
		f, err := os.Open(config.TestEventsPath)
		if err != nil {
			return fmt.Errorf("failed to open test events (%s): %w", config.TestEventsPath, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warnf("Failed to close test events file: %s", err)
			}
		}()
		events = f
	}

	sink := reportfile.NewFileSink(fileutil.NewFileManager(), logger)
	junitReporter := reporter.New(config.OutputPath, sink, logger)

	logger.Infof("Collecting test results")
	return gotest.Replay(events, junitReporter, logger)
}

func parseConfig(envRepository env.Repository) (Config, error) {
	var config Config
	if err := stepconf.NewInputParser(envRepository).Parse(&config); err != nil {
		return Config{}, err
	}

	if config.OutputPath == "" {
		config.OutputPath = reporter.DefaultOutputPath
	}

	absOutputPath, err := pathutil.NewPathModifier().AbsPath(config.OutputPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand path: %s, error: %s", config.OutputPath, err)
	}
	config.OutputPath = absOutputPath

	return config, nil
}
