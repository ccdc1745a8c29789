// Package reportfile writes the generated report to the local file system.
package reportfile

import (
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
)

// Sink is where a finished report ends up.
type Sink interface {
	Remove(path string) error
	Write(path string, content []byte) error
}

// FileSink ...
type FileSink struct {
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewFileSink ...
func NewFileSink(fileManager fileutil.FileManager, logger log.Logger) FileSink {
	return FileSink{
		fileManager: fileManager,
		logger:      logger,
	}
}

// Remove deletes the file at path. A missing file is not an error.
func (s FileSink) Remove(path string) error {
	if err := s.fileManager.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove previous report (%s): %w", path, err)
	}

	s.logger.Debugf("Removed previous report: %s", path)
	return nil
}

// Write creates or truncates the file at path. The parent directory must exist.
func (s FileSink) Write(path string, content []byte) error {
	if err := s.fileManager.WriteBytes(path, content); err != nil {
		return fmt.Errorf("failed to write report (%s): %w", path, err)
	}

	s.logger.Donef("test results written to %s (%s)", path, units.HumanSize(float64(len(content))))
	return nil
}
