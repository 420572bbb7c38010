package utils

import (
	"io"

	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// Close closes c and ignores any error.
// Use for read-only files where a close error changes nothing.
func Close(c io.Closer) {
	_ = c.Close()
}

// MustClose closes c and logs any error under the given name.
func MustClose(c io.Closer, log logger.Logger, name string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
	}
}
