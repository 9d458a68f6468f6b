// Package diagnostics persists failure artifacts for a run. Capture is
// best-effort by contract: it is called from error paths and must never
// make a bad situation worse, so its own failures are logged and absorbed.
package diagnostics

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/webpilot/pkg/browser"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Capturer writes timestamped screenshots of the current page state.
type Capturer struct {
	dir  string
	demo bool
	log  Logger

	// now is injectable for deterministic file names in tests.
	now func() time.Time
}

// NewCapturer creates a capturer writing into dir. demo tags every file
// name so artifacts from simulated runs are unmistakable.
func NewCapturer(dir string, demo bool, log Logger) *Capturer {
	return &Capturer{
		dir:  dir,
		demo: demo,
		log:  log,
		now:  time.Now,
	}
}

// Capture writes a screenshot of page, tagged with label, and returns the
// file path. It never fails: a missing page or a screenshot error is
// logged and yields an empty path.
func (c *Capturer) Capture(page browser.Page, label string) string {
	if page == nil {
		c.log.Warnf("screenshot skipped: no page available (label=%q)", label)
		return ""
	}

	path := filepath.Join(c.dir, c.fileName(label))
	if err := page.Screenshot(path); err != nil {
		c.log.Errorf("failed to capture screenshot %s: %v", path, err)
		return ""
	}

	c.log.Infof("screenshot saved: %s", path)
	return path
}

// timestampSanitizer strips the characters in an ISO-8601 timestamp that
// are unsafe in file names.
var timestampSanitizer = strings.NewReplacer(":", "-", ".", "-")

// fileName builds {DEMO-}{label-}screenshot-{timestamp}.png.
func (c *Capturer) fileName(label string) string {
	var b strings.Builder
	if c.demo {
		b.WriteString("DEMO-")
	}
	if label != "" {
		b.WriteString(label)
		b.WriteString("-")
	}
	b.WriteString("screenshot-")
	b.WriteString(timestampSanitizer.Replace(c.now().UTC().Format("2006-01-02T15:04:05.000Z")))
	b.WriteString(".png")
	return b.String()
}
