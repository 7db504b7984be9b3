// Package jobs runs the three fundraiser jobs against a store: organizing the
// MASTER sheet into per-school sheets, the production report and the pick-up
// order forms.
package jobs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zalepa/orderdesk/forms"
	"github.com/zalepa/orderdesk/store"
)

var (
	// ErrNoPickupOrders is returned when a school sheet has no pick-up orders.
	ErrNoPickupOrders = errors.New("no pick-up orders found")
	// ErrNoFormsRendered is returned when every order form failed to render.
	ErrNoFormsRendered = errors.New("no order forms were created")
)

// Runner holds what the jobs need. Store is required. Renderer is only used
// by Forms.
type Runner struct {
	Store       store.Store
	MasterSheet string
	Renderer    forms.Renderer
	OutputDir   string
	// WorkDir holds temporary per-order files. Empty means the system
	// temp directory.
	WorkDir string
	// MaxOrders caps one forms export. Zero means no cap.
	MaxOrders int
	Logger    *zap.Logger
	Now       func() time.Time
}

func (r *Runner) master() string {
	if r.MasterSheet == "" {
		return "MASTER"
	}
	return r.MasterSheet
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) outputDir() string {
	if r.OutputDir == "" {
		return "."
	}
	return r.OutputDir
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Result is the progress log of one job and the file it produced, if any.
type Result struct {
	Lines    []string
	Warnings []string
	File     string

	log *zap.Logger
}

func (r *Runner) start(job string) *Result {
	return &Result{log: r.logger().With(zap.String("job", job))}
}

func (res *Result) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	res.Lines = append(res.Lines, line)
	res.log.Info(line)
}

func (res *Result) warnf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	res.Lines = append(res.Lines, line)
	res.Warnings = append(res.Warnings, line)
	res.log.Warn(line)
}

// Text returns the progress log as newline-separated text.
func (res *Result) Text() string {
	return strings.Join(res.Lines, "\n")
}
