package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zalepa/orderdesk/forms"
	"github.com/zalepa/orderdesk/jobs"
	"github.com/zalepa/orderdesk/store"
	"github.com/zalepa/orderdesk/workspace"
)

// session builds a runner from the loaded config. Google clients are only
// dialed when a job needs them.
type session struct {
	ctx     context.Context
	svc     *workspace.Services
	closers []io.Closer
}

func (s *session) close() {
	for _, c := range s.closers {
		c.Close()
	}
}

func (s *session) services() (*workspace.Services, error) {
	if s.svc != nil {
		return s.svc, nil
	}
	key, source, err := cfg.Credentials.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded credentials", zap.String("source", source))
	s.svc, err = workspace.DialJSON(s.ctx, key)
	return s.svc, err
}

func (s *session) store() (store.Store, error) {
	if path := cfg.Spreadsheet.Workbook; path != "" {
		wb, err := store.OpenWorkbook(path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, wb)
		logger.Debug("using workbook", zap.String("path", path))
		return wb, nil
	}

	svc, err := s.services()
	if err != nil {
		return nil, err
	}
	id := cfg.Spreadsheet.ID
	if id == "" {
		var found bool
		id, found, err = workspace.FindFile(s.ctx, svc.Drive, cfg.Spreadsheet.Name, workspace.SpreadsheetMIME)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %q (is it shared with the service account?)", store.ErrSpreadsheetNotFound, cfg.Spreadsheet.Name)
		}
	}
	logger.Debug("using spreadsheet", zap.String("id", id))
	return store.NewSheets(svc.Sheets, id), nil
}

func (s *session) renderer() (forms.Renderer, error) {
	if path := cfg.Template.Path; path != "" {
		return forms.NewSlipRenderer(path), nil
	}
	svc, err := s.services()
	if err != nil {
		return nil, err
	}
	return forms.NewDocsRenderer(svc.Drive, svc.Docs, cfg.Template.Name), nil
}

// newRunner opens the store, and the form renderer when withForms is set.
func newRunner(ctx context.Context, withForms bool) (*jobs.Runner, func(), error) {
	s := &session{ctx: ctx}
	st, err := s.store()
	if err != nil {
		s.close()
		return nil, nil, err
	}
	r := &jobs.Runner{
		Store:       st,
		MasterSheet: cfg.Spreadsheet.MasterSheet,
		OutputDir:   cfg.OutputDir,
		WorkDir:     cfg.WorkDir,
		MaxOrders:   cfg.Forms.MaxOrders,
		Logger:      logger,
	}
	if withForms {
		if r.Renderer, err = s.renderer(); err != nil {
			s.close()
			return nil, nil, err
		}
	}
	return r, s.close, nil
}

// printResult writes the job log to w. It is printed even when the job
// failed part way.
func printResult(w io.Writer, res *jobs.Result) {
	if res == nil {
		return
	}
	for _, line := range res.Lines {
		fmt.Fprintln(w, line)
	}
}
