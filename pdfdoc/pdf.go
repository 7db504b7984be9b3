// Package pdfdoc reads and concatenates PDF files with pdfcpu.
package pdfdoc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageCount opens a PDF file and returns its number of pages.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	ctx, err := pdfcpu.Read(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return ctx.PageCount, nil
}

// Merge concatenates the PDFs at srcs, in order, into a new file at dst. A
// partially written dst is removed on failure.
func Merge(dst string, srcs []string) (err error) {
	if len(srcs) == 0 {
		return errors.New("merge: no input files")
	}

	files := make([]*os.File, 0, len(srcs))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	readers := make([]io.ReadSeeker, 0, len(srcs))
	for _, src := range srcs {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("open %s: %w", src, err)
		}
		files = append(files, f)
		readers = append(readers, f)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if err := api.MergeRaw(readers, out, false, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("merge pdf: %w", err)
	}
	return nil
}
