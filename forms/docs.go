package forms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/zalepa/orderdesk/orders"
	"github.com/zalepa/orderdesk/workspace"
)

// DocsRenderer fills a Google Docs template. Each order gets a temporary copy
// of the template that is exported as PDF and then deleted.
type DocsRenderer struct {
	drive        *drive.Service
	docs         *docs.Service
	templateName string
	templateID   string
}

// NewDocsRenderer returns a renderer for the Docs template named templateName.
// Call Prepare before the first Render.
func NewDocsRenderer(drv *drive.Service, dcs *docs.Service, templateName string) *DocsRenderer {
	return &DocsRenderer{drive: drv, docs: dcs, templateName: templateName}
}

// Prepare looks up the template in Drive.
func (r *DocsRenderer) Prepare(ctx context.Context) error {
	id, found, err := workspace.FindFile(ctx, r.drive, r.templateName, workspace.DocumentMIME)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, r.templateName)
	}
	r.templateID = id
	return nil
}

// Render writes the filled template for o to path as PDF.
func (r *DocsRenderer) Render(ctx context.Context, o orders.PickupOrder, path string) error {
	if r.templateID == "" {
		return fmt.Errorf("%w: Prepare was not called", ErrTemplateNotFound)
	}
	cp, err := r.drive.Files.Copy(r.templateID, &drive.File{Name: "temp_order_" + o.OrderNumber}).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("copy template: %w", err)
	}
	defer r.drive.Files.Delete(cp.Id).SupportsAllDrives(true).Context(context.WithoutCancel(ctx)).Do()

	req := &docs.BatchUpdateDocumentRequest{Requests: replaceRequests(o.Placeholders())}
	if _, err := r.docs.Documents.BatchUpdate(cp.Id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("fill template: %w", err)
	}

	resp, err := r.drive.Files.Export(cp.Id, "application/pdf").Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("export pdf: status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// replaceRequests builds one case-sensitive ReplaceAllText per placeholder in
// key order. Empty replacements are sent explicitly so unused slots clear.
func replaceRequests(ph map[string]string) []*docs.Request {
	keys := make([]string, 0, len(ph))
	for k := range ph {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	reqs := make([]*docs.Request, 0, len(keys))
	for _, k := range keys {
		reqs = append(reqs, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{
					Text:      k,
					MatchCase: true,
				},
				ReplaceText:     ph[k],
				ForceSendFields: []string{"ReplaceText"},
			},
		})
	}
	return reqs
}
