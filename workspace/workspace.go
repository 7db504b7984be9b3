// Package workspace dials the Google Sheets, Docs and Drive APIs with a
// service account and looks up files by name.
package workspace

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// MIME types of native Google files.
const (
	SpreadsheetMIME = "application/vnd.google-apps.spreadsheet"
	DocumentMIME    = "application/vnd.google-apps.document"
)

// Scopes are the OAuth scopes the service account is granted.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	docs.DocumentsScope,
	drive.DriveScope,
}

// Services bundles the API clients used by orderdesk.
type Services struct {
	Sheets *sheets.Service
	Docs   *docs.Service
	Drive  *drive.Service
}

// DialJSON creates all clients from a service account JSON key.
func DialJSON(ctx context.Context, credentials []byte) (*Services, error) {
	return Dial(ctx, option.WithCredentialsJSON(credentials), option.WithScopes(Scopes...))
}

// Dial creates all clients with the given options.
func Dial(ctx context.Context, opts ...option.ClientOption) (*Services, error) {
	sh, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	dc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("docs client: %w", err)
	}
	dr, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return &Services{Sheets: sh, Docs: dc, Drive: dr}, nil
}

// FindFile returns the id of the first non-trashed file with the exact name
// and MIME type. found is false when there is none.
func FindFile(ctx context.Context, drv *drive.Service, name, mimeType string) (id string, found bool, err error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), escapeQuery(mimeType))
	resp, err := drv.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("search drive for %q: %w", name, err)
	}
	if len(resp.Files) == 0 {
		return "", false, nil
	}
	return resp.Files[0].Id, true, nil
}

// escapeQuery escapes a value for use inside a quoted Drive query string.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
