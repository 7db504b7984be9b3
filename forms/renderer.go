// Package forms renders one printable order form per pick-up order.
package forms

import (
	"context"
	_ "embed"
	"errors"

	"github.com/zalepa/orderdesk/orders"
)

// ErrTemplateNotFound is returned by Prepare when the form template is missing.
var ErrTemplateNotFound = errors.New("order form template not found")

// Renderer turns a pick-up order into a one-page PDF.
type Renderer interface {
	// Prepare locates the template. It is called once per export.
	Prepare(ctx context.Context) error
	// Render writes the filled form for o to path.
	Render(ctx context.Context, o orders.PickupOrder, path string) error
}

// DefaultTemplate is a starter template for SlipRenderer.
//
//go:embed slip.txt
var DefaultTemplate []byte
