package ports

import "context"

// Clipboard receives rendered reports.
type Clipboard interface {
	// Copy places text on the clipboard. It returns once the write is
	// done or has failed.
	Copy(ctx context.Context, text string) error
}
