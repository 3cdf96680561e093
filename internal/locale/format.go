package locale

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Format is what downstream formatters need to render dates, numbers, and
// currency for one request.  It travels in the request context; nothing
// writes to time.Local.
type Format struct {
	Tag      language.Tag
	Location *time.Location
}

type ctxKey struct{}

// WithFormat attaches f to ctx.
func WithFormat(ctx context.Context, f Format) context.Context {
	return context.WithValue(ctx, ctxKey{}, f)
}

// FormatFrom returns the Format stored on ctx, or English/UTC when none is
// present.
func FormatFrom(ctx context.Context) Format {
	if f, ok := ctx.Value(ctxKey{}).(Format); ok {
		return f
	}
	return Format{Tag: language.English, Location: time.UTC}
}

// In converts t to the request's location.
func (f Format) In(t time.Time) time.Time {
	if f.Location == nil {
		return t.UTC()
	}
	return t.In(f.Location)
}

// String is used by the debug endpoint.
func (f Format) String() string {
	name := "UTC"
	if f.Location != nil {
		name = f.Location.String()
	}
	return fmt.Sprintf("%s@%s", f.Tag, name)
}
