package jinhx

import "context"

// Hydrater is implemented by components that need to load data before they
// render. Hydrate runs once per render of the component, before its fields
// are read, so it can turn ids set by tag attributes into rich values.
//
//	func (c *UserCard) Hydrate(ctx context.Context) error {
//	    c.User, err = users.Get(ctx, c.UserID)
//	    return err
//	}
//
// A failure aborts the render with ErrHydrationFailed.
type Hydrater interface {
	Hydrate(ctx context.Context) error
}

// TemplateSourcer is implemented by components that carry their template
// text instead of a file. A non-empty TemplateSource takes precedence over
// template lookup; conventional assets are still collected.
type TemplateSourcer interface {
	TemplateSource() string
}
