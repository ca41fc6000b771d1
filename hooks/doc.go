// Package hooks provides ready-made error hooks for package hook.
//
// Each constructor returns a hook.Hook[E] for either error shape, so the
// same sink serves functions failing with *hook.Opaque or *errors.AppError:
//
//	func (s *Store) Fetch(ctx context.Context, id int) (string, error) {
//	    h := hooks.Observe[*hook.Opaque](ctx, s.log, s.metrics, "Store.Fetch")
//	    return hook.Run(h, func() (string, *hook.Opaque) { ... })
//	}
//
// Log writes one structured record per escaped error. Record counts the
// error on the hook.errors instrument and marks the span carried by ctx.
// Observe does both under a single error id.
package hooks
