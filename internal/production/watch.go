package production

import (
	"context"
	"time"

	"github.com/comalice/promisex"
)

// Watch subscribes to all three terminal events of p and publishes an
// Outcome for whichever fires. Because a Promise fires at most one terminal
// event, at most one Outcome is published per watched Promise. Publish
// errors are dropped; publishing is best-effort by contract.
func Watch(ctx context.Context, promiseID string, p *promisex.Promise, pub Publisher) {
	forward := func(event string) promisex.Listener {
		return func(args ...any) {
			_ = pub.Publish(ctx, Outcome{
				PromiseID: promiseID,
				Event:     event,
				Args:      args,
				Timestamp: time.Now(),
			})
		}
	}

	p.AddCallback(forward(promisex.EventSuccess)).
		AddErrback(forward(promisex.EventError)).
		AddCancelback(forward(promisex.EventCancel))
}
