// Package retry runs an operation until it succeeds or a fixed attempt
// budget is spent.
//
// Image downloads use one initial attempt plus a retry budget, with no pause
// between attempts unless a delay is configured:
//
//	cfg := retry.ForBudget(30, 0)
//	cfg.Context = ctx
//	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
//		tracker.RecordRetry()
//	}
//	body, err := retry.DoWithResult(func() ([]byte, error) {
//		return fetchImage(ctx, link)
//	}, cfg)
//
// Every failure consumes one attempt. Cancellation of cfg.Context stops the
// loop before the next attempt and is never retried.
package retry
