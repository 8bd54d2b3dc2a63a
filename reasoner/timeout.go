package reasoner

import (
	"context"
	"time"

	"github.com/dice-group/owlgo/owl"
)

// InstanceRetriever is the evaluation contract shared by the fact-store
// and embedding-oracle backends.
type InstanceRetriever interface {
	Instances(ctx context.Context, expr owl.ClassExpression) (owl.IndividualSet, error)
}

// Result is the outcome of a bounded-time retrieval. TimedOut
// distinguishes a deadline expiry from a genuinely empty extension, which
// would otherwise be indistinguishable.
type Result struct {
	Individuals owl.IndividualSet
	TimedOut    bool
	Err         error
}

// InstancesWithTimeout runs one evaluation on a worker goroutine and waits
// up to timeout. On expiry the caller gets an empty set with TimedOut set;
// the worker is abandoned and may run to completion. Cache writes from an
// abandoned worker are tolerated: cached values are idempotent, so last
// writer wins without locking. A non-positive timeout waits indefinitely,
// subject only to ctx.
func InstancesWithTimeout(ctx context.Context, r InstanceRetriever, expr owl.ClassExpression, timeout time.Duration) Result {
	type outcome struct {
		individuals owl.IndividualSet
		err         error
	}

	done := make(chan outcome, 1)
	go func() {
		individuals, err := r.Instances(ctx, expr)
		done <- outcome{individuals: individuals, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case out := <-done:
		if out.err != nil {
			return Result{Err: out.err}
		}
		return Result{Individuals: out.individuals}
	case <-ctx.Done():
		return Result{Individuals: owl.NewIndividualSet(), TimedOut: true, Err: ctx.Err()}
	case <-expired:
		return Result{Individuals: owl.NewIndividualSet(), TimedOut: true}
	}
}
