package reward

import "time"

// MergeExpiration computes the new ledger expiration under the stacking
// policy: the reward duration is added on top of whatever non-permanent time
// the player still has, so repeated excellence keeps extending an active VIP
// instead of being swallowed by it. With no current grant (or an already
// expired one) the new expiration is simply now + duration.
func MergeExpiration(now, current time.Time, hasCurrent bool, duration time.Duration) time.Time {
	base := now
	if hasCurrent && current.After(now) {
		base = current
	}
	return base.Add(duration)
}
