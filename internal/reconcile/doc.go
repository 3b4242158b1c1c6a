// Package reconcile compares the declared desired state of an instance with
// the state observed from the cluster and drives the minimal ordered set of
// remote operations needed to close the gap.
//
// A run proceeds observe -> plan -> mutate -> final action. Mutations are
// strictly sequential; every awaited job completes before the next operation
// is submitted. Runs keep no state: the next invocation observes fresh.
package reconcile
