// Package tasks drives the WaveSpeed task lifecycle: submit a
// generation request, poll the prediction endpoint, and return the
// terminal result.
//
// # Overview
//
// A submission creates a Handle whose status moves through
//
//	submitted -> running -> completed | failed | timed_out
//
// The Submitter posts a request payload and returns the Handle. The
// Poller owns the wait loop: it checks the wall-clock deadline before
// every poll, logs each status change once, swallows transient
// transport faults (the network blinking is not the task failing),
// and surfaces task failure and task timeout as distinct errors.
//
// # Usage
//
//	submitter := tasks.NewSubmitter(client, logger)
//	handle, err := submitter.Submit(ctx, requests.NewSeedreamV4("a cat"))
//	if err != nil {
//	    return err
//	}
//
//	poller := tasks.NewPoller(client, logger)
//	result, err := poller.WaitFor(ctx, handle, 0, 0) // default 5s / 30m
//
// # Design Decisions
//
//   - Handles are plain values: no registry, no background goroutines
//   - Polling mutates only the handle it was given
//   - Wire statuses are normalized once, at the decode boundary
package tasks
