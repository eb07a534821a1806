// Package campaign runs bulk email campaigns as detached background jobs.
//
// A Dispatcher accepts a validated Campaign, issues a job ID, and drips
// messages to recipients one at a time: a random sender per message,
// personalized subject and body, a paced delay between sends, and a coarse
// hourly cap. Progress is written through a Store (in-memory or Redis) so
// status and per-recipient delivery details survive across observers and,
// with Redis, across processes.
//
// The dispatch loop is strictly sequential per job. Multiple jobs run
// concurrently, each with its own cancellation handle:
//
//	d := campaign.New(store, pool, sender, renderer, campaign.Config{})
//	receipt, err := d.Start(ctx, c)
//	...
//	d.Cancel(receipt.JobID)
//
// Start detaches the run from the caller's context: an HTTP request ending
// does not stop the campaign. Only Cancel or process exit does.
package campaign
