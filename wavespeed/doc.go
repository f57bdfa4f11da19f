// Package wavespeed is the top-level client for the WaveSpeed image
// generation API.
//
// # Overview
//
// A Client bundles request submission, result polling, and media upload
// behind one configured surface. Each Client carries its own API key,
// base URL, retry policy, and polling cadence; nothing is shared through
// package-level state, so two Clients with different keys can coexist in
// one process.
//
// # Usage
//
//	client, err := wavespeed.New(
//		wavespeed.WithAPIKey("sk-..."),
//		wavespeed.WithTaskTimeout(10*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Run(ctx, requests.NewSeedreamV4("a lighthouse at dusk"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Outputs)
//
// Run blocks until the task reaches a terminal state. For fire-and-forget
// submission use Submit, hold the returned handle, and call WaitFor later.
//
// # API Key Resolution
//
// When no key is given via WithAPIKey, the client checks the
// WAVESPEED_API_KEY environment variable, then the credentials.toml file
// in the standard locations. New fails if all three come up empty.
//
// # Design Decisions
//
//   - Options mutate the Client before any network plumbing is built, so
//     a bad configuration fails in New rather than on first use.
//   - An optional rate limiter gates submissions and uploads only;
//     polling an already-submitted task is never throttled.
//   - A limiter supplied via WithLimiter stays owned by the caller and is
//     not closed by Client.Close.
//
// # Thread Safety
//
// A Client is safe for concurrent use. Handles returned by Submit are
// not; confine each handle to one goroutine.
package wavespeed
