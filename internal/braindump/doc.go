// Package braindump is the entry point for turning free text into planning
// records.
//
// Service resolves the configured backend, consults the result cache and
// invokes the adapter. It never retries, never falls back to another backend
// and does not coalesce identical requests that are in flight at the same
// time: both reach the network.
//
//	svc := braindump.NewService(extraction.DefaultRegistry(nil), cache.New(cache.Config{
//	    TTL:        30 * time.Minute,
//	    MaxEntries: 100,
//	}))
//	res, err := svc.ProcessText(ctx, "Call mom tomorrow. Exercise daily at 7am.", cfg.AI)
package braindump
