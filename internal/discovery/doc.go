// Package discovery finds marketplace backends on the local network with
// mDNS.
//
// Backends advertise the "_artesanato._tcp" service type. The TXT record
// may carry "scheme", "path" and "version"; the resulting Backend.BaseURL
// is what api.NewClient expects. Discovery is opt-in (api.discover or
// "artesanato descobrir"); a configured api.url always wins.
//
//	url, err := discovery.Discover(ctx, 3*time.Second)
//	if errors.Is(err, discovery.ErrNoBackend) {
//	    // fall back to the configured URL
//	}
//
// mDNS needs multicast on the local segment and UDP port 5353 open.
package discovery
