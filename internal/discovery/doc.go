// Package discovery finds and advertises mini relays with mDNS.
//
// Relays register the "_minichat._tcp" service type with TXT records
// describing the websocket endpoint:
//
//	path=/ws       websocket path
//	tls=1          present when the relay serves wss://
//	version=1.2.0  relay build version
//
// # Usage Example
//
//	relays, err := discovery.NewScanner().Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, r := range relays {
//	    fmt.Println(r.Instance, r.URL())
//	}
//
// Relays advertise themselves with Advertise and withdraw with Shutdown:
//
//	ad, err := discovery.Advertise("mini-relay on den", 6667, "/ws", false, version.Version)
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
// Discovery only works on the local link. Multicast is usually blocked on
// corporate networks and inside containers, so a relay URL can always be
// given directly with --server.
package discovery
