// Package wizard is the interactive first-run setup for mini, built on
// Bubble Tea.
//
// The wizard first scans for relays with mDNS (skippable with "s") and
// prefills the server field with the first one found. It then asks for a
// nickname, the relay URL and the channels to join:
//
//	cfg, err := wizard.Run(current, discovery.NewScanner().Scan)
//	if errors.Is(err, wizard.ErrCancelled) {
//	    return nil
//	}
//
// The result is validated with config.Validate before the wizard exits;
// saving it is left to the caller.
package wizard
