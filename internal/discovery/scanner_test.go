package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

// fakeResolver replays canned entries and closes the channel when ctx ends,
// the way zeroconf does.
type fakeResolver struct {
	entries   []*zeroconf.ServiceEntry
	err       error
	instances []string
}

func (f *fakeResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return f.serve(ctx, "", entries)
}

func (f *fakeResolver) Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return f.serve(ctx, instance, entries)
}

func (f *fakeResolver) serve(ctx context.Context, instance string, entries chan<- *zeroconf.ServiceEntry) error {
	f.instances = append(f.instances, instance)
	if f.err != nil {
		return f.err
	}
	go func() {
		defer close(entries)
		for _, e := range f.entries {
			select {
			case entries <- e:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return nil
}

func newFakeScanner(r *fakeResolver, timeout time.Duration) *Scanner {
	newResolver := func() (Resolver, error) { return r, nil }
	return &Scanner{Timeout: timeout, NewResolver: newResolver}
}

func TestScanner_Scan(t *testing.T) {
	r := &fakeResolver{entries: []*zeroconf.ServiceEntry{
		newEntry("office", "office.local.", 6667, []string{"10.0.0.5"}),
		newEntry("den", "den.local.", 6667, []string{"192.168.1.20"}),
		newEntry("ghost", "ghost.local.", 6667, nil),
		newEntry("den", "den.local.", 6667, []string{"192.168.1.20"}),
	}}

	relays, err := newFakeScanner(r, 100*time.Millisecond).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var names []string
	for _, relay := range relays {
		names = append(names, relay.Instance)
	}
	if got := strings.Join(names, ","); got != "den,office" {
		t.Errorf("relays = %s, want den,office", got)
	}
}

func TestScanner_Find(t *testing.T) {
	r := &fakeResolver{entries: []*zeroconf.ServiceEntry{
		newEntry("office", "office.local.", 6667, []string{"10.0.0.5"}),
		newEntry("den", "den.local.", 7000, []string{"192.168.1.20"}, "path=/chat", "tls=1"),
	}}

	start := time.Now()
	relay, err := newFakeScanner(r, 5*time.Second).Find(context.Background(), "den")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Find() waited for the timeout after a match")
	}
	if got, want := relay.URL(), "wss://192.168.1.20:7000/chat"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if len(r.instances) != 1 || r.instances[0] != "den" {
		t.Errorf("looked up %v, want [den]", r.instances)
	}
}

func TestScanner_FindNotFound(t *testing.T) {
	r := &fakeResolver{entries: []*zeroconf.ServiceEntry{
		newEntry("office", "office.local.", 6667, []string{"10.0.0.5"}),
	}}

	_, err := newFakeScanner(r, 50*time.Millisecond).Find(context.Background(), "den")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Find() error = %v, want not found", err)
	}
}

func TestScanner_ResolverErrors(t *testing.T) {
	lookupErr := errors.New("no multicast interface")

	s := newFakeScanner(&fakeResolver{err: lookupErr}, time.Second)
	if _, err := s.Find(context.Background(), "den"); !errors.Is(err, lookupErr) {
		t.Errorf("Find() error = %v, want %v", err, lookupErr)
	}
	if _, err := s.Scan(context.Background()); !errors.Is(err, lookupErr) {
		t.Errorf("Scan() error = %v, want %v", err, lookupErr)
	}

	createErr := errors.New("socket denied")
	s = &Scanner{
		Timeout:     time.Second,
		NewResolver: func() (Resolver, error) { return nil, createErr },
	}
	if _, err := s.Scan(context.Background()); !errors.Is(err, createErr) {
		t.Errorf("Scan() error = %v, want %v", err, createErr)
	}
}
