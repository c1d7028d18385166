package devicelink

import (
	"context"

	"github.com/brutella/dnssd"

	"github.com/wboxxx/magicstomp-autotune/internal/applog"
)

// ServiceType is the mDNS/DNS-SD service type a network-bridged Magicstomp
// link announces itself as, generalized from the teacher's KISS-over-TCP
// "_kiss-tnc._tcp" (src/dns_sd.go) to this domain.
const ServiceType = "_magicstomp-link._tcp"

// Announce publishes a DNS-SD record advertising a network-bridged
// DeviceLink on port, under name (host device name if empty isn't
// resolved here; callers should pass a concrete name). It returns a
// responder-stop function and does not block; the responder itself runs
// in its own goroutine until ctx is cancelled or Announce's returned
// cleanup is invoked.
func Announce(ctx context.Context, name string, port int) (stop func(), err error) {
	logger := applog.For("devicelink.announce")

	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, err
	}
	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, err
	}
	if _, err := responder.Add(service); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := responder.Respond(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("dns-sd responder stopped", "err", err)
		}
	}()

	return cancel, nil
}
