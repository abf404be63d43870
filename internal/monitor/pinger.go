// pinger.go wraps ICMP echo probing behind a small interface so the prober
// can be tested without network access.
package monitor

import (
	"context"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// Pinger reports whether a host answers an ICMP echo within the timeout.
type Pinger interface {
	Ping(ctx context.Context, ip string) bool
}

// ICMPPinger probes hosts with a single ICMP echo request. It attempts a
// privileged raw-socket ping and falls back to unprivileged UDP ping only
// when the raw socket cannot be opened (no CAP_NET_RAW). A clean timeout
// with no reply is a final answer, so an unreachable host costs at most one
// Timeout, not two.
type ICMPPinger struct {
	Timeout time.Duration

	// attempt is swappable in tests.
	attempt func(ctx context.Context, ip string, privileged bool) (bool, error)
}

func NewICMPPinger(timeout time.Duration) *ICMPPinger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &ICMPPinger{Timeout: timeout}
	p.attempt = p.run
	return p
}

func (p *ICMPPinger) Ping(ctx context.Context, ip string) bool {
	alive, err := p.attempt(ctx, ip, true)
	if err != nil {
		// Socket error, not a timeout. Retry without CAP_NET_RAW; works when
		// net.ipv4.ping_group_range allows unprivileged ICMP.
		alive, _ = p.attempt(ctx, ip, false)
	}
	return alive
}

func (p *ICMPPinger) run(ctx context.Context, ip string, privileged bool) (bool, error) {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		return false, err
	}

	pinger.SetPrivileged(privileged)
	pinger.Count = 1
	pinger.Timeout = p.Timeout

	if err := pinger.RunWithContext(ctx); err != nil {
		return false, err
	}
	return pinger.Statistics().PacketsRecv > 0, nil
}
