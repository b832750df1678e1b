// Package tabs periodically mirrors the browser's open windows while
// someone is watching. The poll loop only runs when at least one
// subscriber is attached; an idle dashboard costs the extension nothing.
package tabs

import (
	"context"
	"sync"
	"time"

	"github.com/karadeck/karadeck/internal/bridge"
	"github.com/karadeck/karadeck/internal/logger"
)

// WindowSource is the slice of the extension bridge the poller needs.
type WindowSource interface {
	Connected() bool
	GetWindows(ctx context.Context) ([]bridge.Window, error)
}

// Update is one poll result. Windows is nil while the extension is
// disconnected.
type Update struct {
	Connected bool            `json:"connected"`
	Windows   []bridge.Window `json:"windows"`
}

// Poller broadcasts window updates to subscribers on a fixed interval.
type Poller struct {
	source   WindowSource
	log      logger.Logger
	interval time.Duration

	mu     sync.Mutex
	subs   map[int]chan Update
	nextID int
	cancel context.CancelFunc
}

func NewPoller(source WindowSource, interval time.Duration, log logger.Logger) *Poller {
	return &Poller{
		source:   source,
		log:      log,
		interval: interval,
		subs:     make(map[int]chan Update),
	}
}

// Subscribe attaches a listener and returns its update channel plus a
// release function. The first subscriber starts the poll loop; releasing
// the last one stops it immediately.
func (p *Poller) Subscribe() (<-chan Update, func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	ch := make(chan Update, 1)
	p.subs[id] = ch
	if len(p.subs) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		go p.run(ctx)
	}
	p.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			if len(p.subs) == 0 && p.cancel != nil {
				p.cancel()
				p.cancel = nil
			}
			p.mu.Unlock()
		})
	}
	return ch, release
}

// Subscribers reports the current listener count.
func (p *Poller) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Poll fetches the current windows once, without subscribing.
func (p *Poller) Poll(ctx context.Context) Update {
	if !p.source.Connected() {
		return Update{Connected: false}
	}
	windows, err := p.source.GetWindows(ctx)
	if err != nil {
		p.log.Debug("window poll failed", logger.Error(err))
		return Update{Connected: p.source.Connected()}
	}
	return Update{Connected: true, Windows: windows}
}

func (p *Poller) run(ctx context.Context) {
	p.log.Debug("tab polling started")
	defer p.log.Debug("tab polling stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.broadcast(p.Poll(ctx))
	for {
		select {
		case <-ticker.C:
			p.broadcast(p.Poll(ctx))
		case <-ctx.Done():
			return
		}
	}
}

// broadcast delivers the latest update to every subscriber. A slow
// subscriber has its stale buffered update replaced, never blocks the
// loop.
func (p *Poller) broadcast(u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}
