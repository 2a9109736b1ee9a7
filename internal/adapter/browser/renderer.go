// Package browser drives a headless rendering engine for the fallback
// extraction path. The explore page intermittently serves its data only to
// a fully rendered session; when that happens the renderer loads the page,
// waits for the background destinations RPC the page makes on its own, and
// hands the captured body back for extraction.
package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
)

const rpcEndpoint = "rpc"

// rpcURLMarker identifies the background call that carries the destination
// data the rendered page displays.
const rpcURLMarker = "GetExploreDestinations"

// settleDelay gives the page time to finish buffering the RPC body after
// the response-received event fires.
const settleDelay = 1500 * time.Millisecond

// Renderer owns one browser engine. A Renderer must not be shared across
// concurrent workers: concurrent captures in one engine cross their
// interception channels. Give each worker its own instance; a mutex guards
// against accidental sharing.
type Renderer struct {
	allocCtx     context.Context
	cancelAlloc  context.CancelFunc
	browserCtx   context.Context
	cancelBrowse context.CancelFunc

	timeout time.Duration
	log     *logger.Logger

	mu sync.Mutex
}

// Options configures a Renderer.
type Options struct {
	// Headless runs the engine without a visible window. On by default in
	// production; off is useful when debugging interception locally.
	Headless bool

	// Timeout bounds one full capture: navigation, render, RPC wait.
	Timeout time.Duration
}

// NewRenderer launches a browser engine with the stealth flags the remote
// is known to check.
func NewRenderer(opts Options, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "en-US"),
		chromedp.WindowSize(1440, 900),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowse := chromedp.NewContext(allocCtx)

	return &Renderer{
		allocCtx:     allocCtx,
		cancelAlloc:  cancelAlloc,
		browserCtx:   browserCtx,
		cancelBrowse: cancelBrowse,
		timeout:      opts.Timeout,
		log:          log,
	}
}

// Close shuts the engine down. The Renderer is unusable afterwards.
func (r *Renderer) Close() {
	r.cancelBrowse()
	r.cancelAlloc()
}

// CaptureExploreRPC renders pageURL in a fresh tab and returns the body of
// the destinations RPC the page issues while rendering. The tab is closed
// before returning, so each capture starts from a clean session.
func (r *Renderer) CaptureExploreRPC(ctx context.Context, pageURL string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tab, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tab, r.timeout)
	defer cancel()

	captured := make(chan network.RequestID, 1)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		if resp.Response.Status != 200 || !strings.Contains(resp.Response.URL, rpcURLMarker) {
			return
		}
		select {
		case captured <- resp.RequestID:
		default:
		}
	})

	started := time.Now()
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
	); err != nil {
		return nil, domain.NewTransportError(rpcEndpoint, err)
	}

	var requestID network.RequestID
	select {
	case requestID = <-captured:
	case <-ctx.Done():
		return nil, domain.NewTransportError(rpcEndpoint, ctx.Err())
	case <-tabCtx.Done():
		return nil, domain.NewTransportError(rpcEndpoint, tabCtx.Err())
	}

	if err := chromedp.Run(tabCtx, chromedp.Sleep(settleDelay)); err != nil {
		return nil, domain.NewTransportError(rpcEndpoint, err)
	}

	var body []byte
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(c context.Context) error {
		var bodyErr error
		body, bodyErr = network.GetResponseBody(requestID).Do(c)
		return bodyErr
	}))
	if err != nil {
		return nil, domain.NewTransportError(rpcEndpoint, err)
	}

	r.log.Debug().
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("Rendered fallback captured rpc body")

	return body, nil
}
