// Package browser provides a glprint host that drives a real Chrome page.
//
// Every context call is forwarded to the page's WebGL implementation over
// the DevTools protocol, so the fingerprint is the one the browser itself
// would produce. Pages are opened with stealth patches applied unless
// WithoutStealth is given.
//
// Importing the package registers it as "browser":
//
//	import _ "github.com/gogpu/glprint/host/browser"
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/gogpu/glprint"
)

// HostName is the registry name of the browser host.
const HostName = "browser"

// DefaultTimeout bounds each bridge call.
const DefaultTimeout = 10 * time.Second

func init() {
	glprint.RegisterHost(HostName, func() (glprint.Host, error) {
		return New(context.Background())
	})
}

type config struct {
	remoteURL string
	headless  bool
	stealth   bool
	timeout   time.Duration
}

// Option configures a Host.
type Option func(*config)

// WithRemoteURL connects to a running browser's DevTools endpoint instead
// of launching a local Chrome.
func WithRemoteURL(u string) Option {
	return func(c *config) {
		c.remoteURL = u
	}
}

// WithHeadless selects headless (the default) or headful Chrome.
func WithHeadless(headless bool) Option {
	return func(c *config) {
		c.headless = headless
	}
}

// WithoutStealth opens a plain page without anti-detection patches.
func WithoutStealth() Option {
	return func(c *config) {
		c.stealth = false
	}
}

// WithTimeout bounds each bridge call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Host is a glprint.Host backed by a browser page.
type Host struct {
	ctx     context.Context
	timeout time.Duration
	ev      evaluator

	agent    string
	platform string
	apis     struct {
		V1 bool `json:"v1"`
		V2 bool `json:"v2"`
	}

	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
}

// New launches (or connects to) a browser, opens a page and installs the
// bridge script.
func New(ctx context.Context, opts ...Option) (*Host, error) {
	c := config{headless: true, stealth: true, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&c)
	}
	log := glprint.Logger()

	h := &Host{}
	wsURL := c.remoteURL
	if wsURL == "" {
		l := launcher.New().Headless(c.headless)
		l = l.Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		h.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", c.headless)
	} else {
		log.Info("browser: connecting to remote", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	h.browser = b

	var page *rod.Page
	var err error
	if c.stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	h.page = page

	if _, err := page.Context(ctx).Eval(string(bridgeJS)); err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: install bridge: %w", err)
	}

	if err := h.init(ctx, pageEvaluator{page: page}, c.timeout); err != nil {
		h.cleanup()
		return nil, err
	}
	return h, nil
}

// init binds the evaluator and caches the page identity.
func (h *Host) init(ctx context.Context, ev evaluator, timeout time.Duration) error {
	h.ctx, h.ev, h.timeout = ctx, ev, timeout

	raw, err := h.call("agent")
	if err != nil {
		return err
	}
	var id struct {
		Agent    string `json:"agent"`
		Platform string `json:"platform"`
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return fmt.Errorf("browser: decode agent: %w", err)
	}
	h.agent, h.platform = id.Agent, id.Platform

	raw, err = h.call("apis")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &h.apis); err != nil {
		return fmt.Errorf("browser: decode apis: %w", err)
	}
	return nil
}

func (h *Host) call(method string, args ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	defer cancel()
	return h.ev.call(ctx, method, args)
}

// callInto runs a bridge call and decodes its value into v.
func (h *Host) callInto(v any, method string, args ...any) error {
	raw, err := h.call(method, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("browser: decode %s: %w", method, err)
	}
	return nil
}

// Agent implements glprint.Host.
func (h *Host) Agent() string { return h.agent }

// Platform implements glprint.Host.
func (h *Host) Platform() string { return h.platform }

// SupportsAPI implements glprint.APIReporter from the page's
// WebGLRenderingContext and WebGL2RenderingContext globals.
func (h *Host) SupportsAPI(version int) bool {
	switch version {
	case 1:
		return h.apis.V1
	case 2:
		return h.apis.V2
	}
	return false
}

// NewSurface implements glprint.Host.
func (h *Host) NewSurface(width, height int) (glprint.Surface, error) {
	var id int
	if err := h.callInto(&id, "newSurface", width, height); err != nil {
		return nil, err
	}
	return &Surface{host: h, id: id}, nil
}

// Close closes the page and the browser it launched.
func (h *Host) Close() error {
	h.cleanup()
	return nil
}

func (h *Host) cleanup() {
	log := glprint.Logger()
	if h.page != nil {
		if err := h.page.Close(); err != nil {
			log.Warn("browser: close page", "err", err)
		}
		h.page = nil
	}
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			log.Warn("browser: close browser", "err", err)
		}
		h.browser = nil
	}
	if h.lnch != nil {
		h.lnch.Kill()
		h.lnch = nil
	}
}
