package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/solvr/extractor"
	"github.com/ysmood/gson"
)

// Session is one loaded page in its own browser. It implements
// extractor.PageCloser; Close releases the browser exactly once.
type Session struct {
	browser *browser
	page    *rod.Page
	router  *rod.HijackRouter
}

var _ extractor.PageCloser = (*Session)(nil)

// Open launches a browser and loads rawURL.
//
// Lifecycle:
//
//  1. Launch          – new Chromium process for this session only
//  2. Page setup      – user agent, 1280x800 viewport, stealth JS, headers
//  3. Hijack mount    – block heavy resources (before navigation!)
//  4. Navigate        – bounded by NavigationTimeout
//  5. Wait            – DOM stable, then a fixed settle delay for late JS
//
// Any failure closes the browser before returning.
func (l *Launcher) Open(ctx context.Context, rawURL string) (extractor.PageCloser, error) {
	// ── 1. Launch ─────────────────────────────────────────────────────
	b, err := l.launch(ctx)
	if err != nil {
		return nil, err
	}
	page, err := b.rod.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.close()
		return nil, categorizeError(err, "failed to create page")
	}
	s := &Session{browser: b, page: page}

	if err := l.load(ctx, s, rawURL); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (l *Launcher) load(ctx context.Context, s *Session, rawURL string) error {
	page := s.page

	// ── 2. Page setup ─────────────────────────────────────────────────
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      l.browserCfg.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return categorizeError(err, "failed to set user agent")
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		return categorizeError(err, "failed to set viewport")
	}
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		l.logger.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	headers := map[string]string{"Accept-Language": "en-US,en;q=0.9"}
	if u, err := url.Parse(rawURL); err == nil {
		headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(page)

	// ── 3. Hijack mount ───────────────────────────────────────────────
	s.router = setupHijack(page, l.scraperCfg.BlockedResourceTypes, true)

	// ── 4. Navigate ───────────────────────────────────────────────────
	navCtx, cancel := context.WithTimeout(ctx, l.scraperCfg.NavigationTimeout)
	defer cancel()
	p := page.Context(navCtx)

	start := time.Now()
	if err := p.Navigate(rawURL); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}

	// ── 5. Wait ───────────────────────────────────────────────────────
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		l.logger.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
	if err := sleep(ctx, l.scraperCfg.SettleDelay); err != nil {
		return categorizeError(err, "page settle interrupted")
	}
	l.logger.Info("page loaded", "url", rawURL, "duration", time.Since(start))
	return nil
}

// WaitElement waits up to timeout for selector to match.
func (s *Session) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := s.page.Context(ctx).Timeout(timeout).Element(selector); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

const elementTextJS = `(sel) => {
	const el = document.querySelector(sel);
	return el ? el.textContent : null;
}`

// ElementText returns textContent of the first element matching selector.
func (s *Session) ElementText(ctx context.Context, selector string) (string, bool, error) {
	res, err := s.page.Context(ctx).Eval(elementTextJS, selector)
	if err != nil {
		return "", false, err
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

// BodyText returns document.body.textContent.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	return evalString(ctx, s.page, `() => document.body ? document.body.textContent : ""`)
}

// visibleTextJS collects text nodes whose parent element is rendered.
const visibleTextJS = `() => {
	const skip = new Set(["SCRIPT", "STYLE", "NOSCRIPT", "TEMPLATE"]);
	const walker = document.createTreeWalker(document.body || document.documentElement, NodeFilter.SHOW_TEXT, {
		acceptNode(node) {
			const parent = node.parentElement;
			if (!parent || skip.has(parent.tagName)) return NodeFilter.FILTER_REJECT;
			const style = window.getComputedStyle(parent);
			if (style.display === "none" || style.visibility === "hidden") return NodeFilter.FILTER_REJECT;
			return node.textContent.trim() ? NodeFilter.FILTER_ACCEPT : NodeFilter.FILTER_REJECT;
		}
	});
	const parts = [];
	while (walker.nextNode()) parts.push(walker.currentNode.textContent.trim());
	return parts.join(" ");
}`

// VisibleText returns the space-joined text of all rendered text nodes.
func (s *Session) VisibleText(ctx context.Context) (string, error) {
	return evalString(ctx, s.page, visibleTextJS)
}

// Close stops request interception and kills the browser.
func (s *Session) Close() error {
	if s.router != nil {
		_ = s.router.Stop()
		s.router = nil
	}
	s.browser.close()
	return nil
}

func evalString(ctx context.Context, page *rod.Page, js string) (string, error) {
	res, err := page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
