package scraper

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to CDP resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// trackerDomains are analytics and ad hosts problem pages load but never
// need for their text.
var trackerDomains = map[string]struct{}{
	"doubleclick.net":         {},
	"googlesyndication.com":   {},
	"googleadservices.com":    {},
	"google-analytics.com":    {},
	"googletagmanager.com":    {},
	"googletagservices.com":   {},
	"facebook.net":            {},
	"hotjar.com":              {},
	"mixpanel.com":            {},
	"segment.io":              {},
	"segment.com":             {},
	"sentry.io":               {},
	"amplitude.com":           {},
	"fullstory.com":           {},
	"intercom.io":             {},
	"scorecardresearch.com":   {},
	"amazon-adsystem.com":     {},
	"ads-twitter.com":         {},
	"static.ads-twitter.com":  {},
	"analytics.twitter.com":   {},
	"consensu.org":            {},
	"cookielaw.org":           {},
	"onetrust.com":            {},
	"quantserve.com":          {},
}

// isTrackerDomain checks host and each parent domain against trackerDomains.
func isTrackerDomain(host string) bool {
	host = strings.ToLower(host)
	for {
		if _, ok := trackerDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
	}
}

// setupHijack installs a request interceptor that fails blocked resource
// types and, when blockTrackers is set, requests to tracker hosts.
// Returns nil if there is nothing to block; otherwise the caller must Stop
// the returned router.
func setupHijack(page *rod.Page, blockedTypes []string, blockTrackers bool) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := resourceTypes[name]; ok {
			blocked[rt] = struct{}{}
		}
	}
	if len(blocked) == 0 && !blockTrackers {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if _, ok := blocked[h.Request.Type()]; ok {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		if blockTrackers {
			if u, err := url.Parse(h.Request.URL().String()); err == nil && isTrackerDomain(u.Hostname()) {
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()
	return router
}
