package tracking

import (
	"net/url"
	"strings"
	"testing"
)

func queryOf(t *testing.T, rawURL string) url.Values {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse result url failed: %v", err)
	}
	return parsed.Query()
}

func TestBuildAffiliateURLDefaults(t *testing.T) {
	got := BuildAffiliateURL("https://bitflyer.com/ja-jp/", "exchange_hikaku", "sidebar_banner", nil)
	query := queryOf(t, got)
	if query.Get("utm_source") != "crypto-navi" {
		t.Fatalf("expected default utm_source, got %s", query.Get("utm_source"))
	}
	if query.Get("utm_medium") != "affiliate" {
		t.Fatalf("expected default utm_medium, got %s", query.Get("utm_medium"))
	}
	if query.Get("utm_campaign") != "exchange_hikaku" {
		t.Fatalf("expected campaign, got %s", query.Get("utm_campaign"))
	}
	if query.Get("utm_content") != "sidebar_banner" {
		t.Fatalf("expected content, got %s", query.Get("utm_content"))
	}
	if !strings.HasPrefix(got, "https://bitflyer.com/ja-jp/") {
		t.Fatalf("base url must be preserved: %s", got)
	}
}

func TestBuildAffiliateURLPreservesExistingParams(t *testing.T) {
	got := BuildAffiliateURL("https://x.example/?foo=1", "camp", "", nil)
	query := queryOf(t, got)
	if query.Get("foo") != "1" {
		t.Fatalf("existing param must survive: %s", got)
	}
	if query.Get("utm_campaign") != "camp" {
		t.Fatalf("campaign missing: %s", got)
	}
}

func TestBuildAffiliateURLOverwritesUTM(t *testing.T) {
	got := BuildAffiliateURL("https://x.example/?utm_source=old&utm_campaign=stale", "fresh", "", nil)
	query := queryOf(t, got)
	if got := query["utm_source"]; len(got) != 1 || got[0] != "crypto-navi" {
		t.Fatalf("utm_source must be overwritten exactly once, got %v", got)
	}
	if got := query["utm_campaign"]; len(got) != 1 || got[0] != "fresh" {
		t.Fatalf("utm_campaign must be overwritten exactly once, got %v", got)
	}
}

func TestBuildAffiliateURLIdempotentOnParsedPath(t *testing.T) {
	first := BuildAffiliateURL("https://x.example/lp", "camp", "cta", nil)
	second := BuildAffiliateURL(first, "camp", "cta", nil)
	if first != second {
		t.Fatalf("parsed path must be idempotent:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestBuildAffiliateURLFallbackConcat(t *testing.T) {
	got := BuildAffiliateURL("totally not a url", "camp", "", nil)
	if !strings.Contains(got, "?utm_source=crypto-navi") {
		t.Fatalf("fallback should use ? separator: %s", got)
	}

	withQuery := BuildAffiliateURL("broken path?utm_source=a", "camp", "", nil)
	if !strings.Contains(withQuery, "&utm_source=") {
		t.Fatalf("fallback should use & separator when ? present: %s", withQuery)
	}
	// フォールバック経路は重複除去しない
	if strings.Count(withQuery, "utm_source=") != 2 {
		t.Fatalf("fallback path must not dedupe params: %s", withQuery)
	}
}

func TestBuildAffiliateURLOverrides(t *testing.T) {
	got := BuildAffiliateURL("https://x.example/", "camp", "", &UTMParams{
		Source: "newsletter",
		Term:   "btc",
	})
	query := queryOf(t, got)
	if query.Get("utm_source") != "newsletter" {
		t.Fatalf("override source not applied: %s", got)
	}
	if query.Get("utm_term") != "btc" {
		t.Fatalf("override term not applied: %s", got)
	}
	if query.Get("utm_medium") != "affiliate" {
		t.Fatalf("unset override must keep default: %s", got)
	}
}

func TestBuildRouteURL(t *testing.T) {
	got := BuildRouteURL("https://coincheck.com/ja/", UTMParams{}, &RouteURLOptions{
		Page:     "/exchanges/coincheck",
		Position: "review_cta",
	})
	query := queryOf(t, got)
	if query.Get("utm_campaign") != "exchange-comparison" {
		t.Fatalf("expected default campaign, got %s", query.Get("utm_campaign"))
	}
	if query.Get("ref_page") != "/exchanges/coincheck" {
		t.Fatalf("ref_page missing: %s", got)
	}
	if query.Get("ref_pos") != "review_cta" {
		t.Fatalf("ref_pos missing: %s", got)
	}
}

func TestImpressionTagURL(t *testing.T) {
	tag, ok := ImpressionTagURL("a8", "s00000025170001", "a24100100000")
	if !ok || tag != "https://www19.a8.net/0.gif?a8mat=s00000025170001+a24100100000" {
		t.Fatalf("unexpected a8 tag: %s", tag)
	}
	tag, ok = ImpressionTagURL("accesstrade", "1234567", "crypto-affiliate-001")
	if !ok || tag != "https://h.accesstrade.net/sp/cc?rk=1234567" {
		t.Fatalf("unexpected accesstrade tag: %s", tag)
	}
	tag, ok = ImpressionTagURL("tcs", "dmm_btc_001", "tcs-media-001")
	if !ok || tag != "https://www.tcs-asp.net/alink?AC=dmm_btc_001&LC=tcs-media-001" {
		t.Fatalf("unexpected tcs tag: %s", tag)
	}
	if _, ok := ImpressionTagURL("direct", "x", "y"); ok {
		t.Fatalf("direct must have no impression tag")
	}
}
