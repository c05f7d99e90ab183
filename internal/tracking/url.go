package tracking

import (
	"net/url"
	"strings"

	"github.com/crypto-navi/api/internal/constants"
)

// UTMParams アフィリエイト URL に付与する UTM パラメータ
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Content  string
	Term     string
}

// BuildAffiliateURL ベース URL に UTM パラメータを付与した URL を返す。
// 既存の同名パラメータは上書きする。URL として解釈できない場合は
// `?` / `&` の単純連結にフォールバックする（この経路は重複除去しない）。
func BuildAffiliateURL(baseURL, campaign, content string, overrides *UTMParams) string {
	utm := UTMParams{
		Source:   constants.UTMSourceDefault,
		Medium:   constants.UTMMediumDefault,
		Campaign: campaign,
		Content:  content,
	}
	if overrides != nil {
		if overrides.Source != "" {
			utm.Source = overrides.Source
		}
		if overrides.Medium != "" {
			utm.Medium = overrides.Medium
		}
		if overrides.Term != "" {
			utm.Term = overrides.Term
		}
	}

	return applyQueryPairs(baseURL, utmPairs(utm))
}

// applyQueryPairs URL に (key, value) を上書き付与する。
// URL として解釈できない場合は単純連結にフォールバックする。
func applyQueryPairs(baseURL string, pairs [][2]string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return appendQueryNaive(baseURL, pairs)
	}
	query := parsed.Query()
	for _, pair := range pairs {
		query.Set(pair[0], pair[1])
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// utmPairs 空値を除いた (key, value) の組を安定した順序で返す
func utmPairs(utm UTMParams) [][2]string {
	ordered := [][2]string{
		{"utm_source", utm.Source},
		{"utm_medium", utm.Medium},
		{"utm_campaign", utm.Campaign},
		{"utm_content", utm.Content},
		{"utm_term", utm.Term},
	}
	pairs := make([][2]string, 0, len(ordered))
	for _, pair := range ordered {
		if pair[1] != "" {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

func appendQueryNaive(baseURL string, pairs [][2]string) string {
	if len(pairs) == 0 {
		return baseURL
	}
	separator := "?"
	if strings.Contains(baseURL, "?") {
		separator = "&"
	}
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		parts = append(parts, url.QueryEscape(pair[0])+"="+url.QueryEscape(pair[1]))
	}
	return baseURL + separator + strings.Join(parts, "&")
}

// RouteURLOptions 経路 URL 生成時の追加パラメータ
type RouteURLOptions struct {
	UTM      *UTMParams
	Page     string // ref_page として付与
	Position string // ref_pos として付与
}

// BuildRouteURL アフィリエイト経路のベース URL から最終的な遷移先 URL を生成する。
// UTM に加えてクリック位置の参照パラメータを付与する。
func BuildRouteURL(baseURL string, defaults UTMParams, opts *RouteURLOptions) string {
	utm := defaults
	if utm.Source == "" {
		utm.Source = constants.UTMSourceDefault
	}
	if utm.Medium == "" {
		utm.Medium = constants.UTMMediumDefault
	}
	if utm.Campaign == "" {
		utm.Campaign = "exchange-comparison"
	}
	if opts != nil && opts.UTM != nil {
		if opts.UTM.Source != "" {
			utm.Source = opts.UTM.Source
		}
		if opts.UTM.Medium != "" {
			utm.Medium = opts.UTM.Medium
		}
		if opts.UTM.Campaign != "" {
			utm.Campaign = opts.UTM.Campaign
		}
		if opts.UTM.Content != "" {
			utm.Content = opts.UTM.Content
		}
		if opts.UTM.Term != "" {
			utm.Term = opts.UTM.Term
		}
	}

	pairs := utmPairs(utm)
	if opts != nil {
		if opts.Page != "" {
			pairs = append(pairs, [2]string{"ref_page", opts.Page})
		}
		if opts.Position != "" {
			pairs = append(pairs, [2]string{"ref_pos", opts.Position})
		}
	}

	return applyQueryPairs(baseURL, pairs)
}
