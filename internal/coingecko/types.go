package coingecko

// CoinMarket /coins/markets の 1 件分
type CoinMarket struct {
	ID                           string     `json:"id"`
	Symbol                       string     `json:"symbol"`
	Name                         string     `json:"name"`
	Image                        string     `json:"image"`
	CurrentPrice                 float64    `json:"current_price"`
	MarketCap                    float64    `json:"market_cap"`
	MarketCapRank                int        `json:"market_cap_rank"`
	FullyDilutedValuation        *float64   `json:"fully_diluted_valuation"`
	TotalVolume                  float64    `json:"total_volume"`
	High24h                      float64    `json:"high_24h"`
	Low24h                       float64    `json:"low_24h"`
	PriceChange24h               float64    `json:"price_change_24h"`
	PriceChangePercentage24h     float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7d      *float64   `json:"price_change_percentage_7d_in_currency,omitempty"`
	PriceChangePercentage30d     *float64   `json:"price_change_percentage_30d_in_currency,omitempty"`
	MarketCapChange24h           float64    `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h float64    `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            float64    `json:"circulating_supply"`
	TotalSupply                  *float64   `json:"total_supply"`
	MaxSupply                    *float64   `json:"max_supply"`
	ATH                          float64    `json:"ath"`
	ATHChangePercentage          float64    `json:"ath_change_percentage"`
	ATHDate                      string     `json:"ath_date"`
	ATL                          float64    `json:"atl"`
	ATLChangePercentage          float64    `json:"atl_change_percentage"`
	ATLDate                      string     `json:"atl_date"`
	LastUpdated                  string     `json:"last_updated"`
	Sparkline7d                  *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// Sparkline 7 日間の価格推移
type Sparkline struct {
	Price []float64 `json:"price"`
}

// MarketChart /coins/{id}/market_chart のレスポンス
// 各要素は [unix ミリ秒, 値] のペア。
type MarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// CoinDetail /coins/{id} のレスポンス（利用フィールドのみ）
type CoinDetail struct {
	ID          string            `json:"id"`
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name"`
	Description map[string]string `json:"description"`
	Links       CoinLinks         `json:"links"`
	Image       CoinImage         `json:"image"`
	MarketData  CoinMarketData    `json:"market_data"`
}

// CoinLinks コイン関連リンク
type CoinLinks struct {
	Homepage       []string `json:"homepage"`
	BlockchainSite []string `json:"blockchain_site"`
	SubredditURL   string   `json:"subreddit_url"`
}

// CoinImage コイン画像 URL 一式
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData コイン詳細の市場データ
type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64            `json:"price_change_percentage_7d"`
	PriceChangePercentage30d float64            `json:"price_change_percentage_30d"`
}

// TrendingCoin /search/trending の 1 件分
type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

// TrendingItem トレンドコインの内容
type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Small         string  `json:"small"`
	Large         string  `json:"large"`
	Slug          string  `json:"slug"`
	PriceBTC      float64 `json:"price_btc"`
	Score         int     `json:"score"`
}

// SimplePriceResult /simple/price のレスポンス
// コイン ID -> フィールド名（jpy, jpy_24h_change, last_updated_at 等）-> 値。
type SimplePriceResult map[string]map[string]float64

type trendingResponse struct {
	Coins []TrendingCoin `json:"coins"`
}

type apiErrorBody struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}
