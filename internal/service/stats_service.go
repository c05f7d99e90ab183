package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/repository"
)

const (
	statsCacheTTL      = 45 * time.Second
	statsCustomMaxDays = 90
)

// StatsService 管理画面ダッシュボードの集計サービス
// クリック実績と配信状況を期間指定で集計する
type StatsService struct {
	clickRepo    repository.AffiliateClickRepository
	exchangeRepo repository.ExchangeRepository
	routeRepo    repository.AffiliateRouteRepository
}

// NewStatsService 集計サービスを生成する
func NewStatsService(clickRepo repository.AffiliateClickRepository, exchangeRepo repository.ExchangeRepository, routeRepo repository.AffiliateRouteRepository) *StatsService {
	return &StatsService{clickRepo: clickRepo, exchangeRepo: exchangeRepo, routeRepo: routeRepo}
}

// StatsQueryInput 集計クエリの入力
type StatsQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// StatsOverviewResponse 集計総覧レスポンス
type StatsOverviewResponse struct {
	Range    string       `json:"range"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Timezone string       `json:"timezone"`
	KPI      StatsKPI     `json:"kpi"`
	Delivery DeliveryRate `json:"delivery"`
}

// StatsKPI クリック集計の主要指標
type StatsKPI struct {
	ClicksTotal     int64 `json:"clicks_total"`
	Delivered       int64 `json:"delivered"`
	PendingRetry    int64 `json:"pending_retry"`
	Abandoned       int64 `json:"abandoned"`
	UniqueSessions  int64 `json:"unique_sessions"`
	UniqueExchanges int64 `json:"unique_exchanges"`
	ActiveExchanges int64 `json:"active_exchanges"`
}

// DeliveryRate ASP 配信の成功率
type DeliveryRate struct {
	DeliveredRate string `json:"delivered_rate"`
	PendingRate   string `json:"pending_rate"`
}

// StatsTrendResponse 日次推移レスポンス
type StatsTrendResponse struct {
	Range    string            `json:"range"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Timezone string            `json:"timezone"`
	Points   []StatsTrendPoint `json:"points"`
}

// StatsTrendPoint 日次推移の 1 点
type StatsTrendPoint struct {
	Date      string `json:"date"`
	Clicks    int64  `json:"clicks"`
	Delivered int64  `json:"delivered"`
}

// StatsRankingsResponse ランキングレスポンス
type StatsRankingsResponse struct {
	Range        string                 `json:"range"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Timezone     string                 `json:"timezone"`
	TopExchanges []ExchangeClickRanking `json:"top_exchanges"`
	TopPositions []PositionClickRanking `json:"top_positions"`
}

// ExchangeClickRanking 取引所別クリックランキング項目
type ExchangeClickRanking struct {
	ExchangeSlug string `json:"exchange_slug"`
	ExchangeName string `json:"exchange_name"`
	ASP          string `json:"asp"`
	Clicks       int64  `json:"clicks"`
	Delivered    int64  `json:"delivered"`
}

// PositionClickRanking 設置位置別クリック項目
type PositionClickRanking struct {
	Page     string `json:"page"`
	Position string `json:"position"`
	Clicks   int64  `json:"clicks"`
}

// StatsRewardsResponse ASP 別報酬見込みレスポンス
type StatsRewardsResponse struct {
	Range          string             `json:"range"`
	From           string             `json:"from"`
	To             string             `json:"to"`
	Timezone       string             `json:"timezone"`
	Rows           []ASPRewardSummary `json:"rows"`
	TotalEstimated string             `json:"total_estimated"`
}

// ASPRewardSummary ASP 別の報酬集計項目
// 見込み額は配信済みクリック数と経路の成果報酬額から算出する
type ASPRewardSummary struct {
	ASP             string `json:"asp"`
	ActiveRoutes    int    `json:"active_routes"`
	DeliveredClicks int64  `json:"delivered_clicks"`
	EstimatedReward string `json:"estimated_reward"`
}

type statsWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview クリック集計の総覧を取得する
func (s *StatsService) GetOverview(ctx context.Context, input StatsQueryInput) (*StatsOverviewResponse, error) {
	if s == nil || s.clickRepo == nil {
		return &StatsOverviewResponse{}, nil
	}

	window, err := resolveStatsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:overview:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached StatsOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.clickRepo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	activeExchanges := int64(0)
	if s.exchangeRepo != nil {
		if count, countErr := s.exchangeRepo.Count(); countErr == nil {
			activeExchanges = count
		}
	}

	deliveredRate := 0.0
	pendingRate := 0.0
	if overview.ClicksTotal > 0 {
		deliveredRate = float64(overview.Delivered) / float64(overview.ClicksTotal) * 100
		pendingRate = float64(overview.PendingRetry) / float64(overview.ClicksTotal) * 100
	}

	response := &StatsOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: StatsKPI{
			ClicksTotal:     overview.ClicksTotal,
			Delivered:       overview.Delivered,
			PendingRetry:    overview.PendingRetry,
			Abandoned:       overview.Abandoned,
			UniqueSessions:  overview.UniqueSessions,
			UniqueExchanges: overview.UniqueExchanges,
			ActiveExchanges: activeExchanges,
		},
		Delivery: DeliveryRate{
			DeliveredRate: formatPercentValue(deliveredRate),
			PendingRate:   formatPercentValue(pendingRate),
		},
	}

	_ = cache.SetJSON(ctx, cacheKey, response, statsCacheTTL)
	return response, nil
}

// GetTrends 日次のクリック推移を取得する
func (s *StatsService) GetTrends(ctx context.Context, input StatsQueryInput) (*StatsTrendResponse, error) {
	if s == nil || s.clickRepo == nil {
		return &StatsTrendResponse{}, nil
	}

	window, err := resolveStatsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:trends:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached StatsTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.clickRepo.GetDailyTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	rowMap := make(map[string]repository.ClickTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]StatsTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, StatsTrendPoint{
			Date:      day,
			Clicks:    item.Clicks,
			Delivered: item.Delivered,
		})
	}

	response := &StatsTrendResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, statsCacheTTL)
	return response, nil
}

// GetRankings 取引所別・設置位置別のランキングを取得する
func (s *StatsService) GetRankings(ctx context.Context, input StatsQueryInput) (*StatsRankingsResponse, error) {
	if s == nil || s.clickRepo == nil {
		return &StatsRankingsResponse{}, nil
	}

	window, err := resolveStatsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:rankings:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached StatsRankingsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	exchangeRows, err := s.clickRepo.GetTopExchanges(window.startAt, window.endAt, 0)
	if err != nil {
		return nil, err
	}
	positionRows, err := s.clickRepo.GetPositionBreakdown(window.startAt, window.endAt, 0)
	if err != nil {
		return nil, err
	}

	exchanges := make([]ExchangeClickRanking, 0, len(exchangeRows))
	for _, item := range exchangeRows {
		name := strings.TrimSpace(item.ExchangeName)
		if name == "" {
			name = "-"
		}
		exchanges = append(exchanges, ExchangeClickRanking{
			ExchangeSlug: item.ExchangeSlug,
			ExchangeName: name,
			ASP:          strings.TrimSpace(item.ASP),
			Clicks:       item.Clicks,
			Delivered:    item.Delivered,
		})
	}

	positions := make([]PositionClickRanking, 0, len(positionRows))
	for _, item := range positionRows {
		positions = append(positions, PositionClickRanking{
			Page:     item.Page,
			Position: item.Position,
			Clicks:   item.Clicks,
		})
	}

	response := &StatsRankingsResponse{
		Range:        window.rangeKey,
		From:         window.startAt.Format(time.RFC3339),
		To:           window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:     window.timezone,
		TopExchanges: exchanges,
		TopPositions: positions,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, statsCacheTTL)
	return response, nil
}

// GetRewardSummary ASP 別の配信済みクリック数と報酬見込み額を集計する
func (s *StatsService) GetRewardSummary(ctx context.Context, input StatsQueryInput) (*StatsRewardsResponse, error) {
	if s == nil || s.clickRepo == nil || s.routeRepo == nil {
		return &StatsRewardsResponse{}, nil
	}

	window, err := resolveStatsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:rewards:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached StatsRewardsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	exchangeRows, err := s.clickRepo.GetTopExchanges(window.startAt, window.endAt, 0)
	if err != nil {
		return nil, err
	}
	deliveredBySlug := make(map[string]int64, len(exchangeRows))
	for _, item := range exchangeRows {
		deliveredBySlug[item.ExchangeSlug] += item.Delivered
	}

	routes, err := s.routeRepo.ListActive()
	if err != nil {
		return nil, err
	}

	type rewardAccum struct {
		routes    int
		delivered int64
		estimated decimal.Decimal
	}
	byASP := make(map[string]*rewardAccum)
	total := decimal.Zero
	for _, route := range routes {
		asp := strings.TrimSpace(route.ASP)
		if asp == "" {
			continue
		}
		accum, ok := byASP[asp]
		if !ok {
			accum = &rewardAccum{}
			byASP[asp] = accum
		}
		accum.routes++
		delivered := deliveredBySlug[route.Exchange.Slug]
		if delivered == 0 {
			continue
		}
		estimated := route.RewardAmount.Decimal.Mul(decimal.NewFromInt(delivered))
		accum.delivered += delivered
		accum.estimated = accum.estimated.Add(estimated)
		total = total.Add(estimated)
	}

	rows := make([]ASPRewardSummary, 0, len(byASP))
	for asp, accum := range byASP {
		rows = append(rows, ASPRewardSummary{
			ASP:             asp,
			ActiveRoutes:    accum.routes,
			DeliveredClicks: accum.delivered,
			EstimatedReward: accum.estimated.StringFixed(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DeliveredClicks != rows[j].DeliveredClicks {
			return rows[i].DeliveredClicks > rows[j].DeliveredClicks
		}
		return rows[i].ASP < rows[j].ASP
	})

	response := &StatsRewardsResponse{
		Range:          window.rangeKey,
		From:           window.startAt.Format(time.RFC3339),
		To:             window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:       window.timezone,
		Rows:           rows,
		TotalEstimated: total.StringFixed(2),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, statsCacheTTL)
	return response, nil
}

func resolveStatsWindow(input StatsQueryInput, now time.Time) (statsWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := statsWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return statsWindow{}, ErrStatsRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return statsWindow{}, ErrStatsRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*statsCustomMaxDays {
			return statsWindow{}, ErrStatsRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return statsWindow{}, ErrStatsRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return statsWindow{}, ErrStatsRangeInvalid
	}
	return window, nil
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
