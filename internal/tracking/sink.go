package tracking

import (
	"context"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/logger"
)

// AnalyticsSink 計測イベントの送信先。
// 送信は失敗してもクリック処理を妨げてはならないため、エラーを返さない。
// nil の場合は配信をスキップする。
type AnalyticsSink interface {
	Emit(ctx context.Context, event string, params map[string]interface{})
}

// ClickEventParams affiliate_click イベントの属性
type ClickEventParams struct {
	ExchangeSlug string
	ExchangeName string
	Placement    string
	PagePath     string
	CampaignID   string
	Position     int
	Variant      string
}

// EmitClick affiliate_click イベントを送信する（sink が nil ならスキップ）
func EmitClick(ctx context.Context, sink AnalyticsSink, params ClickEventParams) {
	if sink == nil {
		return
	}
	sink.Emit(ctx, constants.AnalyticsEventAffiliateClick, map[string]interface{}{
		"exchange_id":     params.ExchangeSlug,
		"exchange_name":   params.ExchangeName,
		"link_placement":  params.Placement,
		"page_path":       params.PagePath,
		"campaign_id":     params.CampaignID,
		"link_position":   params.Position,
		"variant":         params.Variant,
		"click_timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// EmitImpression affiliate_impression イベントを送信する
func EmitImpression(ctx context.Context, sink AnalyticsSink, exchangeSlug, exchangeName, placement, pagePath string, position int) {
	if sink == nil {
		return
	}
	sink.Emit(ctx, constants.AnalyticsEventAffiliateImpression, map[string]interface{}{
		"exchange_id":    exchangeSlug,
		"exchange_name":  exchangeName,
		"link_placement": placement,
		"link_position":  position,
		"page_path":      pagePath,
	})
}

// EmitOutbound outbound_click イベントを送信する
func EmitOutbound(ctx context.Context, sink AnalyticsSink, linkURL, label, pagePath string) {
	if sink == nil {
		return
	}
	sink.Emit(ctx, constants.AnalyticsEventOutboundClick, map[string]interface{}{
		"link_url":   linkURL,
		"link_label": label,
		"page_path":  pagePath,
	})
}

// LogSink 構造化ログへ計測イベントを書き出す既定のシンク
type LogSink struct{}

// Emit イベントをログ出力する
func (LogSink) Emit(ctx context.Context, event string, params map[string]interface{}) {
	kv := make([]interface{}, 0, len(params)*2+2)
	kv = append(kv, "event", event)
	for key, value := range params {
		kv = append(kv, key, value)
	}
	logger.Infow("analytics_event", kv...)
}
