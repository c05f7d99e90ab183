package admin

import (
	"errors"
	"strconv"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

// parseStatsQuery 集計クエリ共通の解釈。不正値は応答済みで false を返す。
func parseStatsQuery(c *gin.Context) (service.StatsQueryInput, bool) {
	from, err := parseTimeNullable(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.stats_range_invalid", err)
		return service.StatsQueryInput{}, false
	}
	to, err := parseTimeNullable(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.stats_range_invalid", err)
		return service.StatsQueryInput{}, false
	}

	forceRefresh := false
	if raw := c.Query("refresh"); raw != "" {
		parsed, perr := strconv.ParseBool(raw)
		if perr != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", perr)
			return service.StatsQueryInput{}, false
		}
		forceRefresh = parsed
	}

	return service.StatsQueryInput{
		Range:        c.DefaultQuery("range", "7d"),
		From:         from,
		To:           to,
		Timezone:     c.Query("timezone"),
		ForceRefresh: forceRefresh,
	}, true
}

func respondStatsError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStatsRangeInvalid) {
		respondError(c, response.CodeBadRequest, "error.stats_range_invalid", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
}

// GetStatsOverview クリック実績の総覧を取得する
func (h *Handler) GetStatsOverview(c *gin.Context) {
	input, ok := parseStatsQuery(c)
	if !ok {
		return
	}

	overview, err := h.StatsService.GetOverview(c.Request.Context(), input)
	if err != nil {
		respondStatsError(c, err)
		return
	}

	response.Success(c, overview)
}

// GetStatsTrends 日次クリック推移を取得する
func (h *Handler) GetStatsTrends(c *gin.Context) {
	input, ok := parseStatsQuery(c)
	if !ok {
		return
	}

	trends, err := h.StatsService.GetTrends(c.Request.Context(), input)
	if err != nil {
		respondStatsError(c, err)
		return
	}

	response.Success(c, trends)
}

// GetStatsRankings 取引所別クリックランキングを取得する
func (h *Handler) GetStatsRankings(c *gin.Context) {
	input, ok := parseStatsQuery(c)
	if !ok {
		return
	}

	rankings, err := h.StatsService.GetRankings(c.Request.Context(), input)
	if err != nil {
		respondStatsError(c, err)
		return
	}

	response.Success(c, rankings)
}

// GetStatsRewards ASP 別の報酬見込み集計を取得する
func (h *Handler) GetStatsRewards(c *gin.Context) {
	input, ok := parseStatsQuery(c)
	if !ok {
		return
	}

	rewards, err := h.StatsService.GetRewardSummary(c.Request.Context(), input)
	if err != nil {
		respondStatsError(c, err)
		return
	}

	response.Success(c, rewards)
}
