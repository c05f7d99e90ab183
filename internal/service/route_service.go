package service

import (
	"strings"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/shopspring/decimal"
)

var allowedASPs = map[string]struct{}{
	constants.ASPA8:          {},
	constants.ASPAccessTrade: {},
	constants.ASPTCS:         {},
	constants.ASPDirect:      {},
}

// RouteInput アフィリエイト経路の入力
type RouteInput struct {
	ExchangeID     uint            `json:"exchange_id"`
	ASP            string          `json:"asp"`
	ProgramID      string          `json:"program_id"`
	MediaID        string          `json:"media_id"`
	BaseURL        string          `json:"base_url"`
	ConversionType string          `json:"conversion_type"`
	RewardAmount   decimal.Decimal `json:"reward_amount"`
	IsActive       *bool           `json:"is_active"`
	Note           string          `json:"note"`
}

// RouteService アフィリエイト経路の管理サービス
type RouteService struct {
	routeRepo    repository.AffiliateRouteRepository
	exchangeRepo repository.ExchangeRepository
}

// NewRouteService アフィリエイト経路サービスを生成する
func NewRouteService(routeRepo repository.AffiliateRouteRepository, exchangeRepo repository.ExchangeRepository) *RouteService {
	return &RouteService{routeRepo: routeRepo, exchangeRepo: exchangeRepo}
}

// List アフィリエイト経路一覧を取得する
func (s *RouteService) List(filter repository.AffiliateRouteListFilter) ([]models.AffiliateRoute, int64, error) {
	return s.routeRepo.List(filter)
}

// GetByID ID でアフィリエイト経路を取得する
func (s *RouteService) GetByID(id uint) (*models.AffiliateRoute, error) {
	route, err := s.routeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrNotFound
	}
	return route, nil
}

// Create アフィリエイト経路を作成する
// 1 取引所につき有効な経路は 1 本のみ
func (s *RouteService) Create(input RouteInput) (*models.AffiliateRoute, error) {
	route, err := s.buildRouteEntity(input, nil)
	if err != nil {
		return nil, err
	}
	if route.IsActive {
		existing, existErr := s.routeRepo.GetActiveByExchangeID(route.ExchangeID)
		if existErr != nil {
			return nil, existErr
		}
		if existing != nil {
			return nil, ErrInvalidRoute
		}
	}
	if err := s.routeRepo.Create(route); err != nil {
		return nil, err
	}
	return route, nil
}

// Update アフィリエイト経路を更新する
func (s *RouteService) Update(id uint, input RouteInput) (*models.AffiliateRoute, error) {
	existing, err := s.routeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	route, err := s.buildRouteEntity(input, existing)
	if err != nil {
		return nil, err
	}
	if route.IsActive {
		active, activeErr := s.routeRepo.GetActiveByExchangeID(route.ExchangeID)
		if activeErr != nil {
			return nil, activeErr
		}
		if active != nil && active.ID != route.ID {
			return nil, ErrInvalidRoute
		}
	}
	if err := s.routeRepo.Update(route); err != nil {
		return nil, err
	}
	return route, nil
}

// Delete アフィリエイト経路を削除する
func (s *RouteService) Delete(id uint) error {
	existing, err := s.routeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.routeRepo.Delete(id)
}

func (s *RouteService) buildRouteEntity(input RouteInput, existing *models.AffiliateRoute) (*models.AffiliateRoute, error) {
	asp := strings.ToLower(strings.TrimSpace(input.ASP))
	if _, ok := allowedASPs[asp]; !ok {
		return nil, ErrInvalidRoute
	}
	baseURL := strings.TrimSpace(input.BaseURL)
	if baseURL == "" {
		return nil, ErrInvalidRoute
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, ErrInvalidRoute
	}
	if input.RewardAmount.IsNegative() {
		return nil, ErrInvalidRoute
	}
	if input.ExchangeID == 0 {
		return nil, ErrInvalidRoute
	}

	exchange, err := s.exchangeRepo.GetByID(input.ExchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, ErrInvalidExchange
	}

	route := existing
	if route == nil {
		route = &models.AffiliateRoute{IsActive: true}
	}
	route.ExchangeID = input.ExchangeID
	route.ASP = asp
	route.ProgramID = strings.TrimSpace(input.ProgramID)
	route.MediaID = strings.TrimSpace(input.MediaID)
	route.BaseURL = baseURL
	route.ConversionType = strings.TrimSpace(input.ConversionType)
	route.RewardAmount = models.NewMoneyFromDecimal(input.RewardAmount)
	route.Note = strings.TrimSpace(input.Note)
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}
	return route, nil
}
