package service

import (
	"strings"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/shopspring/decimal"
)

// ExchangeService 取引所ビジネスサービス
type ExchangeService struct {
	repo repository.ExchangeRepository
}

// NewExchangeService 取引所サービスを生成
func NewExchangeService(repo repository.ExchangeRepository) *ExchangeService {
	return &ExchangeService{repo: repo}
}

// ExchangeInput 取引所の作成・更新入力
type ExchangeInput struct {
	Slug           string
	Name           string
	NameEn         string
	Type           string
	Status         string
	Rating         decimal.Decimal
	SupportedCoins int
	LogoURL        string
	WebsiteURL     string
	Description    string
	MakerFeePct    decimal.Decimal
	TakerFeePct    decimal.Decimal
	SpreadPct      decimal.Decimal
	LeverageFeePct decimal.Decimal
	Fees           map[string]interface{}
	Features       map[string]interface{}
	Security       map[string]interface{}
	Campaign       map[string]interface{}
	Pros           []string
	Cons           []string
	SortOrder      int
}

var allowedExchangeTypes = map[string]struct{}{
	constants.ExchangeTypeDomestic:      {},
	constants.ExchangeTypeInternational: {},
}

var allowedExchangeStatuses = map[string]struct{}{
	constants.ExchangeStatusActive: {},
	constants.ExchangeStatusHidden: {},
}

const compareMaxExchanges = 4

// ListPublic 公開中の取引所一覧を取得
func (s *ExchangeService) ListPublic(exchangeType string, page, pageSize int) ([]models.Exchange, int64, error) {
	filter := repository.ExchangeListFilter{
		Page:       page,
		PageSize:   pageSize,
		Type:       strings.TrimSpace(exchangeType),
		OnlyActive: true,
		OrderBy:    "sort_order ASC, rating DESC, id ASC",
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 公開中の取引所詳細を取得
func (s *ExchangeService) GetPublicBySlug(slug string) (*models.Exchange, error) {
	exchange, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exchange == nil || exchange.Status != constants.ExchangeStatusActive {
		return nil, ErrNotFound
	}
	return exchange, nil
}

// Compare 比較用に複数取引所を取得。公開中のものだけ返す。
func (s *ExchangeService) Compare(slugs []string) ([]models.Exchange, error) {
	if len(slugs) < 2 || len(slugs) > compareMaxExchanges {
		return nil, ErrInvalidExchange
	}
	exchanges, err := s.repo.ListBySlugs(slugs)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Exchange, 0, len(exchanges))
	for _, exchange := range exchanges {
		if exchange.Status == constants.ExchangeStatusActive {
			visible = append(visible, exchange)
		}
	}
	if len(visible) == 0 {
		return nil, ErrNotFound
	}
	return visible, nil
}

// ListAdmin 管理画面向け取引所一覧を取得
func (s *ExchangeService) ListAdmin(exchangeType, status, search string, page, pageSize int) ([]models.Exchange, int64, error) {
	filter := repository.ExchangeListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(exchangeType),
		Status:   strings.TrimSpace(status),
		Search:   strings.TrimSpace(search),
		OrderBy:  "sort_order ASC, id ASC",
	}
	return s.repo.List(filter)
}

// GetByID ID で取引所を取得
func (s *ExchangeService) GetByID(id uint) (*models.Exchange, error) {
	exchange, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, ErrNotFound
	}
	return exchange, nil
}

// Create 取引所を作成
func (s *ExchangeService) Create(input ExchangeInput) (*models.Exchange, error) {
	entity, err := buildExchangeEntity(input, nil)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountBySlug(entity.Slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	if err := s.repo.Create(entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Update 取引所を更新
func (s *ExchangeService) Update(id uint, input ExchangeInput) (*models.Exchange, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	entity, err := buildExchangeEntity(input, existing)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountBySlug(entity.Slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	if err := s.repo.Update(entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Delete 取引所を削除
func (s *ExchangeService) Delete(id uint) error {
	exchange, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if exchange == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func buildExchangeEntity(input ExchangeInput, existing *models.Exchange) (*models.Exchange, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrInvalidExchange
	}
	if _, ok := allowedExchangeTypes[input.Type]; !ok {
		return nil, ErrInvalidExchange
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.ExchangeStatusActive
	}
	if _, ok := allowedExchangeStatuses[status]; !ok {
		return nil, ErrInvalidExchange
	}
	if input.Rating.LessThan(decimal.Zero) || input.Rating.GreaterThan(decimal.NewFromInt(5)) {
		return nil, ErrInvalidExchange
	}
	for _, fee := range []decimal.Decimal{input.MakerFeePct, input.TakerFeePct, input.SpreadPct, input.LeverageFeePct} {
		if fee.LessThan(decimal.NewFromInt(-1)) || fee.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrInvalidExchange
		}
	}

	entity := existing
	if entity == nil {
		entity = &models.Exchange{}
	}
	entity.Slug = slug
	entity.Name = name
	entity.NameEn = strings.TrimSpace(input.NameEn)
	entity.Type = input.Type
	entity.Status = status
	entity.Rating = input.Rating
	entity.SupportedCoins = input.SupportedCoins
	entity.LogoURL = strings.TrimSpace(input.LogoURL)
	entity.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
	entity.Description = strings.TrimSpace(input.Description)
	entity.MakerFeePct = input.MakerFeePct
	entity.TakerFeePct = input.TakerFeePct
	entity.SpreadPct = input.SpreadPct
	entity.LeverageFeePct = input.LeverageFeePct
	entity.FeesJSON = models.JSON(input.Fees)
	entity.FeaturesJSON = models.JSON(input.Features)
	entity.SecurityJSON = models.JSON(input.Security)
	entity.CampaignJSON = models.JSON(input.Campaign)
	entity.Pros = models.StringArray(input.Pros)
	entity.Cons = models.StringArray(input.Cons)
	entity.SortOrder = input.SortOrder
	return entity, nil
}
