package service

import (
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"
)

// BannerService バナービジネスサービス
type BannerService struct {
	repo repository.BannerRepository
}

// NewBannerService バナーサービスを生成
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// BannerInput バナーの作成・更新入力
type BannerInput struct {
	Name         string
	Position     string
	Title        string
	Subtitle     string
	Image        string
	MobileImage  string
	LinkType     string
	LinkValue    string
	OpenInNewTab *bool
	IsActive     *bool
	StartAt      *time.Time
	EndAt        *time.Time
	SortOrder    int
}

// ListAdmin 管理画面向けバナー一覧を取得
func (s *BannerService) ListAdmin(position, search string, isActive *bool, page, pageSize int) ([]models.Banner, int64, error) {
	filter := repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		Position: strings.TrimSpace(position),
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
		OrderBy:  "sort_order DESC, created_at DESC",
	}
	return s.repo.List(filter)
}

// ListPublic 公開向けの有効バナー一覧を取得
func (s *BannerService) ListPublic(position string, limit int) ([]models.Banner, error) {
	normalized := normalizeBannerPosition(position)
	return s.repo.ListValidByPosition(normalized, limit, time.Now())
}

// GetByID ID でバナーを取得
func (s *BannerService) GetByID(id uint) (*models.Banner, error) {
	banner, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrNotFound
	}
	return banner, nil
}

// Create バナーを作成
func (s *BannerService) Create(input BannerInput) (*models.Banner, error) {
	banner, err := buildBannerEntity(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update バナーを更新
func (s *BannerService) Update(id uint, input BannerInput) (*models.Banner, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	banner, err := buildBannerEntity(input, existing)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete バナーを削除
func (s *BannerService) Delete(id uint) error {
	banner, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if banner == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func buildBannerEntity(input BannerInput, existing *models.Banner) (*models.Banner, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidBanner
	}
	image := strings.TrimSpace(input.Image)
	if image == "" {
		return nil, ErrInvalidBanner
	}

	position := normalizeBannerPosition(input.Position)
	linkType := normalizeBannerLinkType(input.LinkType)
	if linkType == "" {
		return nil, ErrInvalidBanner
	}

	startAt := input.StartAt
	endAt := input.EndAt
	if startAt != nil && endAt != nil && endAt.Before(*startAt) {
		return nil, ErrInvalidBanner
	}

	linkValue := strings.TrimSpace(input.LinkValue)
	if linkType == constants.BannerLinkTypeNone {
		linkValue = ""
	}
	if linkType != constants.BannerLinkTypeNone && linkValue == "" {
		return nil, ErrInvalidBanner
	}
	// affiliate リンクは取引所スラッグを保持する
	if linkType == constants.BannerLinkTypeAffiliate {
		linkValue = strings.ToLower(linkValue)
	}

	entity := existing
	if entity == nil {
		entity = &models.Banner{IsActive: true}
	}
	entity.Name = name
	entity.Position = position
	entity.Title = strings.TrimSpace(input.Title)
	entity.Subtitle = strings.TrimSpace(input.Subtitle)
	entity.Image = image
	entity.MobileImage = strings.TrimSpace(input.MobileImage)
	entity.LinkType = linkType
	entity.LinkValue = linkValue
	entity.StartAt = startAt
	entity.EndAt = endAt
	entity.SortOrder = input.SortOrder
	if input.OpenInNewTab != nil {
		entity.OpenInNewTab = *input.OpenInNewTab
	}
	if input.IsActive != nil {
		entity.IsActive = *input.IsActive
	}
	return entity, nil
}

func normalizeBannerPosition(raw string) string {
	switch strings.TrimSpace(raw) {
	case constants.BannerPositionRankingSide:
		return constants.BannerPositionRankingSide
	case constants.BannerPositionArticleFoot:
		return constants.BannerPositionArticleFoot
	default:
		return constants.BannerPositionHomeHero
	}
}

func normalizeBannerLinkType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", constants.BannerLinkTypeNone:
		return constants.BannerLinkTypeNone
	case constants.BannerLinkTypeInternal:
		return constants.BannerLinkTypeInternal
	case constants.BannerLinkTypeAffiliate:
		return constants.BannerLinkTypeAffiliate
	default:
		return ""
	}
}
