package service

import (
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"
)

// GuideService ガイド記事ビジネスサービス
type GuideService struct {
	repo repository.GuideRepository
}

// NewGuideService ガイド記事サービスを生成
func NewGuideService(repo repository.GuideRepository) *GuideService {
	return &GuideService{repo: repo}
}

// GuideInput ガイド記事の作成・更新入力
type GuideInput struct {
	Slug        string
	Category    string
	Title       string
	Summary     string
	Content     string
	Thumbnail   string
	ReadMinutes int
	IsPublished *bool
}

var allowedGuideCategories = map[string]struct{}{
	constants.GuideCategoryBasics:   {},
	constants.GuideCategoryExchange: {},
	constants.GuideCategoryTax:      {},
	constants.GuideCategorySecurity: {},
}

// ListPublic 公開中のガイド記事一覧を取得
func (s *GuideService) ListPublic(category string, page, pageSize int) ([]models.Guide, int64, error) {
	filter := repository.GuideListFilter{
		Page:          page,
		PageSize:      pageSize,
		Category:      strings.TrimSpace(category),
		OnlyPublished: true,
		OrderBy:       "published_at DESC, created_at DESC",
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 公開中のガイド記事詳細を取得
func (s *GuideService) GetPublicBySlug(slug string) (*models.Guide, error) {
	guide, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if guide == nil || !guide.IsPublished {
		return nil, ErrNotFound
	}
	return guide, nil
}

// ListAdmin 管理画面向けガイド記事一覧を取得
func (s *GuideService) ListAdmin(category, search string, page, pageSize int) ([]models.Guide, int64, error) {
	filter := repository.GuideListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
		OrderBy:  "created_at DESC",
	}
	return s.repo.List(filter)
}

// GetByID ID でガイド記事を取得
func (s *GuideService) GetByID(id uint) (*models.Guide, error) {
	guide, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, ErrNotFound
	}
	return guide, nil
}

// Create ガイド記事を作成
func (s *GuideService) Create(input GuideInput) (*models.Guide, error) {
	slug := strings.TrimSpace(input.Slug)
	title := strings.TrimSpace(input.Title)
	if slug == "" || title == "" {
		return nil, ErrInvalidGuide
	}
	if !isAllowedGuideCategory(input.Category) {
		return nil, ErrInvalidGuideCategory
	}

	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	isPublished := false
	if input.IsPublished != nil {
		isPublished = *input.IsPublished
	}

	guide := models.Guide{
		Slug:        slug,
		Category:    input.Category,
		Title:       title,
		Summary:     strings.TrimSpace(input.Summary),
		Content:     input.Content,
		Thumbnail:   strings.TrimSpace(input.Thumbnail),
		ReadMinutes: input.ReadMinutes,
		IsPublished: isPublished,
	}
	if isPublished {
		now := time.Now()
		guide.PublishedAt = &now
	}

	if err := s.repo.Create(&guide); err != nil {
		return nil, err
	}
	return &guide, nil
}

// Update ガイド記事を更新
func (s *GuideService) Update(id uint, input GuideInput) (*models.Guide, error) {
	slug := strings.TrimSpace(input.Slug)
	title := strings.TrimSpace(input.Title)
	if slug == "" || title == "" {
		return nil, ErrInvalidGuide
	}
	if !isAllowedGuideCategory(input.Category) {
		return nil, ErrInvalidGuideCategory
	}

	guide, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	guide.Slug = slug
	guide.Category = input.Category
	guide.Title = title
	guide.Summary = strings.TrimSpace(input.Summary)
	guide.Content = input.Content
	guide.Thumbnail = strings.TrimSpace(input.Thumbnail)
	guide.ReadMinutes = input.ReadMinutes
	if input.IsPublished != nil {
		// 初公開時のみ公開時刻を打つ
		if *input.IsPublished && !guide.IsPublished {
			now := time.Now()
			guide.PublishedAt = &now
		}
		guide.IsPublished = *input.IsPublished
	}

	if err := s.repo.Update(guide); err != nil {
		return nil, err
	}
	return guide, nil
}

// Delete ガイド記事を削除
func (s *GuideService) Delete(id uint) error {
	guide, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if guide == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func isAllowedGuideCategory(category string) bool {
	_, ok := allowedGuideCategories[category]
	return ok
}
