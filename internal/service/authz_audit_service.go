package service

import (
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"
)

// AuthzAuditRecordInput 権限監査ログの記録入力
type AuthzAuditRecordInput struct {
	OperatorAdminID  uint
	OperatorUsername string
	TargetAdminID    *uint
	TargetUsername   string
	Action           string
	Role             string
	Object           string
	Method           string
	RequestID        string
	Detail           models.JSON
}

// AuthzAuditService 権限監査サービス
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAuthzAuditService 権限監査サービスを生成する
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 権限監査ログを記録する
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorAdminID == 0 {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AuthzAuditLog{
		OperatorAdminID:  input.OperatorAdminID,
		OperatorUsername: strings.TrimSpace(input.OperatorUsername),
		TargetAdminID:    input.TargetAdminID,
		TargetUsername:   strings.TrimSpace(input.TargetUsername),
		Action:           strings.TrimSpace(input.Action),
		Role:             strings.TrimSpace(input.Role),
		Object:           strings.TrimSpace(input.Object),
		Method:           strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:        strings.TrimSpace(input.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	}
	return s.repo.Create(item)
}

// ListForAdmin 管理画面向けに権限監査ログを検索する
func (s *AuthzAuditService) ListForAdmin(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	return s.repo.ListAdmin(filter)
}
