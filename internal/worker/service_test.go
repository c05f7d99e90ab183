package worker

import (
	"fmt"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/provider"
	"github.com/crypto-navi/api/internal/repository"
	"github.com/crypto-navi/api/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newFlushTestSettingService(t *testing.T) *service.SettingService {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_flush_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return service.NewSettingService(repository.NewSettingRepository(db))
}

func TestFlushIntervalPrefersSettingOverConfig(t *testing.T) {
	settingSvc := newFlushTestSettingService(t)
	if _, err := settingSvc.Update(constants.SettingKeyTrackingConfig, map[string]interface{}{
		"flush_interval_seconds": 90,
	}); err != nil {
		t.Fatalf("update setting failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Tracking.FlushIntervalSec = 45
	svc := &Service{consumer: NewConsumer(&provider.Container{Config: cfg, SettingService: settingSvc})}

	if got := svc.flushInterval(); got != 90*time.Second {
		t.Fatalf("flush interval want 90s got %v", got)
	}
}

func TestFlushIntervalFallsBackToConfigAndDefault(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tracking.FlushIntervalSec = 45
	svc := &Service{consumer: NewConsumer(&provider.Container{Config: cfg, SettingService: newFlushTestSettingService(t)})}
	if got := svc.flushInterval(); got != 45*time.Second {
		t.Fatalf("flush interval want 45s got %v", got)
	}

	svc = &Service{consumer: NewConsumer(&provider.Container{})}
	if got := svc.flushInterval(); got != defaultFlushInterval {
		t.Fatalf("flush interval want default got %v", got)
	}
}
