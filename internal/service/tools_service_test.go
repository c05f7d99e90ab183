package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupToolsServiceTest(t *testing.T) *ToolsService {
	t.Helper()

	dsn := fmt.Sprintf("file:tools_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Exchange{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	exchange := &models.Exchange{
		Slug:           "coincheck",
		Name:           "コインチェック",
		Type:           constants.ExchangeTypeDomestic,
		Status:         constants.ExchangeStatusActive,
		MakerFeePct:    decimal.RequireFromString("0.15"),
		TakerFeePct:    decimal.RequireFromString("0.12"),
		SpreadPct:      decimal.RequireFromString("3"),
		LeverageFeePct: decimal.RequireFromString("0.04"),
	}
	if err := db.Create(exchange).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	return NewToolsService(repository.NewExchangeRepository(db))
}

func TestCalculateFeesBreakdown(t *testing.T) {
	svc := setupToolsServiceTest(t)

	result, err := svc.CalculateFees(FeeInput{
		ExchangeSlug: "coincheck",
		TradeAmount:  decimal.NewFromInt(100000),
		LeverageDays: 2,
	})
	if err != nil {
		t.Fatalf("CalculateFees error: %v", err)
	}

	if result.MakerFee != "150.00" {
		t.Fatalf("expected maker fee 150.00, got %s", result.MakerFee)
	}
	if result.TakerFee != "120.00" {
		t.Fatalf("expected taker fee 120.00, got %s", result.TakerFee)
	}
	if result.SpreadCost != "3000.00" {
		t.Fatalf("expected spread cost 3000.00, got %s", result.SpreadCost)
	}
	if result.LeverageFee != "80.00" {
		t.Fatalf("expected leverage fee 80.00, got %s", result.LeverageFee)
	}
	if result.TotalTaker != "3200.00" {
		t.Fatalf("expected total 3200.00, got %s", result.TotalTaker)
	}
}

func TestCalculateFeesRejectsInvalidInput(t *testing.T) {
	svc := setupToolsServiceTest(t)

	if _, err := svc.CalculateFees(FeeInput{ExchangeSlug: "coincheck", TradeAmount: decimal.Zero}); !errors.Is(err, ErrInvalidSimulation) {
		t.Fatalf("expected ErrInvalidSimulation for zero amount, got %v", err)
	}
	if _, err := svc.CalculateFees(FeeInput{ExchangeSlug: "", TradeAmount: decimal.NewFromInt(1000)}); !errors.Is(err, ErrInvalidExchange) {
		t.Fatalf("expected ErrInvalidExchange for empty slug, got %v", err)
	}
	if _, err := svc.CalculateFees(FeeInput{ExchangeSlug: "unknown", TradeAmount: decimal.NewFromInt(1000)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown slug, got %v", err)
	}
}

func TestSimulateCompoundsMonthly(t *testing.T) {
	svc := NewToolsService(nil)

	result, err := svc.Simulate(SimulationInput{
		MonthlyDeposit:   decimal.NewFromInt(10000),
		MonthlyReturnPct: decimal.NewFromInt(1),
		Months:           2,
	})
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	if len(result.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown points, got %d", len(result.Breakdown))
	}
	if result.Breakdown[0].Balance != "10100.00" {
		t.Fatalf("expected first month balance 10100.00, got %s", result.Breakdown[0].Balance)
	}
	if result.FinalBalance != "20301.00" {
		t.Fatalf("expected final balance 20301.00, got %s", result.FinalBalance)
	}
	if result.TotalDeposit != "20000.00" {
		t.Fatalf("expected total deposit 20000.00, got %s", result.TotalDeposit)
	}
	if result.TotalProfit != "301.00" {
		t.Fatalf("expected total profit 301.00, got %s", result.TotalProfit)
	}
}

func TestSimulateCapsMonths(t *testing.T) {
	svc := NewToolsService(nil)

	result, err := svc.Simulate(SimulationInput{
		InitialAmount:  decimal.NewFromInt(100000),
		MonthlyDeposit: decimal.NewFromInt(1000),
		Months:         1000,
	})
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}
	if result.Months != constants.SimulatorMaxMonths {
		t.Fatalf("expected months capped at %d, got %d", constants.SimulatorMaxMonths, result.Months)
	}
	if len(result.Breakdown) != constants.SimulatorMaxMonths {
		t.Fatalf("expected %d breakdown points, got %d", constants.SimulatorMaxMonths, len(result.Breakdown))
	}
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	svc := NewToolsService(nil)

	if _, err := svc.Simulate(SimulationInput{Months: 0}); !errors.Is(err, ErrInvalidSimulation) {
		t.Fatalf("expected ErrInvalidSimulation for zero months, got %v", err)
	}
	if _, err := svc.Simulate(SimulationInput{Months: 12}); !errors.Is(err, ErrInvalidSimulation) {
		t.Fatalf("expected ErrInvalidSimulation for zero deposits, got %v", err)
	}
	if _, err := svc.Simulate(SimulationInput{
		InitialAmount:    decimal.NewFromInt(1000),
		MonthlyReturnPct: decimal.NewFromInt(-200),
		Months:           12,
	}); !errors.Is(err, ErrInvalidSimulation) {
		t.Fatalf("expected ErrInvalidSimulation for impossible return, got %v", err)
	}
}
