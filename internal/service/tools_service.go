package service

import (
	"strings"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/shopspring/decimal"
)

// ToolsService 手数料計算と積立シミュレーションのサービス
// 金額計算はすべて decimal で行い、円表示は小数点以下を丸める
type ToolsService struct {
	exchangeRepo repository.ExchangeRepository
}

// NewToolsService ツールサービスを生成する
func NewToolsService(exchangeRepo repository.ExchangeRepository) *ToolsService {
	return &ToolsService{exchangeRepo: exchangeRepo}
}

// FeeInput 手数料計算の入力
type FeeInput struct {
	ExchangeSlug string          `json:"exchange_slug"`
	TradeAmount  decimal.Decimal `json:"trade_amount"`
	LeverageDays int             `json:"leverage_days"`
}

// FeeBreakdown 手数料計算の結果
type FeeBreakdown struct {
	ExchangeSlug string `json:"exchange_slug"`
	ExchangeName string `json:"exchange_name"`
	TradeAmount  string `json:"trade_amount"`
	MakerFee     string `json:"maker_fee"`
	TakerFee     string `json:"taker_fee"`
	SpreadCost   string `json:"spread_cost"`
	LeverageFee  string `json:"leverage_fee"`
	TotalTaker   string `json:"total_taker"`
}

// SimulationInput 積立シミュレーションの入力
type SimulationInput struct {
	InitialAmount    decimal.Decimal `json:"initial_amount"`
	MonthlyDeposit   decimal.Decimal `json:"monthly_deposit"`
	MonthlyReturnPct decimal.Decimal `json:"monthly_return_pct"`
	Months           int             `json:"months"`
}

// SimulationPoint 月ごとの内訳
type SimulationPoint struct {
	Month     int    `json:"month"`
	Deposited string `json:"deposited"`
	Balance   string `json:"balance"`
	Profit    string `json:"profit"`
}

// SimulationResult 積立シミュレーションの結果
type SimulationResult struct {
	Months       int               `json:"months"`
	TotalDeposit string            `json:"total_deposit"`
	FinalBalance string            `json:"final_balance"`
	TotalProfit  string            `json:"total_profit"`
	Breakdown    []SimulationPoint `json:"breakdown"`
}

var percentBase = decimal.NewFromInt(100)

// CalculateFees 指定取引所の手数料内訳を計算する
func (s *ToolsService) CalculateFees(input FeeInput) (*FeeBreakdown, error) {
	slug := strings.ToLower(strings.TrimSpace(input.ExchangeSlug))
	if slug == "" {
		return nil, ErrInvalidExchange
	}
	if input.TradeAmount.IsNegative() || input.TradeAmount.IsZero() {
		return nil, ErrInvalidSimulation
	}
	if input.LeverageDays < 0 {
		return nil, ErrInvalidSimulation
	}

	exchange, err := s.exchangeRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exchange == nil || exchange.Status != constants.ExchangeStatusActive {
		return nil, ErrNotFound
	}

	makerFee := feeOf(input.TradeAmount, exchange.MakerFeePct)
	takerFee := feeOf(input.TradeAmount, exchange.TakerFeePct)
	spreadCost := feeOf(input.TradeAmount, exchange.SpreadPct)
	leverageFee := feeOf(input.TradeAmount, exchange.LeverageFeePct).Mul(decimal.NewFromInt(int64(input.LeverageDays)))

	return &FeeBreakdown{
		ExchangeSlug: exchange.Slug,
		ExchangeName: exchange.Name,
		TradeAmount:  formatYen(input.TradeAmount),
		MakerFee:     formatYen(makerFee),
		TakerFee:     formatYen(takerFee),
		SpreadCost:   formatYen(spreadCost),
		LeverageFee:  formatYen(leverageFee),
		TotalTaker:   formatYen(takerFee.Add(spreadCost).Add(leverageFee)),
	}, nil
}

// Simulate 月次複利の積立シミュレーションを実行する
// 月数は SimulatorMaxMonths で打ち切る
func (s *ToolsService) Simulate(input SimulationInput) (*SimulationResult, error) {
	if input.Months <= 0 {
		return nil, ErrInvalidSimulation
	}
	if input.Months > constants.SimulatorMaxMonths {
		input.Months = constants.SimulatorMaxMonths
	}
	if input.InitialAmount.IsNegative() || input.MonthlyDeposit.IsNegative() {
		return nil, ErrInvalidSimulation
	}
	if input.InitialAmount.IsZero() && input.MonthlyDeposit.IsZero() {
		return nil, ErrInvalidSimulation
	}
	// 月利 -100% 未満は意味を持たない
	if input.MonthlyReturnPct.LessThan(percentBase.Neg()) {
		return nil, ErrInvalidSimulation
	}

	monthlyRate := input.MonthlyReturnPct.Div(percentBase)
	balance := input.InitialAmount
	deposited := input.InitialAmount

	breakdown := make([]SimulationPoint, 0, input.Months)
	for month := 1; month <= input.Months; month++ {
		balance = balance.Add(input.MonthlyDeposit)
		deposited = deposited.Add(input.MonthlyDeposit)
		balance = balance.Add(balance.Mul(monthlyRate))
		breakdown = append(breakdown, SimulationPoint{
			Month:     month,
			Deposited: formatYen(deposited),
			Balance:   formatYen(balance),
			Profit:    formatYen(balance.Sub(deposited)),
		})
	}

	return &SimulationResult{
		Months:       input.Months,
		TotalDeposit: formatYen(deposited),
		FinalBalance: formatYen(balance),
		TotalProfit:  formatYen(balance.Sub(deposited)),
		Breakdown:    breakdown,
	}, nil
}

// feeOf 金額 × パーセント率の手数料額
func feeOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(percentBase)
}

// formatYen 円単位の表示用文字列（小数第 2 位まで）
func formatYen(value decimal.Decimal) string {
	return value.Round(2).StringFixed(2)
}
