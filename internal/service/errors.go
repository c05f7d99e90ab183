package service

import "errors"

// サービス層の共通エラー。ハンドラ側で応答コードへ対応付ける。
var (
	ErrNotFound           = errors.New("対象が見つかりません")
	ErrSlugExists         = errors.New("スラッグが既に使われています")
	ErrInvalidCredentials = errors.New("ユーザー名またはパスワードが正しくありません")
	ErrInvalidPassword    = errors.New("パスワードが正しくありません")
	ErrLoginRateLimited   = errors.New("ログイン試行が多すぎます。しばらく待ってから再試行してください")

	ErrInvalidExchange      = errors.New("取引所の入力内容が不正です")
	ErrInvalidGuide         = errors.New("ガイド記事の入力内容が不正です")
	ErrInvalidGuideCategory = errors.New("ガイド記事のカテゴリが不正です")
	ErrInvalidBanner        = errors.New("バナーの入力内容が不正です")
	ErrInvalidRoute         = errors.New("アフィリエイト経路の入力内容が不正です")
	ErrRouteInactive        = errors.New("この取引所のアフィリエイト経路は無効化されています")

	ErrCaptchaRequired      = errors.New("画像認証が必要です")
	ErrCaptchaInvalid       = errors.New("画像認証に失敗しました")
	ErrCaptchaConfigInvalid = errors.New("画像認証の設定が不正です")

	ErrPriceUpstream    = errors.New("仮想通貨データの取得に失敗しました")
	ErrPriceRateLimited = errors.New("価格 API のレート制限に達しました。しばらく待ってから再試行してください")

	ErrInvalidSimulation = errors.New("シミュレーション条件が不正です")
	ErrStatsRangeInvalid = errors.New("集計期間の指定が不正です")
)
