package i18n

// catalog ロケール別メッセージカタログ
// en 側に無いキーは ja へフォールバックする
var catalog = map[string]map[string]string{
	LocaleJA: {
		"error.bad_request":  "リクエストの内容が正しくありません",
		"error.unauthorized": "認証が必要です",
		"error.forbidden":    "この操作を行う権限がありません",
		"error.not_found":    "対象が見つかりません",
		"error.save_failed":  "保存に失敗しました",

		"error.login_too_many":         "ログイン試行が多すぎます。%d 秒後に再試行してください",
		"error.rate_limited":           "リクエストが多すぎます。%d 秒後に再試行してください",
		"error.rate_limit_unavailable": "リクエスト制限の確認に失敗しました",

		"error.jwt_secret_missing":   "認証設定が不足しています",
		"error.auth_header_missing":  "認証ヘッダがありません",
		"error.auth_header_invalid":  "認証ヘッダの形式が正しくありません",
		"error.token_invalid":        "認証トークンが無効です",
		"error.token_revoked":        "認証トークンは失効しています。再度ログインしてください",
		"error.admin_login_invalid":  "ユーザー名またはパスワードが正しくありません",
		"error.login_failed":         "ログイン処理に失敗しました",
		"error.password_old_invalid": "現在のパスワードが正しくありません",
		"error.password_weak":        "パスワードが強度要件を満たしていません",

		"error.admin_id_invalid":            "管理者 ID が不正です",
		"error.admin_id_type_invalid":       "管理者 ID の型が不正です",
		"error.admin_not_found":             "管理者が見つかりません",
		"error.admin_username_invalid":      "管理者ユーザー名が不正です",
		"error.admin_username_exists":       "このユーザー名は既に使われています",
		"error.admin_create_failed":         "管理者の作成に失敗しました",
		"error.admin_update_failed":         "管理者の更新に失敗しました",
		"error.admin_delete_failed":         "管理者の削除に失敗しました",
		"error.admin_delete_self_forbidden": "自分自身は削除できません",
		"error.admin_delete_protected":      "保護された管理者は削除できません",
		"error.admin_delete_last_forbidden": "最後の管理者は削除できません",

		"error.captcha_required":        "画像認証が必要です",
		"error.captcha_invalid":         "画像認証に失敗しました",
		"error.captcha_config_invalid":  "画像認証の設定が不正です",
		"error.captcha_verify_failed":   "画像認証の検証に失敗しました",
		"error.captcha_unavailable":     "画像認証は現在利用できません",
		"error.captcha_generate_failed": "画像認証の生成に失敗しました",

		"error.config_fetch_failed":   "設定の取得に失敗しました",
		"error.settings_fetch_failed": "設定の取得に失敗しました",
		"error.settings_save_failed":  "設定の保存に失敗しました",

		"error.slug_exists": "スラッグが既に使われています",
		"error.slug_used":   "このスラッグは他のレコードで使われています",

		"error.exchange_not_found":     "取引所が見つかりません",
		"error.exchange_invalid":       "取引所の入力内容が正しくありません",
		"error.exchange_fetch_failed":  "取引所情報の取得に失敗しました",
		"error.exchange_create_failed": "取引所の作成に失敗しました",
		"error.exchange_update_failed": "取引所の更新に失敗しました",
		"error.exchange_delete_failed": "取引所の削除に失敗しました",

		"error.guide_not_found":     "ガイド記事が見つかりません",
		"error.guide_invalid":       "ガイド記事の入力内容が正しくありません",
		"error.guide_fetch_failed":  "ガイド記事の取得に失敗しました",
		"error.guide_create_failed": "ガイド記事の作成に失敗しました",
		"error.guide_update_failed": "ガイド記事の更新に失敗しました",
		"error.guide_delete_failed": "ガイド記事の削除に失敗しました",

		"error.banner_not_found":     "バナーが見つかりません",
		"error.banner_invalid":       "バナーの入力内容が正しくありません",
		"error.banner_fetch_failed":  "バナーの取得に失敗しました",
		"error.banner_create_failed": "バナーの作成に失敗しました",
		"error.banner_update_failed": "バナーの更新に失敗しました",
		"error.banner_delete_failed": "バナーの削除に失敗しました",

		"error.route_not_found":     "アフィリエイト経路が見つかりません",
		"error.route_invalid":       "アフィリエイト経路の入力内容が正しくありません",
		"error.route_inactive":      "この取引所のアフィリエイト経路は無効化されています",
		"error.route_fetch_failed":  "アフィリエイト経路の取得に失敗しました",
		"error.route_create_failed": "アフィリエイト経路の作成に失敗しました",
		"error.route_update_failed": "アフィリエイト経路の更新に失敗しました",
		"error.route_delete_failed": "アフィリエイト経路の削除に失敗しました",

		"error.click_record_failed":   "クリックの記録に失敗しました",
		"error.click_fetch_failed":    "クリック記録の取得に失敗しました",
		"error.history_fetch_failed":  "閲覧履歴の取得に失敗しました",
		"error.history_clear_failed":  "閲覧履歴の削除に失敗しました",
		"error.impression_tag_failed": "計測タグの生成に失敗しました",

		"error.price_fetch_failed":  "仮想通貨データの取得に失敗しました",
		"error.price_rate_limited":  "価格 API のレート制限に達しました。しばらく待ってから再試行してください",
		"error.coin_not_found":      "指定された通貨が見つかりません",
		"error.stats_fetch_failed":  "集計データの取得に失敗しました",
		"error.stats_range_invalid": "集計期間の指定が正しくありません",

		"error.fee_calc_failed":    "手数料の計算に失敗しました",
		"error.simulation_invalid": "シミュレーション条件が正しくありません",
		"error.simulation_failed":  "シミュレーションの実行に失敗しました",
	},
	LocaleEN: {
		"error.bad_request":  "Invalid request",
		"error.unauthorized": "Authentication required",
		"error.forbidden":    "You do not have permission to perform this action",
		"error.not_found":    "Not found",
		"error.save_failed":  "Failed to save",

		"error.login_too_many":        "Too many login attempts. Retry in %d seconds",
		"error.rate_limited":          "Too many requests. Retry in %d seconds",
		"error.token_invalid":         "Invalid token",
		"error.token_revoked":         "Token has been revoked. Please sign in again",
		"error.admin_login_invalid":   "Invalid username or password",
		"error.captcha_required":      "Captcha is required",
		"error.captcha_invalid":       "Captcha verification failed",
		"error.exchange_not_found":    "Exchange not found",
		"error.guide_not_found":       "Guide not found",
		"error.route_inactive":        "Affiliate route for this exchange is disabled",
		"error.price_fetch_failed":    "Failed to fetch cryptocurrency data",
		"error.price_rate_limited":    "Price API rate limit reached. Please retry later",
		"error.simulation_invalid":    "Invalid simulation parameters",
		"error.stats_range_invalid":   "Invalid reporting period",
		"error.settings_save_failed":  "Failed to save settings",
		"error.settings_fetch_failed": "Failed to fetch settings",
	},
}
