// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "StudyTracker"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultDatabaseDriver = "postgres"
	DefaultLogLevel       = "info"
	DefaultTimezone       = "Asia/Kolkata"
	DefaultTargetDate     = "2025-12-31"
	DefaultMaxTxRetries   = 3
	DefaultAccessTokenTTL = 24 * time.Hour
	DefaultStreakCacheTTL = 10 * time.Minute
	DefaultReminderSpec   = "0 20 * * *" // 毎日20時
)
