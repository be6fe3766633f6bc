package auth

import "time"

// セッションIDを作る約束（本番はuuid）
type IDGenerator interface {
	NewID() string
}

// 現在時刻の約束（テストで差し替える）
type Clock interface {
	Now() time.Time
}
