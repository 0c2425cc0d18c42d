// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先（ユーザーストアなど）の疎通確認を行います。
type Pinger func(ctx context.Context) error

// readyTimeout は /readyz の疎通確認1回あたりの上限時間です。
const readyTimeout = 2 * time.Second

// Health は /healthz（liveness）を処理します。プロセスが応答できれば常に ok を返します。
func Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready は /readyz（readiness）のハンドラーを返します。
// すべての pinger が成功した場合のみ 200、いずれかが失敗した場合は 503 を返します。
func Ready(pingers map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		failed := gin.H{}
		for name, ping := range pingers {
			if err := ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			respond(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		respond(c, http.StatusOK, gin.H{"status": "ok"})
	}
}

// respond はキャッシュを防止し、メソッドに応じてレスポンスを返します。
func respond(c *gin.Context, status int, body gin.H) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(status)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(status, body)
	}
}
