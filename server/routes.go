package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter 注册全部路由
// staticDir 为空时不挂载静态资源（渲染端可以独立部署）
func NewRouter(m *SessionManager, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/ws", m.HandleWS)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/config", m.HandleGetConfig)
		r.Post("/config", m.HandleUpdateConfig)
	})
	r.Get("/metrics", m.HandleMetrics)
	r.Get("/metrics/{id}", m.HandleSessionMetrics)
	r.Get("/schema", HandleSchema)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	if staticDir != "" {
		// 前后端分离：将 / 映射到渲染端静态资源
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

// requestLogger 使用 zap 记录每个请求
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		Log.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
