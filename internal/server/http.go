package server

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/service"
	"github.com/iWorld-y/insight_radar/internal/storage"
)

// NewHTTPServer 组装 HTTP 服务
func NewHTTPServer(c config.ServerConfig, s *service.InsightService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
	})

	srv.Handle("/metrics", promhttp.Handler())

	srv.HandleFunc("/v1/report", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		text, err := s.GenerateReport(r.Context(), queryDays(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]string{"report": text})
	})

	srv.HandleFunc("/v1/trends", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		insights, err := s.AnalyzeTrends(r.Context(), queryDays(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"trends": insights})
	})

	srv.HandleFunc("/v1/problems", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		insights, err := s.AnalyzeProblems(r.Context(), queryDays(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"problems": insights})
	})

	srv.HandleFunc("/v1/runs", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		runs, err := s.ListRuns(r.Context(), page, pageSize)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"runs": runs})
	})

	srv.HandlePrefix("/v1/runs/", nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeJSON(w, nethttp.StatusBadRequest, map[string]string{"error": "invalid run id"})
			return
		}
		run, err := s.GetRun(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, run)
	}))

	return srv
}

// queryDays 解析 days 查询参数，解析失败交给服务层回落默认值
func queryDays(r *nethttp.Request) int {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	return days
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w nethttp.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, nethttp.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, nethttp.StatusInternalServerError, map[string]string{"error": err.Error()})
}
