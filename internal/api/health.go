// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/respond"
)

// healthStatus is the /health payload.
type healthStatus struct {
	Status    string `json:"status"`
	App       string `json:"app"`
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptime_sec"`
}

// NewLivenessHandler creates the /health handler. The stub has no
// dependencies, so liveness and readiness are the same probe.
func NewLivenessHandler(logger *slog.Logger) http.HandlerFunc {
	startedAt := time.Now()
	return func(writer http.ResponseWriter, request *http.Request) {
		logger.Debug("health_probe", slog.String("remote", request.RemoteAddr))
		respond.OK(writer, "", healthStatus{
			Status:    "ok",
			App:       constants.StubAppName,
			Version:   constants.AppVersion,
			UptimeSec: int64(time.Since(startedAt).Seconds()),
		})
	}
}
