package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// loggingLineWriter logs complete NDJSON lines to the standard logger.
type loggingLineWriter struct {
	buf []byte
}

func (lw *loggingLineWriter) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := indexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(lw.buf[:idx])
		if len(line) > 0 {
			log.Printf("gen> %s", line)
		}
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("PANELXD_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

func logGenStart(r *http.Request, lvl LogLevel, pipeline string) {
	if lvl < LevelInfo {
		return
	}
	reqID := middleware.GetReqID(r.Context())
	if zlog != nil {
		zlog.Info().Str("pipeline", pipeline).Str("request_id", reqID).Msg("generation start")
		return
	}
	log.Printf("gen start pipeline=%s request_id=%s", pipeline, reqID)
}

func logGenEnd(r *http.Request, lvl LogLevel, pipeline string, status int, dur time.Duration, err error) {
	if err != nil {
		if lvl < LevelError {
			return
		}
		if zlog != nil {
			zlog.Error().Str("pipeline", pipeline).Int("status", status).Dur("duration", dur).Err(err).Msg("generation failed")
			return
		}
		log.Printf("gen failed pipeline=%s status=%d duration=%s err=%v", pipeline, status, dur, err)
		return
	}
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		zlog.Info().Str("pipeline", pipeline).Int("status", status).Dur("duration", dur).Msg("generation done")
		return
	}
	log.Printf("gen done pipeline=%s status=%d duration=%s", pipeline, status, dur)
}
