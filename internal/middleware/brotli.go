package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/labstack/echo/v4"
)

// Accept-Encoding: br のときだけレスポンスを圧縮
func Brotli(level int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodHead || !strings.Contains(req.Header.Get(echo.HeaderAcceptEncoding), "br") {
				return next(c)
			}

			res := c.Response()
			res.Header().Add(echo.HeaderVary, echo.HeaderAcceptEncoding)

			orig := res.Writer
			bw := &brotliWriter{ResponseWriter: orig, level: level}
			res.Writer = bw
			defer func() {
				_ = bw.Close()
				res.Writer = orig
			}()

			return next(c)
		}
	}
}

// 204/304 と本文なしのレスポンスは素通し
type brotliWriter struct {
	http.ResponseWriter
	level       int
	bw          *brotli.Writer
	wroteHeader bool
	passthrough bool
}

func (w *brotliWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.Header()
	if code == http.StatusNoContent || code == http.StatusNotModified || h.Get(echo.HeaderContentEncoding) != "" {
		w.passthrough = true
	} else {
		h.Set(echo.HeaderContentEncoding, "br")
		h.Del(echo.HeaderContentLength)
		w.bw = brotli.NewWriterLevel(w.ResponseWriter, w.level)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	return w.bw.Write(b)
}

func (w *brotliWriter) Flush() {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *brotliWriter) Close() error {
	if w.bw == nil {
		return nil
	}
	return w.bw.Close()
}
