package mockserver

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/jsondb"
	"go.uber.org/zap"
)

// Middleware is the signature required by chi.Router.Use().
type Middleware func(http.Handler) http.Handler

// maxBodyBytes bounds request bodies accepted by the body parser.
const maxBodyBytes = 1 << 20

type bodyKey struct{}

// bodyFrom returns the item decoded by the body parser.
func bodyFrom(ctx context.Context) jsondb.Item {
	it, _ := ctx.Value(bodyKey{}).(jsondb.Item)
	return it
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.RequestURI()),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// cors allows any origin, echoing it back so credentials work.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		} else {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Expose-Headers", "X-Total-Count, Link")

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
			if h := r.Header.Get("Access-Control-Request-Headers"); h != "" {
				w.Header().Set("Access-Control-Allow-Headers", h)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// readOnly rejects every method that could change the document.
func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusForbidden, "read-only mode")
		}
	})
}

// bodyParser decodes JSON and url-encoded bodies of POST, PUT and PATCH
// requests into an item stored on the request context.
func bodyParser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		if len(data) > maxBodyBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}

		item := jsondb.Item{}
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch {
		case len(data) == 0:
		case mediaType == "application/x-www-form-urlencoded":
			form, err := url.ParseQuery(string(data))
			if err != nil {
				writeError(w, http.StatusBadRequest, "malformed form body")
				return
			}
			for k := range form {
				item[k] = formValue(form.Get(k))
			}
		default:
			if err := json.Unmarshal(data, &item); err != nil {
				writeError(w, http.StatusBadRequest, "malformed JSON body")
				return
			}
		}

		ctx := context.WithValue(r.Context(), bodyKey{}, item)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// formValue keeps numbers and booleans typed so form posts line up with
// JSON posts.
func formValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
