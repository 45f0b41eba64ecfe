package web

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// compressWriter sends the body through an encoder while headers and status
// still go to the wrapped ResponseWriter
type compressWriter struct {
	http.ResponseWriter
	encoder io.WriteCloser
}

func (c *compressWriter) Write(b []byte) (int, error) {
	return c.encoder.Write(b)
}

// negotiateEncoding picks br over gzip from an Accept-Encoding header.
// Returns "" for identity.
func negotiateEncoding(header string) string {
	accepted := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		ok := true
		for _, f := range fields[1:] {
			f = strings.ReplaceAll(strings.TrimSpace(f), " ", "")
			if f == "q=0" || f == "q=0.0" || f == "q=0.00" || f == "q=0.000" {
				ok = false
			}
		}
		if name != "" {
			accepted[name] = ok
		}
	}
	switch {
	case accepted["br"]:
		return "br"
	case accepted["gzip"]:
		return "gzip"
	default:
		return ""
	}
}

// Compress encodes response bodies with brotli or gzip when the client accepts it
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		enc := negotiateEncoding(r.Header.Get("Accept-Encoding"))
		var encoder io.WriteCloser
		switch enc {
		case "br":
			encoder = brotli.NewWriterLevel(w, brotli.DefaultCompression)
		case "gzip":
			encoder = gzip.NewWriter(w)
		default:
			next.ServeHTTP(w, r)
			return
		}
		defer encoder.Close()

		w.Header().Set("Content-Encoding", enc)
		w.Header().Del("Content-Length")
		next.ServeHTTP(&compressWriter{ResponseWriter: w, encoder: encoder}, r)
	})
}
