package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondUsersWithETag writes a success envelope around data with a content
// ETag. Clients that send a matching If-None-Match get 304 with no body.
func RespondUsersWithETag(ctx *gin.Context, data interface{}) {
	body, err := json.Marshal(Envelope{Status: StatusSuccess, Data: data})
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	sum := sha256.Sum256(body)
	etag := `"u-` + hex.EncodeToString(sum[:16]) + `"`

	// user rows change on admin/active flips, so caches must always revalidate
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("ETag", etag)

	if etagMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// etagMatches applies the weak comparison If-None-Match requires.
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == etag {
			return true
		}
	}

	return false
}
