package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry an unsafe request (a refresh run)
// without repeating its effect.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key of the request, if any.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := asString(c.Value(ctxKeyIdemKey))
	return s, s != ""
}

// IsReplay reports whether a stored result exists for the request's key.
func IsReplay(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyIdemReplay).(bool)
	return b
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length; <= 0 means 200.
	MaxLen int
	// Pattern restricts key characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Scope names the operation a request performs. An empty scope skips
	// the replay lookup; the key is still validated and stashed.
	Scope func(*gin.Context) string
}

// IdempotencyLookup reports whether a completed, unexpired result exists for
// (userID, scope, key). TTL is the lookup's concern.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error)

// IdempotencyValidator validates the Idempotency-Key header when present and
// stashes it for handlers. When lookup finds a stored result the request is
// marked as a replay and exempted from rate limiting; serving the stored
// body is left to the handler. Invalid keys are rejected with 400.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		var scope string
		if opts.Scope != nil {
			scope = opts.Scope(c)
		}
		if lookup != nil && scope != "" {
			exists, err := lookup(c.Request.Context(), UserID(c), scope, key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}
