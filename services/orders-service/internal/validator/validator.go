package validator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/cache"
)

// Decision is the tri-state outcome of a reference check.
type Decision int

const (
	// Admitted: the user exists, either confirmed live or seen in the
	// event cache while the users service was unreachable.
	Admitted Decision = iota
	// Rejected: the users service answered and the user does not exist.
	Rejected
	// Indeterminate: the users service is unreachable and the cache has
	// never seen the id. The caller must not guess.
	Indeterminate
)

func (d Decision) String() string {
	switch d {
	case Admitted:
		return "admitted"
	case Rejected:
		return "rejected"
	default:
		return "indeterminate"
	}
}

const DefaultTimeout = 2000 * time.Millisecond

// UserValidator checks that a user id refers to an existing user. The
// live HTTP check is authoritative; the event cache is only a fallback
// when the users service cannot be reached at all.
type UserValidator struct {
	baseURL string
	client  *http.Client
	cache   *cache.UserCache
	log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, c *cache.UserCache, log *zap.Logger) *UserValidator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &UserValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   c,
		log:     log,
	}
}

// Validate issues a single bounded-time GET against the users service.
// A 2xx admits, any other status rejects (an explicit negative from the
// source of truth beats whatever the cache holds), and a transport
// failure falls back to the cache. No retries.
func (v *UserValidator) Validate(ctx context.Context, userID string) Decision {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", v.baseURL, url.PathEscape(userID)), nil)
	if err != nil {
		return v.fallback(userID, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return v.fallback(userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Admitted
	}
	return Rejected
}

func (v *UserValidator) fallback(userID string, cause error) Decision {
	decision := Indeterminate
	if v.cache.Has(userID) {
		decision = Admitted
	}
	v.log.Warn("users-service unreachable, consulted event cache",
		zap.String("user_id", userID),
		zap.Stringer("decision", decision),
		zap.Error(cause))
	return decision
}
