// Package telegram verifies Telegram Web App init data.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// webAppDataKey is the HMAC key Telegram uses to derive the secret from the bot token.
const webAppDataKey = "WebAppData"

var (
	// ErrInvalidInitData indicates init data that is malformed or carries a wrong signature.
	ErrInvalidInitData = fmt.Errorf("%w: invalid telegram init data", apperrors.ErrUnauthorized)
	// ErrInitDataExpired indicates a correctly signed payload that is older than the allowed age.
	ErrInitDataExpired = fmt.Errorf("%w: telegram init data expired", apperrors.ErrUnauthorized)
	// ErrBotTokenMissing is returned when no bot token is configured.
	ErrBotTokenMissing = errors.New("bot token is not configured")
)

// Verifier checks init data signatures for one bot.
type Verifier struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

// NewVerifier creates a Verifier. A zero maxAge disables the auth_date freshness check.
func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	return &Verifier{botToken: botToken, maxAge: maxAge, now: time.Now}
}

type initDataUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Verify validates the hash of the raw initData query string and returns the identity it carries.
func (v *Verifier) Verify(initData string) (*domain.Identity, error) {
	if v.botToken == "" {
		return nil, ErrBotTokenMissing
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}
	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return nil, fmt.Errorf("%w: hash missing", ErrInvalidInitData)
	}

	expected := Sign(values, v.botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(receivedHash))) {
		return nil, fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}

	if v.maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: auth_date missing", ErrInvalidInitData)
		}
		if v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
			return nil, ErrInitDataExpired
		}
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, fmt.Errorf("%w: user field: %v", ErrInvalidInitData, err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: user id missing", ErrInvalidInitData)
	}

	return &domain.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Sign computes the hex hash Telegram attaches to init data: the HMAC-SHA256 of the
// sorted "key=value" lines (hash excluded) keyed with HMAC-SHA256("WebAppData", botToken).
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte(webAppDataKey))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
