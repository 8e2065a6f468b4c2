package utils

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("handler: %w", StoreUnavailableError(cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.Code)
	assert.Equal(t, "error_store_unavailable", appErr.Key)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Store unavailable: disk full", appErr.Error())

	nf := NotFoundError("Not found", nil).WithContext("id", 7)
	assert.Equal(t, 404, nf.Code)
	assert.Equal(t, 7, nf.Context["id"])
	assert.Equal(t, "Not found", nf.Error())
}

func TestAsValidationError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ValidationError{Field: "status", Message: "unknown"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "status", ve.Field)
	assert.Equal(t, "status: unknown", ve.Error())

	_, ok = AsValidationError(errors.New("plain"))
	assert.False(t, ok)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", "u1@example.com", "0123456789abcdef", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "u1@example.com", claims.Email)

	_, err = ParseToken(token, "another-secret-value")
	assert.Error(t, err)

	_, err = GenerateToken("u1", "", "", time.Hour)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAndUnexpiring(t *testing.T) {
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(raw, "0123456789abcdef")
	assert.Error(t, err)

	forever := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	raw, err = forever.SignedString([]byte("0123456789abcdef"))
	require.NoError(t, err)
	_, err = ParseToken(raw, "0123456789abcdef")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  <b>hello</b> "))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "Pat O'Brien", SanitizeText("Pat O'Brien"))
	assert.Equal(t, "Smith & Sons", SanitizeText("<b>Smith</b> & Sons"))
	assert.Equal(t, `a < b "quoted"`, SanitizeText(`a < b "quoted"`))
	assert.Equal(t, "&lt;typed entity&gt;", SanitizeText("&lt;typed entity&gt;"))

	blank := "  <i></i> "
	assert.Nil(t, SanitizeOptional(&blank))
	assert.Nil(t, SanitizeOptional(nil))

	s := "Head of <em>Growth</em>"
	got := SanitizeOptional(&s)
	require.NotNil(t, got)
	assert.Equal(t, "Head of Growth", *got)
}

func TestTranslations(t *testing.T) {
	require.NoError(t, InitI18n())

	assert.Equal(t, "Not found", T(GetLocalizer("en"), "error_404"))
	assert.Equal(t, "見つかりません", T(GetLocalizer("ja"), "error_404"))
	assert.Equal(t, "missing_key", T(GetLocalizer("en"), "missing_key"))

	en := GetLocalizer("en")
	assert.Equal(t, "Seeded 2 campaigns and 1 lead", TPlural(en, "seed_result", 1, map[string]interface{}{"Campaigns": 2}))
	assert.Equal(t, "Seeded 2 campaigns and 15 leads", TPlural(en, "seed_result", 15, map[string]interface{}{"Campaigns": 2}))

	assert.True(t, IsSupportedLanguage("ja"))
	assert.False(t, IsSupportedLanguage("fr"))
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WARN)
	l.SetOutput(&buf)
	l.SetFormat("json")

	l.Info("hidden")
	l.WithField("lead", 7).Warn("status %s", "changed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"status changed"`)
	assert.Contains(t, out, `"lead":7`)

	assert.Equal(t, DEBUG, ParseLogLevel("debug"))
	assert.Equal(t, ERROR, ParseLogLevel("ERROR"))
	assert.Equal(t, INFO, ParseLogLevel("bogus"))
}
