package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ascent-club-bot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeActivation struct {
	activated  bool
	err        error
	gotTrackID string
}

func (f *fakeActivation) Activate(ctx context.Context, trackID string) (bool, error) {
	f.gotTrackID = trackID
	return f.activated, f.err
}

func newTestHandler(fake *fakeActivation) http.Handler {
	return NewHandler(fake, "AscentClubBot", zap.NewNop().Sugar()).Routes()
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func postJSON(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/payment/callback", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	router := newTestHandler(&fakeActivation{})

	recorder := get(t, router, "/")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCallbackPageMissingTrackID(t *testing.T) {
	fake := &fakeActivation{}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, fake.gotTrackID)
}

func TestCallbackPageSuccess(t *testing.T) {
	fake := &fakeActivation{activated: true}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback?trackId=42&success=1&orderId=abc")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "42", fake.gotTrackID)
	assert.Contains(t, recorder.Body.String(), "Оплата прошла успешно")
	assert.Contains(t, recorder.Body.String(), "https://t.me/AscentClubBot")
}

func TestCallbackPageDuplicateTriggerStillSuccess(t *testing.T) {
	// Уже активировано другим триггером — покупателю показываем успех
	fake := &fakeActivation{activated: false, err: nil}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback?trackId=42")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Оплата прошла успешно")
}

func TestCallbackPageNotPaid(t *testing.T) {
	fake := &fakeActivation{err: service.ErrNotPaid}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback?trackId=42&success=0")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Оплата не прошла")
}

func TestCallbackPageUnknownTrackID(t *testing.T) {
	fake := &fakeActivation{err: service.ErrNotFound}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback?trackId=9999")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCallbackPageGatewayFailure(t *testing.T) {
	fake := &fakeActivation{err: errors.New("verify: connection refused")}
	router := newTestHandler(fake)

	recorder := get(t, router, "/payment/callback?trackId=42")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestCallbackAPIActivates(t *testing.T) {
	fake := &fakeActivation{activated: true}
	router := newTestHandler(fake)

	recorder := postJSON(t, router, `{"trackId": 12345, "orderId": "abc", "success": 1}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "12345", fake.gotTrackID)
	assert.Contains(t, recorder.Body.String(), `"activated":true`)
}

func TestCallbackAPIMissingTrackID(t *testing.T) {
	fake := &fakeActivation{}
	router := newTestHandler(fake)

	recorder := postJSON(t, router, `{"orderId": "abc"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, fake.gotTrackID)
}

func TestCallbackAPIMalformedBody(t *testing.T) {
	router := newTestHandler(&fakeActivation{})

	recorder := postJSON(t, router, `{не json`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCallbackAPIFormEncoded(t *testing.T) {
	fake := &fakeActivation{activated: true}
	router := newTestHandler(fake)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/payment/callback",
		strings.NewReader("trackId=77&orderId=abc"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "77", fake.gotTrackID)
}

func TestCallbackAPINotPaidIsNotServerError(t *testing.T) {
	fake := &fakeActivation{err: service.ErrNotPaid}
	router := newTestHandler(fake)

	recorder := postJSON(t, router, `{"trackId": 42}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
}

func TestCallbackAPIGatewayFailureAsksForRetry(t *testing.T) {
	// 500 — сигнал шлюзу повторить доставку вебхука
	fake := &fakeActivation{err: errors.New("verify: timeout")}
	router := newTestHandler(fake)

	recorder := postJSON(t, router, `{"trackId": 42}`)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
