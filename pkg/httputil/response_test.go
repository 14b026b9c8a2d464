package httputil

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes compact JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
		assert.Equal(t, `{"foo":"bar"}`, rec.Body.String())
	})

	t.Run("indent variant pretty prints", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSONIndent(rec, http.StatusOK, map[string]int{"a": 1})

		assert.Equal(t, "{\n  \"a\": 1\n}", rec.Body.String())

		var result map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result["a"])
	})

	t.Run("unencodable value becomes 500", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]float64{"x": math.NaN()})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, ContentTypeText, rec.Header().Get("Content-Type"))
	})
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteBadRequest(rec, "Invalid JSON data")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeText, rec.Header().Get("Content-Type"))
	assert.Equal(t, "Invalid JSON data", rec.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/anything", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestAllowAnyOrigin(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	AllowAnyOrigin(rec)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
