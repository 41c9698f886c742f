package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCirculationHandlerReserveInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCirculationHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Reserve(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
}

func TestCirculationHandlerCollectInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCirculationHandler(nil)

	cases := []string{"abc", "0", "-3"}
	for _, raw := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, _ := http.NewRequest(http.MethodPost, "/reservations/"+raw+"/collect", nil)
		c.Request = req
		c.Params = gin.Params{{Key: "id", Value: raw}}

		handler.Collect(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
	}
}

func TestCirculationHandlerFeesInvalidUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCirculationHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/nope/fees", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "user_id", Value: "nope"}}

	handler.Fees(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPathIDParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := pathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	c.Params = gin.Params{{Key: "id", Value: "forty-two"}}
	_, ok = pathID(c, "id")
	assert.False(t, ok)
}

func TestQueryIDParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, _ := http.NewRequest(http.MethodGet, "/loans?user_id=7", nil)
	c.Request = req
	id, ok := queryID(c, "user_id")
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	req, _ = http.NewRequest(http.MethodGet, "/loans", nil)
	c.Request = req
	_, ok = queryID(c, "user_id")
	assert.False(t, ok)
}
