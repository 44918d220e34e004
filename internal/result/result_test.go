package result_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/clinic-management/internal/result"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestOK(t *testing.T) {
	res := result.OK(payload{Name: "a", Count: 2})

	assert.True(t, res.IsSuccess)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, res.Error)
	assert.Equal(t, payload{Name: "a", Count: 2}, res.Data)
}

func TestFail(t *testing.T) {
	res := result.Fail(payload{Name: "partial"}, result.KindValidation, "bad input", http.StatusBadRequest)

	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, res.Error)
	assert.Equal(t, result.KindValidation, res.Error.Type)
	assert.Equal(t, "bad input", res.Error.Message)
	// A failed envelope may still carry a partial payload.
	assert.Equal(t, "partial", res.Data.Name)
}

func TestInvalidFixedMessage(t *testing.T) {
	res := result.Invalid[any](nil)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.NotNil(t, res.Error)
	assert.Equal(t, "invalid input values.", res.Error.Message)
}

func TestFromErrorKeepsCauseOffTheWire(t *testing.T) {
	cause := fmt.Errorf("dial tcp 10.0.0.5:3306: %w", errors.New("connection refused"))
	res := result.FromError[payload](cause)

	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.NotNil(t, res.Error)
	assert.Equal(t, result.KindInternal, res.Error.Type)
	// The cause is reachable server-side for logging.
	assert.ErrorIs(t, res.Error, cause)
}

func TestFromErrorUnwrapsTaggedErrors(t *testing.T) {
	inner := &result.Error{Type: result.KindAuthentication, Message: "token expired"}
	res := result.FromError[payload](fmt.Errorf("refresh: %w", inner))

	require.NotNil(t, res.Error)
	assert.Equal(t, result.KindAuthentication, res.Error.Type)
	assert.Equal(t, "token expired", res.Error.InnerMessage)
}

func TestPersistenceHidesDetail(t *testing.T) {
	res := result.Persistence[payload](errors.New("Error 1045: Access denied for user 'api'@'10.0.0.7'"))

	bs, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(bs), "1045")
	assert.NotContains(t, string(bs), "Access denied")
	assert.Contains(t, string(bs), string(result.KindPersistence))
}

func TestSuccessRoundTrip(t *testing.T) {
	in := result.OK(payload{Name: "roundtrip", Count: 7})

	bs, err := json.Marshal(in)
	require.NoError(t, err)

	var out result.Result[payload]
	require.NoError(t, json.Unmarshal(bs, &out))

	assert.True(t, out.IsSuccess)
	assert.Nil(t, out.Error)
	assert.Equal(t, in.Data, out.Data)
	assert.Equal(t, in.StatusCode, out.StatusCode)
}

func TestEnvelopeFieldNames(t *testing.T) {
	bs, err := json.Marshal(result.OK(payload{}))
	require.NoError(t, err)

	for _, field := range []string{`"statusCode"`, `"isSuccess"`, `"data"`, `"error"`} {
		assert.True(t, strings.Contains(string(bs), field), "missing %s in %s", field, bs)
	}
}
