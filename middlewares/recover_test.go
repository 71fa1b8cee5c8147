package middlewares_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/middlewares"
	"github.com/dmitrymomot/colony/pkg/logger"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("responds 500 and logs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := middlewares.Recover(middlewares.WithRecoverLogger(logger.NewWriter(&buf, logger.Config{})))
		h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), `"stack"`)
	})

	t.Run("custom handler gets the panic", func(t *testing.T) {
		t.Parallel()

		var got *middlewares.PanicError
		mw := middlewares.Recover(
			middlewares.WithRecoverDisablePrintStack(),
			middlewares.WithRecoverHandler(func(w http.ResponseWriter, _ *http.Request, pe *middlewares.PanicError) {
				got = pe
				w.WriteHeader(http.StatusTeapot)
			}),
		)

		cause := errors.New("bad state")
		rec := httptest.NewRecorder()
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(cause)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		require.NotNil(t, got)
		assert.Nil(t, got.Stack)
		require.ErrorIs(t, got, cause)

		pe, ok := middlewares.AsPanicError(error(got))
		require.True(t, ok)
		assert.Equal(t, "panic: bad state", pe.Error())
	})

	t.Run("passes through", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middlewares.Recover()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
