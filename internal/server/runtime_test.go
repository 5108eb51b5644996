package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thirdparty/internal/server"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("serves until cancelled and runs hooks", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		var hooks atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- server.Run(ctx, server.RunConfig{
				Handler:  server.NewRouter(&fakeAuth{providers: []string{"github"}}),
				Listener: ln,
				Logger:   slogDiscard(),
				ShutdownHooks: []func(context.Context) error{
					func(context.Context) error { hooks.Add(1); return nil },
					func(context.Context) error { hooks.Add(1); return nil },
				},
			})
		}()

		resp, err := http.Get("http://" + ln.Addr().String() + "/auth/providers")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"providers":["github"]}`, string(body))

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
		assert.Equal(t, int32(2), hooks.Load())
	})

	t.Run("hook errors are returned", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		errHook := errors.New("close failed")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = server.Run(ctx, server.RunConfig{
			Handler:       http.NotFoundHandler(),
			Listener:      ln,
			ShutdownHooks: []func(context.Context) error{func(context.Context) error { return errHook }},
		})
		assert.ErrorIs(t, err, errHook)
	})

	t.Run("listen failure", func(t *testing.T) {
		t.Parallel()

		err := server.Run(context.Background(), server.RunConfig{
			Handler: http.NotFoundHandler(),
			Addr:    "256.0.0.1:bad",
		})
		assert.Error(t, err)
	})
}
