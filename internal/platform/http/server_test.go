package http

import (
	"context"
	"net"
	"testing"
	"time"

	"fxresolver/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestStart_ShutsDownOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Start(ctx, config.HTTPServer{Port: "0"}, chi.NewRouter()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after ctx cancel")
	}
}

func TestStart_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)

	err = Start(context.Background(), config.HTTPServer{Port: port}, chi.NewRouter())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to listen on port")
}
