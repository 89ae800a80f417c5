package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckDefault_AllowsUnderLimit(t *testing.T) {
	l := New(time.Minute, 10)
	r := l.CheckDefault("ip1")
	require.True(t, r.Allowed)
	require.Equal(t, 9, r.Remaining)
}

func TestCheckDefault_BlocksAtLimit(t *testing.T) {
	l := New(time.Minute, 3)
	for i := 0; i < 3; i++ {
		l.CheckDefault("ip1")
	}
	require.False(t, l.CheckDefault("ip1").Allowed)
}

func TestCheckDefault_SeparateKeysIndependent(t *testing.T) {
	l := New(time.Minute, 3)
	for i := 0; i < 3; i++ {
		l.CheckDefault("ip1")
	}
	require.False(t, l.CheckDefault("ip1").Allowed)
	require.True(t, l.CheckDefault("ip2").Allowed)
}

func TestCheck_WindowResets(t *testing.T) {
	l := New(10*time.Millisecond, 1)
	require.True(t, l.CheckDefault("ip1").Allowed)
	require.False(t, l.CheckDefault("ip1").Allowed)
	time.Sleep(20 * time.Millisecond)
	require.True(t, l.CheckDefault("ip1").Allowed)
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	req.RemoteAddr = "127.0.0.1:9999"
	require.Equal(t, "203.0.113.5", ClientIP(req))
}

func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:54321"
	require.Equal(t, "198.51.100.7", ClientIP(req))
}

func TestClientIP_UnknownWhenNothingAvailable(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ""
	require.Equal(t, "unknown", ClientIP(req))
}
