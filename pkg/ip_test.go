package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65:2145", expectedIsLocal: false},
		{addr: "127.23.0.1:35325", expectedIsLocal: false},
		{addr: "127.0.0.1:35325", expectedIsLocal: true},
		{addr: "172.20.0.1:60102", expectedIsLocal: true},
		{addr: "172.19.0.1:42452", expectedIsLocal: true},
		{addr: "111.12.56.65:8080", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestReadUserIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "83.12.53.65:2145"
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "83.12.53.65", ip)

	req.Header.Set("X-Forwarded-For", "10.1.1.1, 172.16.0.5")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "10.1.1.1", ip)

	req.Header.Set("X-Real-Ip", "2001:db8::1")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", ip)

	local := httptest.NewRequest("GET", "/", nil)
	local.RemoteAddr = "127.0.0.1:5555"
	ip, err = ReadUserIP(local)
	require.NoError(t, err)
	assert.Equal(t, "localhost", ip)

	bad := httptest.NewRequest("GET", "/", nil)
	bad.RemoteAddr = "not-an-ip"
	_, err = ReadUserIP(bad)
	assert.Error(t, err)
}
