package qdrant

import (
	"errors"
	"testing"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTLS(t *testing.T) {
	on, off := true, false
	tests := []struct {
		name    string
		host    string
		useTLS  *bool
		want    bool
		wantErr bool
	}{
		{"remote auto", "cloud.example.com", nil, true, false},
		{"localhost auto", "localhost", nil, false, false},
		{"ipv4 loopback auto", "127.0.0.1", nil, false, false},
		{"ipv6 loopback auto", "::1", nil, false, false},
		{"bracketed ipv6 loopback auto", "[::1]", nil, false, false},
		{"upper case localhost", "LOCALHOST", nil, false, false},
		{"remote explicit on", "cloud.example.com", &on, true, false},
		{"remote explicit off", "cloud.example.com", &off, false, true},
		{"localhost explicit off", "localhost", &off, false, false},
		{"localhost explicit on", "localhost", &on, true, false},
		{"other loopback address is remote", "127.0.0.2", &off, false, true},
		{"localhost subdomain is remote", "localhost.example.com", &off, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTLS(tt.host, tt.useTLS)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, vectordb.ErrTLSRequiredForRemoteHost))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTLS_Message(t *testing.T) {
	_, err := ResolveTLS("cloud.example.com", vectordb.Ptr(false))
	require.Error(t, err)
	assert.Equal(t,
		"TLS is required for remote host 'cloud.example.com'. Use UseTLS: true or connect to localhost for development.",
		err.Error())
}

func TestNewClient_TLSGateRunsBeforeBackend(t *testing.T) {
	backend := &fakeBackend{}

	_, err := NewClient(FromHost("cloud.example.com").WithTLS(false), WithBackend(backend))
	require.Error(t, err)
	assert.Equal(t, vectordb.KindTLSRequiredForRemoteHost, vectordb.KindOf(err))
	assert.Zero(t, backend.calls())
}

func TestNewClient_TLSGateWithoutBackend(t *testing.T) {
	for _, p := range []Protocol{ProtocolGRPC, ProtocolREST} {
		_, err := NewClient(FromHost("cloud.example.com").WithTLS(false).WithProtocol(p))
		assert.True(t, errors.Is(err, vectordb.ErrTLSRequiredForRemoteHost), string(p))
	}
}

func TestNewClient_TLSResolution(t *testing.T) {
	remote, err := NewClient(FromHost("cloud.example.com"), WithBackend(&fakeBackend{}))
	require.NoError(t, err)
	assert.True(t, remote.TLS())

	local, err := NewClient(FromHost("localhost").WithTLS(false), WithBackend(&fakeBackend{}))
	require.NoError(t, err)
	assert.False(t, local.TLS())
}
