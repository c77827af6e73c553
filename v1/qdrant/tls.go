package qdrant

import (
	"strings"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// loopbackHosts are the host spellings treated as local development targets.
var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
	"[::1]":     true,
}

// IsLoopback reports whether host is one of the recognised loopback forms.
// Matching is exact apart from letter case.
func IsLoopback(host string) bool {
	return loopbackHosts[strings.ToLower(host)]
}

// ResolveTLS decides whether to use TLS for host.
//
// An explicit setting is honoured, except that disabling TLS for a host that
// is not loopback fails with TlsRequiredForRemoteHost. Without a setting, TLS
// is on for remote hosts and off for loopback.
func ResolveTLS(host string, useTLS *bool) (bool, error) {
	loopback := IsLoopback(host)
	if useTLS == nil {
		return !loopback, nil
	}
	if !*useTLS && !loopback {
		return false, vectordb.NewError(vectordb.KindTLSRequiredForRemoteHost, host)
	}
	return *useTLS, nil
}
