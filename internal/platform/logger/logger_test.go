package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(opts Options) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), opts: opts}, logs
}

func TestRedactsSecretsAndHashesContactFields(t *testing.T) {
	log, logs := observed(Options{Redact: true, HashSalt: "salt"})

	log.Info("signup", "auth_token", "abc", "email", "kid@example.com", "kind", "attendee")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["auth_token"])
	assert.True(t, strings.HasPrefix(fields["email"].(string), "hash:"))
	assert.NotContains(t, fields["email"], "example.com")
	assert.Equal(t, "attendee", fields["kind"])
}

func TestRedactionDisabledPassesValuesThrough(t *testing.T) {
	log, logs := observed(Options{})

	log.With("repo", "AttendeeRepo").Warn("slow", "email", "kid@example.com")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "kid@example.com", fields["email"])
	assert.Equal(t, "AttendeeRepo", fields["repo"])
}

func TestHashIsStableForSameSalt(t *testing.T) {
	a := &Logger{opts: Options{HashSalt: "x"}}
	assert.Equal(t, a.hashValue("kid@example.com"), a.hashValue("kid@example.com"))
	b := &Logger{opts: Options{HashSalt: "y"}}
	assert.NotEqual(t, a.hashValue("kid@example.com"), b.hashValue("kid@example.com"))
}
