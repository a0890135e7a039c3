// FILE: conftree/scan_test.go
package conftree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tlsSettings struct {
	Cert string `ini:"cert"`
	Key  string `ini:"key"`
}

type serverSettings struct {
	Host    string        `ini:"host"`
	Port    int           `ini:"port"`
	Timeout time.Duration `ini:"timeout"`
	Primes  []uint        `ini:"primes"`
	Debug   bool          `ini:"debug"`
	TLS     tlsSettings   `ini:"tls"`
}

const scanINI = `[server]
host = localhost
port = 8080
timeout = 90s
primes = 2 3 5 7 11
debug = true
[server.tls]
cert = a.pem
key = b.pem
`

func TestScan(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString(scanINI, tr, true))

	var cfg serverSettings
	require.NoError(t, tr.Scan("server", &cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []uint{2, 3, 5, 7, 11}, cfg.Primes)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "a.pem", cfg.TLS.Cert)
	assert.Equal(t, "b.pem", cfg.TLS.Key)
}

func TestScanRoot(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString(scanINI, tr, true))

	var cfg struct {
		Server serverSettings `ini:"server"`
	}
	require.NoError(t, tr.Scan("", &cfg))
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestScanErrors(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString(scanINI, tr, true))

	var cfg serverSettings
	err := tr.Scan("absent", &cfg)
	assert.ErrorIs(t, err, ErrNotFound)

	err = tr.Scan("server", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer")

	var nilTarget *serverSettings
	err = tr.Scan("server", nilTarget)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer")

	tr2 := New()
	require.NoError(t, tr2.Set("port", "not-a-number"))
	var narrow struct {
		Port int `ini:"port"`
	}
	err = tr2.Scan("", &narrow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanPartial(t *testing.T) {
	// Keys without a matching field are ignored, absent fields keep
	// their values.
	tr := New()
	require.NoError(t, tr.Set("host", "example.org"))
	require.NoError(t, tr.Set("unrelated", "x"))

	cfg := serverSettings{Port: 4711}
	require.NoError(t, tr.Scan("", &cfg))
	assert.Equal(t, "example.org", cfg.Host)
	assert.Equal(t, 4711, cfg.Port)
}
