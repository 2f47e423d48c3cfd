package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd",
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-j", "HS384",
		"-t", "15", "-k", "enckey", "-w", "10",
		"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
	}

	config := &Config{}
	require.NotPanics(t, func() { parseFlags(config) })

	expected := &Config{
		EndpointAddr:                "127.0.0.1:9090",
		DatabaseDSN:                 "db",
		SecretKey:                   "secret",
		SigningAlgorithm:            "HS384",
		AccessTokenValidityDuration: 15 * time.Minute,
		EncryptionSecret:            "enckey",
		BcryptCost:                  10,
		S3RootUser:                  "user",
		S3RootPassword:              "password",
		S3Bucket:                    "bucket",
		S3Region:                    "us-west-1",
		S3BaseEndpoint:              "http://endpoint",
	}
	assert.Equal(t, expected, config)
}
