package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sign_backend/internal/platform/config"
	platformhttp "sign_backend/internal/platform/http"
)

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		Region:          "eu-west-1",
		Bucket:          "signs",
	}

	awsCfg, err := LoadConfig(ctx, cfg, platformhttp.NewHTTPClient(0))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", awsCfg.Region)
	assert.Equal(t, 1, awsCfg.RetryMaxAttempts)

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIATEST", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}
