package credsource

import (
	"context"
	"encoding/base64"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

// ErrGetSecret is returned when a secret cannot be fetched.
var ErrGetSecret = errors.New("secretsmanager: failed to get secret")

const awsEnvPrefix = "CLOUD_ASSETS"

// SecretGetter fetches a secret value by id.
type SecretGetter interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

// secretsManagerAPI is the subset of the Secrets Manager client we use.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient reads credential documents from AWS Secrets Manager.
type SecretsManagerClient struct {
	client secretsManagerAPI
}

// NewSecretsManagerClient returns a client built from cfg.
func NewSecretsManagerClient(cfg aws.Config) *SecretsManagerClient {
	return &SecretsManagerClient{client: secretsmanager.NewFromConfig(cfg)}
}

// GetSecret returns the secret string. Binary secrets are returned as
// decoded bytes when they hold text, otherwise base64 encoded.
func (s *SecretsManagerClient) GetSecret(ctx context.Context, id string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", oerrors.Wrap(ErrGetSecret, id+": "+err.Error())
	}
	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		if looksLikeJSON(out.SecretBinary) {
			return string(out.SecretBinary), nil
		}
		return base64.StdEncoding.EncodeToString(out.SecretBinary), nil
	}
	return "", nil
}

// LoadAWSConfig loads the default AWS configuration. Region and endpoint
// may be overridden with CLOUD_ASSETS_AWS_REGION and
// CLOUD_ASSETS_AWS_ENDPOINT_URL (falling back to the unprefixed names).
func LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region := getEnv("AWS_REGION", ""); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if endpoint := getEnv("AWS_ENDPOINT_URL", ""); endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(awsEnvPrefix + "_" + key); ok {
		return v
	}
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
