package bootstrap

import (
	"context"

	"stay-event-adapter/internal/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/fx"
)

// Clients are constructed once here and injected; no package-level AWS state
// anywhere else in the tree.
var AWSModule = fx.Module("aws",
	fx.Provide(
		NewAWSConfig,
		NewDynamoDBClient,
		NewSNSClient,
		NewSecretsManagerClient,
		NewS3Client,
	),
)

func NewAWSConfig(cfg config.Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
	}
	return awsconfig.LoadDefaultConfig(context.Background(), opts...)
}

func NewDynamoDBClient(awsCfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

func NewSNSClient(awsCfg aws.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg)
}

func NewSecretsManagerClient(awsCfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(awsCfg)
}

func NewS3Client(awsCfg aws.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg)
}
