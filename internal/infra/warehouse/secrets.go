package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"stay-event-adapter/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsAPI is the slice of the Secrets Manager client the warehouse needs.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// credentials is the JSON shape of the warehouse connection secret. The port
// arrives as a string in some secret revisions and as a number in others.
type credentials struct {
	Host     string      `json:"host"`
	DBName   string      `json:"dbname"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Port     json.Number `json:"port"`
}

func parseCredentials(secretString string) (credentials, error) {
	var creds credentials
	if err := json.Unmarshal([]byte(secretString), &creds); err != nil {
		return credentials{}, errs.Mark(err, errs.ErrSecretMalformed)
	}
	if creds.Host == "" || creds.Username == "" || creds.DBName == "" {
		return credentials{}, errs.Mark(errs.New("secret missing host, username or dbname"), errs.ErrSecretMalformed)
	}
	if _, err := creds.Port.Int64(); err != nil {
		return credentials{}, errs.Mark(err, errs.ErrSecretMalformed)
	}
	return creds, nil
}

func (c credentials) dsn() string {
	port, _ := c.Port.Int64()
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, port),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

func fetchCredentials(ctx context.Context, api SecretsAPI, secretARN string) (credentials, error) {
	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return credentials{}, errs.Wrap(err, "failed to fetch warehouse secret")
	}
	return parseCredentials(aws.ToString(out.SecretString))
}
