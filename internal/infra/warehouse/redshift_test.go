//go:build unit

package warehouse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"stay-event-adapter/internal/infra"
	"stay-event-adapter/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSecrets struct {
	secret string
	err    error
}

func (s *stubSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s.secret)}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSource_FetchRows_ConnectFailure(t *testing.T) {
	stub := &stubSecrets{secret: `{"host":"wh.example.com","dbname":"bwhrdw","username":"adapter","password":"s3cret","port":5439}`}
	src := NewSource(stub, "arn:secret", discardLogger())
	src.connect = func(_ context.Context, _ string) (*pgx.Conn, error) {
		return nil, errors.New("connection timed out")
	}

	_, err := src.FetchRows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrWarehouseUnavailable)
	assert.True(t, infra.IsKind(err, infra.KindWarehouseFailure))
}

func TestSource_FetchRows_SecretFailure(t *testing.T) {
	stub := &stubSecrets{err: errors.New("access denied")}
	src := NewSource(stub, "arn:secret", discardLogger())
	src.connect = func(_ context.Context, _ string) (*pgx.Conn, error) {
		t.Fatal("connect must not be reached without credentials")
		return nil, nil
	}

	_, err := src.FetchRows(context.Background())
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindSecretFailure))
}
