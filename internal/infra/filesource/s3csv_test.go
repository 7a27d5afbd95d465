//go:build unit

package filesource_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"stay-event-adapter/internal/infra"
	"stay-event-adapter/internal/infra/filesource"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubS3 struct {
	body    string
	err     error
	lastGet *s3.GetObjectInput
}

func (s *stubS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.lastGet = params
	if s.err != nil {
		return nil, s.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCSVSource_FetchRows(t *testing.T) {
	ctx := context.Background()

	t.Run("maps lines through the header row", func(t *testing.T) {
		stub := &stubS3{body: strings.Join([]string{
			"rewards_id,departure_dt_key,rate_code",
			"R1,20240101,BAR",
			"R2,20240102,RACK",
		}, "\n")}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.csv", ',', discardLogger())

		rows, err := src.FetchRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "R1", rows[0]["rewards_id"])
		assert.Equal(t, "20240101", rows[0]["departure_dt_key"])
		assert.Equal(t, "RACK", rows[1]["rate_code"])

		require.NotNil(t, stub.lastGet)
		assert.Equal(t, "stay-files", *stub.lastGet.Bucket)
		assert.Equal(t, "extract.csv", *stub.lastGet.Key)
	})

	t.Run("empty cells are absent, not empty strings", func(t *testing.T) {
		stub := &stubS3{body: "rewards_id,cancel_dt_key\nR1,\n"}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.csv", ',', discardLogger())

		rows, err := src.FetchRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		_, present := rows[0]["cancel_dt_key"]
		assert.False(t, present)
	})

	t.Run("lines with the wrong field count are skipped", func(t *testing.T) {
		stub := &stubS3{body: strings.Join([]string{
			"rewards_id,rate_code",
			"R1,BAR",
			"R2",
			"R3,RACK",
		}, "\n")}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.csv", ',', discardLogger())

		rows, err := src.FetchRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "R1", rows[0]["rewards_id"])
		assert.Equal(t, "R3", rows[1]["rewards_id"])
	})

	t.Run("alternate delimiter", func(t *testing.T) {
		stub := &stubS3{body: "rewards_id|rate_code\nR1|BAR\n"}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.psv", '|', discardLogger())

		rows, err := src.FetchRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "BAR", rows[0]["rate_code"])
	})

	t.Run("unreachable object is fatal", func(t *testing.T) {
		stub := &stubS3{err: errors.New("access denied")}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.csv", ',', discardLogger())

		_, err := src.FetchRows(ctx)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindObjectFailure))
	})

	t.Run("empty object is fatal", func(t *testing.T) {
		stub := &stubS3{body: ""}
		src := filesource.NewCSVSource(stub, "stay-files", "extract.csv", ',', discardLogger())

		_, err := src.FetchRows(ctx)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindObjectFailure))
	})
}
