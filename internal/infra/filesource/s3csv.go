package filesource

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"

	"stay-event-adapter/internal/infra"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the file source needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// CSVSource reads one delimited file from object storage and maps each line
// to a column→value record via the header row. An unreadable object or
// header is fatal for the batch; a malformed line only loses that line.
type CSVSource struct {
	client    S3API
	bucket    string
	key       string
	delimiter rune
	logger    *slog.Logger
}

func NewCSVSource(client S3API, bucket, key string, delimiter rune, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		client:    client,
		bucket:    bucket,
		key:       key,
		delimiter: delimiter,
		logger: logger.With(
			slog.String("bucket", bucket),
			slog.String("key", key),
		),
	}
}

func (s *CSVSource) FetchRows(ctx context.Context) ([]map[string]any, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, infra.WrapInfraErr(s.logger, infra.KindObjectFailure, "failed to fetch source object", err)
	}
	defer out.Body.Close()

	return s.parse(out.Body)
}

func (s *CSVSource) parse(body io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(body)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, infra.WrapInfraErr(s.logger, infra.KindObjectFailure, "failed to read source file header", err)
	}

	batch := make([]map[string]any, 0, 64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.logger.Warn("skipping malformed line", slog.Int("line", parseErr.Line), slog.Any("error", err))
				continue
			}
			return nil, infra.WrapInfraErr(s.logger, infra.KindObjectFailure, "failed to read source file", err)
		}
		if len(record) != len(header) {
			s.logger.Warn("skipping line with unexpected field count", slog.Int("fields", len(record)))
			continue
		}

		raw := make(map[string]any, len(header))
		for i, name := range header {
			// An empty cell is a null, not an empty string.
			if record[i] == "" {
				continue
			}
			raw[name] = record[i]
		}
		batch = append(batch, raw)
	}

	return batch, nil
}
