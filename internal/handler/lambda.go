package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"stay-event-adapter/internal/usecase"

	"github.com/aws/aws-lambda-go/events"
)

// Response is the invocation return contract: 200 for any run that completed
// fetching, even when individual rows failed.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// FileSourceFactory builds a row source for one arrived object.
type FileSourceFactory func(bucket, key string) usecase.RowSource

// triggerRecord is the minimal shape needed to tell the supported trigger
// payloads apart before committing to a typed unmarshal.
type triggerRecord struct {
	EventSource string           `json:"eventSource"`
	S3          *events.S3Entity `json:"s3"`
}

type trigger struct {
	Records []triggerRecord `json:"Records"`
}

// StayEventHandler routes Lambda trigger payloads into the batch pipeline.
// An SQS message is a pure "new data available" signal and runs the
// warehouse batch; an S3 notification runs one file batch per record.
type StayEventHandler struct {
	uc        usecase.StayEventUseCase
	warehouse usecase.RowSource
	files     FileSourceFactory
	logger    *slog.Logger
}

func NewStayEventHandler(
	uc usecase.StayEventUseCase,
	warehouse usecase.RowSource,
	files FileSourceFactory,
	logger *slog.Logger,
) *StayEventHandler {
	return &StayEventHandler{
		uc:        uc,
		warehouse: warehouse,
		files:     files,
		logger:    logger,
	}
}

func (h *StayEventHandler) Handle(ctx context.Context, raw json.RawMessage) (Response, error) {
	h.logger.Info("invocation received", slog.Int("payload_bytes", len(raw)))

	var trig trigger
	if err := json.Unmarshal(raw, &trig); err != nil {
		// Scheduled or manual invocations carry arbitrary payloads; they run
		// the warehouse batch like an SQS trigger.
		trig.Records = nil
	}

	if sources := fileRecords(trig); len(sources) > 0 {
		return h.processFiles(ctx, sources)
	}
	return h.processWarehouse(ctx)
}

func (h *StayEventHandler) processWarehouse(ctx context.Context) (Response, error) {
	summary, err := h.uc.ProcessBatch(ctx, h.warehouse)
	if err != nil {
		return Response{}, err
	}
	return okResponse(summary.RowsFetched), nil
}

func (h *StayEventHandler) processFiles(ctx context.Context, records []events.S3Entity) (Response, error) {
	total := 0
	for _, record := range records {
		summary, err := h.uc.ProcessBatch(ctx, h.files(record.Bucket.Name, record.Object.Key))
		if err != nil {
			return Response{}, err
		}
		total += summary.RowsFetched
	}
	return okResponse(total), nil
}

func fileRecords(trig trigger) []events.S3Entity {
	var entities []events.S3Entity
	for _, record := range trig.Records {
		if record.S3 != nil && record.S3.Bucket.Name != "" {
			entities = append(entities, *record.S3)
		}
	}
	return entities
}

func okResponse(rows int) Response {
	return Response{
		StatusCode: 200,
		Body:       fmt.Sprintf("Processed %d rows", rows),
	}
}
