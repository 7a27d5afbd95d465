package ledger

import (
	"context"
	"log/slog"
	"time"

	"stay-event-adapter/internal/infra"
	"stay-event-adapter/internal/pkg/clock"
	"stay-event-adapter/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const hashAttribute = "EventHash"

// DynamoAPI is the slice of the DynamoDB client the ledger needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// entry is the persisted ledger record. TTL is epoch seconds honored by the
// table's time-to-live expiration.
type entry struct {
	EventHash string `dynamodbav:"EventHash"`
	TTL       int64  `dynamodbav:"TTL"`
}

// DynamoLedger enforces single-processing of a content hash via a DynamoDB
// table with TTL-expired entries. Check and commit are deliberately not
// atomic; concurrent invocations may both see "new" and both publish, which
// the at-least-once contract accepts.
type DynamoLedger struct {
	db     DynamoAPI
	table  string
	clock  clock.Clock
	logger *slog.Logger
}

func NewDynamoLedger(db DynamoAPI, table string, clock clock.Clock, logger *slog.Logger) *DynamoLedger {
	return &DynamoLedger{
		db:     db,
		table:  table,
		clock:  clock,
		logger: logger,
	}
}

func (l *DynamoLedger) IsDuplicate(ctx context.Context, hash string) (bool, error) {
	out, err := l.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &l.table,
		Key: map[string]types.AttributeValue{
			hashAttribute: &types.AttributeValueMemberS{Value: hash},
		},
	})
	if err != nil {
		wrapped := infra.WrapInfraErr(l.logger, infra.KindLedgerFailure, "ledger read failed", err)
		return false, errs.Mark(wrapped, errs.ErrLedgerReadFailed)
	}
	return len(out.Item) > 0, nil
}

func (l *DynamoLedger) Commit(ctx context.Context, hash string, retention time.Duration) error {
	item, err := attributevalue.MarshalMap(entry{
		EventHash: hash,
		TTL:       l.clock.Now().Add(retention).Unix(),
	})
	if err != nil {
		return errs.Mark(err, errs.ErrLedgerWriteFailed)
	}

	_, err = l.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &l.table,
		Item:      item,
	})
	if err != nil {
		wrapped := infra.WrapInfraErr(l.logger, infra.KindLedgerFailure, "ledger write failed", err)
		return errs.Mark(wrapped, errs.ErrLedgerWriteFailed)
	}
	return nil
}
