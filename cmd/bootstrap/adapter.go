package bootstrap

import (
	"log/slog"

	"stay-event-adapter/internal/domain/stay"
	"stay-event-adapter/internal/handler"
	"stay-event-adapter/internal/infra/filesource"
	"stay-event-adapter/internal/infra/ledger"
	"stay-event-adapter/internal/infra/publisher"
	"stay-event-adapter/internal/infra/warehouse"
	"stay-event-adapter/internal/pkg/clock"
	"stay-event-adapter/internal/pkg/config"
	"stay-event-adapter/internal/usecase"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/fx"
)

var AdapterModule = fx.Module("adapter",
	fx.Provide(
		clock.NewRealClock,
		NewEligibilityPolicy,
		NewLedger,
		NewPublisher,
		NewWarehouseSource,
		NewFileSourceFactory,
		NewStayEventUseCase,
		handler.NewStayEventHandler,
	),
)

// NewEligibilityPolicy maps the configured cutoff mode. The default must stay
// inclusive: the warehouse query returns stays departing on the current date,
// and a strict cutoff would reject every one of them.
func NewEligibilityPolicy(cfg config.Config) stay.EligibilityPolicy {
	policy := stay.EligibilityPolicy{Cutoff: stay.DepartedByToday}
	if cfg.Adapter.DepartureCutoff == config.CutoffBeforeToday {
		policy.Cutoff = stay.DepartedBeforeToday
	}
	return policy
}

func NewLedger(db *dynamodb.Client, cfg config.Config, clk clock.Clock, logger *slog.Logger) usecase.Ledger {
	return ledger.NewDynamoLedger(db, cfg.Adapter.LedgerTable, clk, logger)
}

func NewPublisher(client *sns.Client, cfg config.Config, logger *slog.Logger) usecase.EventPublisher {
	return publisher.NewSNSPublisher(client, cfg.Adapter.TopicARN, logger)
}

func NewWarehouseSource(client *secretsmanager.Client, cfg config.Config, logger *slog.Logger) usecase.RowSource {
	return warehouse.NewSource(client, cfg.Adapter.WarehouseSecretARN, logger)
}

func NewFileSourceFactory(client *s3.Client, cfg config.Config, logger *slog.Logger) handler.FileSourceFactory {
	delimiter := []rune(cfg.Adapter.FileDelimiter)[0]
	return func(bucket, key string) usecase.RowSource {
		return filesource.NewCSVSource(client, bucket, key, delimiter, logger)
	}
}

func NewStayEventUseCase(
	ledger usecase.Ledger,
	publisher usecase.EventPublisher,
	policy stay.EligibilityPolicy,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) usecase.StayEventUseCase {
	return usecase.NewStayEventUseCase(ledger, publisher, policy, cfg.Adapter.LedgerRetention, clk, logger)
}
