package components

import (
	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/payment"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/ids"
	"tablebook/internal/usecase"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	ids.NewGenerator,
	booking.NewFactory,
	payment.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
		queries.NewAvailabilityQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewPaymentCommands threads the gateway credentials from config into the
// payment use case.
func NewPaymentCommands(
	uow shared.UnitOfWork,
	factory *payment.Factory,
	gw commands.PaymentGateway,
	locker commands.SlotLocker,
	publisher commands.EventPublisher,
	paymentQueries queries.PaymentQueries,
	clk clock.Clock,
	cfg config.Config,
) commands.PaymentCommands {
	return commands.NewPaymentUseCase(
		uow,
		factory,
		gw,
		locker,
		publisher,
		paymentQueries,
		clk,
		cfg.Gateway.Currency,
		cfg.Gateway.VerifySecret,
		cfg.Gateway.WebhookSecret,
	)
}
