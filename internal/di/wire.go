//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"mealmate/internal/dbmongo"
	"mealmate/internal/dbmysql"
	"mealmate/internal/notif"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		ProvideMySQL,
		ProvideMongo,
		ProvideMessaging,
		dbmysql.NewNotificationRepository,
		dbmysql.NewDeviceRepository,
		dbmysql.NewKitchenRepository,
		dbmongo.NewPreferenceStore,
		notif.NewService,
		notif.NewHTTPHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
