package di

import (
	"context"

	"mealmate/internal/config"
	"mealmate/internal/dbmongo"
	"mealmate/internal/dbmysql"
	"mealmate/internal/notif"

	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

type Application struct {
	Config  *config.Config
	DB      *gorm.DB
	Mongo   *dbmongo.MongoClient
	Service *notif.Service
	Handler *notif.HTTPHandler
}

func ProvideConfig() *config.Config {
	return config.LoadConfig()
}

func ProvideMySQL(cfg *config.Config) (*gorm.DB, error) {
	return dbmysql.NewMySQL(cfg)
}

func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, error) {
	return dbmongo.NewMongoConnection(cfg)
}

func ProvideMessaging(cfg *config.Config) (*messaging.Client, error) {
	return notif.NewMessagingClient(context.Background(), cfg)
}
