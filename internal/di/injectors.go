//go:build wireinject
// +build wireinject

package di

import (
	"agd/internal"
	"agd/internal/controllers"
	"agd/internal/providers"
	"agd/internal/services"
	"agd/internal/snapshot"
	"agd/internal/source"
	"agd/internal/structures"

	wire "github.com/google/wire"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	source.NewSourceProvider,
	snapshot.NewZstdCompressor,
	snapshot.NewFileManager,
	snapshot.NewPersisterProvider,
	services.NewGameDataServiceProvider,
	snapshot.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		providers.NewInstrumentedCacheProvider,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitSyncRunner(cfg *structures.CliFlags) (*internal.SyncRunner, error) {

	wire.Build(
		coreSet,
		internal.NewSyncRunner,
	)

	return nil, nil
}
