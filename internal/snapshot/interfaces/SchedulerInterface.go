package interfaces

import "context"

type SchedulerInterface interface {
	Init()
	Stop()
	SyncNow(ctx context.Context) error
	Persist() error
}
