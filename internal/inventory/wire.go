package inventory

import (
	"go.uber.org/zap"

	"estoque/internal/adapter"
)

func NewModule(backend adapter.Adapter, opts PersistOptions, logger *zap.Logger) (*Store, *Controller) {
	store := NewStore(backend, logger, opts)
	return store, NewController(store, logger)
}
