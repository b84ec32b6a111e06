package storage

import "ethflowScope/internal/model"

// Storage defines a sink for decoded order placements.
type Storage interface {
	PutOrderBatch(orders []model.OrderRecord) error
}
