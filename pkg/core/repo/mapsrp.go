package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/georef/pkg/core/model"
)

type MapsConnQueryer interface {
	MapsQueryer
}

type MapsTxQueryer interface {
	MapsQueryer
}

type MapsQueryer interface {
	Create(ctx context.Context, mid uuid.UUID, name string, dims model.Dimensions) (*model.MapImage, error)
	Find(ctx context.Context, mid uuid.UUID) (*model.MapImage, error)
	SetCalibration(ctx context.Context, mid uuid.UUID, res model.CalibrationResult) (*model.MapImage, error)
}

type Maps interface {
	Conn(Conn) MapsConnQueryer
	Tx(Tx) MapsTxQueryer
}
