package importer

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// SheetReader lee las hojas de importación. Las filas vienen numeradas como en el archivo.
type SheetReader interface {
	ReadProducts(r io.Reader) ([]dto.ProductImportRow, error)
	ReadMovements(r io.Reader) ([]dto.MovementImportRow, error)
}

// Lock garantiza una sola importación masiva a la vez. Obtain devuelve domain.ErrConflict
// si otra importación tiene el lock.
type Lock interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
