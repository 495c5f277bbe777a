package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los detalles se agregan con fmt.Errorf("%w: ...", ErrX); los llamadores comparan con errors.Is.
var (
	ErrValidation        = errors.New("datos inválidos")
	ErrInvalidInput      = ErrValidation
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConstraint        = errors.New("restricción de unicidad violada")
	ErrDuplicate         = ErrConstraint
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	// ErrCacheInvalidation indica que el movimiento quedó registrado pero la caché de stock no pudo invalidarse.
	ErrCacheInvalidation = errors.New("no se pudo invalidar la caché de stock")
)
