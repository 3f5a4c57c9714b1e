package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Motor de inventario.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInsufficientValidStock = errors.New("stock vigente insuficiente: hay lotes vencidos pendientes de baja")
	ErrInventoryLocked        = errors.New("inventario bloqueado: conteo físico en curso")
	ErrAlreadyFinalized       = errors.New("el conteo ya fue conciliado")
	ErrTransient              = errors.New("conflicto transitorio de concurrencia, reintentar")
)
