package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los mensajes se muestran tal cual en la interfaz, por eso están en francés.
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrInvalidInput      = errors.New("données invalides")
	ErrDuplicate         = errors.New("ressource en double")
	ErrConflict          = errors.New("conflit avec l'état actuel")
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrInvalidTransition = errors.New("transition de statut invalide")
	// ErrInconsistentState indica que el stock de un artículo no cuadra con su historial de movimientos.
	// Requiere reconciliación manual; nunca se reintenta.
	ErrInconsistentState = errors.New("état incohérent entre stock et historique")
)
