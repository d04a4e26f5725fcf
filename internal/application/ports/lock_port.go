package ports

import "context"

// Locker adquiere bloqueos exclusivos por clave (tienda + destino de stock).
// Las claves se adquieren en el orden recibido; el llamador las pasa ordenadas
// para evitar interbloqueos. release libera todas las claves obtenidas.
type Locker interface {
	Acquire(ctx context.Context, keys []string) (release func(), err error)
}
