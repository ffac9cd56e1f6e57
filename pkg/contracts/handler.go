package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's HTTP handler.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
