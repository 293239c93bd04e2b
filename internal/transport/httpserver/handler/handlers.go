package handler

import (
	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/pkg/logger"
)

type Handlers struct {
	Fridges *fridgedomain.Service
	log     logger.Logger
}

func New(fridges *fridgedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Fridges: fridges,
		log:     log,
	}
}
