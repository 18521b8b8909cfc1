package handler

import (
	"net/http"
	"sync"

	"lodge/config"
	"lodge/di"
	"lodge/shared/logger"
	lodgeHTTP "lodge/transport/http"
)

var (
	server *lodgeHTTP.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The service graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
