package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/desertthunder/moodlist/internal/repositories"
	"github.com/desertthunder/moodlist/internal/server"
	"github.com/desertthunder/moodlist/internal/session"
	"github.com/urfave/cli/v3"
)

// Serve runs the chat HTTP API until the process is stopped.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := int(cmd.Int("port"))
	if port == 0 {
		port = r.config.Server.Port
	}

	var recorder session.Recorder
	if !cmd.Bool("no-history") {
		db, err := r.openDatabase()
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			defer db.Close()
			recorder = repositories.NewRunRepository(db)
		}
	}

	controller, err := r.newController(recorder)
	if err != nil {
		return err
	}

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewChatHandler(controller, r.logger))
	router.Handler(&server.HealthHandler{})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	r.logger.Info("serving chat API", "addr", addr, "session", controller.ID())
	r.writePlain("Listening on http://%s\n", addr)
	r.writePlain("POST /chat with {\"text\": \"...\", \"consent\": true}\n")

	return httpServer.ListenAndServe()
}
