package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"chatwithme/internal/api"
	"chatwithme/internal/ws"
)

type APIServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

func NewAPIServer(apiHandlers *api.API, wsServer *ws.Server, addr string) *APIServer {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/create", apiHandlers.CreateUserHandler)
	mux.HandleFunc("GET /users", apiHandlers.ListUsersHandler)
	mux.HandleFunc("GET /users/{id}", apiHandlers.GetUserHandler)
	mux.HandleFunc("GET /users/{id}/contacts", apiHandlers.ContactsHandler)
	mux.HandleFunc("POST /users/{id}/avatar", apiHandlers.UploadAvatarHandler)
	mux.HandleFunc("POST /users/{id}/push-subscription", apiHandlers.SubscribeHandler)
	mux.HandleFunc("GET /avatars/{hash}", apiHandlers.GetAvatarHandler)

	mux.HandleFunc("POST /messages/send", apiHandlers.SendMessageHandler)
	mux.HandleFunc("GET /messages/public", apiHandlers.PublicMessagesHandler)

	mux.HandleFunc("GET /activities", apiHandlers.ActivitiesHandler)
	mux.HandleFunc("POST /activities/invite", apiHandlers.InviteHandler)
	mux.HandleFunc("POST /activities/invitations/{id}/respond", apiHandlers.RespondHandler)

	// WebSocket endpoint
	mux.HandleFunc("GET /ws/{user}", wsServer.HandleConnection)

	if addr == "" {
		addr = ":8080"
	}

	return &APIServer{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

func (s *APIServer) Start() error {
	log.Printf("Server started on %s", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
