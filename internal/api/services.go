package api

import (
	"github.com/talenttrackapp/talenttrack-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth         *service.AuthService
	User         *service.UserService
	Candidate    *service.CandidateService
	Note         *service.NoteService
	Notification *service.NotificationService
	Search       *service.SearchService
}
