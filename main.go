package main

import (
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/server"

	_ "github.com/legacy-sukawarna/rsvp-app/docs" // Swagger docs
)

// @title RSVP API
// @version 1.0
// @description Backend for event pages with capacity-guarded RSVPs
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rsvp-app.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
