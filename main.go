package main

import (
	"interviewhub/core/logger"
	"interviewhub/core/server"
)

// @title InterviewHub API
// @version 1.0
// @description Backend for interview scheduling: requests, assignment, mutual confirmation and notifications.

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
