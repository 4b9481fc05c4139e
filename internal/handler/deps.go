package handler

import (
	"roomrelay/internal/app/chat"
	"roomrelay/internal/app/user"
	"roomrelay/internal/configs"
)

// AppDeps carries the long-lived services the HTTP layer needs.
type AppDeps struct {
	Relay   *chat.Relay
	Manager *chat.Manager
	Users   *user.Directory
	Config  *configs.AppConfig
}
