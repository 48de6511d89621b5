package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Crew Scheduler Assistant",
    "description": "Crew schedules, dashboard and chat assistant for airline crew",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
    "/api/status": {"get": {"tags": ["health"], "summary": "Data and chatbot status", "responses": {"200": {"description": "OK"}}}},
    "/api/login": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
    "/api/logout": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}},
    "/api/me": {"get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
    "/api/dashboard": {"get": {"tags": ["dashboard"], "summary": "Dashboard", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
    "/api/chat": {"post": {"tags": ["chat"], "summary": "Chat with the crew assistant", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
    "/api/admin/reload": {"post": {"tags": ["admin"], "summary": "Reload the data snapshot", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "500": {"description": "Internal Server Error"}}}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
