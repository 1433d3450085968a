// Package docs registers the swagger document served under /swagger.
// Keep it in step with the handler annotations (swag init -g cmd/api/main.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/users/register": {
			"post": {
				"summary": "Register a new user",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/login": {
			"post": {
				"summary": "Login",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/refresh-token": {
			"post": {
				"summary": "Refresh the access token",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/logout": {
			"post": {
				"summary": "Logout",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/change-password": {
			"post": {
				"summary": "Change password",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/current-user": {
			"get": {
				"summary": "Current user",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/update-account": {
			"patch": {
				"summary": "Update account details",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/avatar": {
			"patch": {
				"summary": "Update avatar",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/cover-image": {
			"patch": {
				"summary": "Update cover image",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/c/{username}": {
			"get": {
				"summary": "Channel profile",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "username",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/users/history": {
			"get": {
				"summary": "Watch history",
				"tags": [
					"users"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/comments/{videoId}": {
			"get": {
				"summary": "List comments of a video",
				"tags": [
					"comments"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"post": {
				"summary": "Add a comment",
				"tags": [
					"comments"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/comments/c/{commentId}": {
			"get": {
				"summary": "Get a comment",
				"tags": [
					"comments"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "commentId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"patch": {
				"summary": "Update a comment",
				"tags": [
					"comments"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "commentId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a comment",
				"tags": [
					"comments"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "commentId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/tweets": {
			"post": {
				"summary": "Create a tweet",
				"tags": [
					"tweets"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/tweets/user/{userId}": {
			"get": {
				"summary": "List tweets of a user",
				"tags": [
					"tweets"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "userId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/tweets/{tweetId}": {
			"patch": {
				"summary": "Update a tweet",
				"tags": [
					"tweets"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "tweetId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a tweet",
				"tags": [
					"tweets"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "tweetId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/playlist": {
			"post": {
				"summary": "Create a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/playlist/{playlistId}": {
			"get": {
				"summary": "Get a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "playlistId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"patch": {
				"summary": "Update a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "playlistId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "playlistId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/playlist/add/{videoId}/{playlistId}": {
			"patch": {
				"summary": "Add a video to a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "playlistId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/playlist/remove/{videoId}/{playlistId}": {
			"patch": {
				"summary": "Remove a video from a playlist",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "playlistId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/playlist/user/{userId}": {
			"get": {
				"summary": "List playlists of a user",
				"tags": [
					"playlists"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "userId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/videos": {
			"get": {
				"summary": "List videos",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"post": {
				"summary": "Publish a video",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/videos/{videoId}": {
			"get": {
				"summary": "Get a video",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"patch": {
				"summary": "Update a video",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a video",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/videos/toggle/publish/{videoId}": {
			"patch": {
				"summary": "Toggle publish status",
				"tags": [
					"videos"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/likes/toggle/v/{videoId}": {
			"post": {
				"summary": "Toggle like on a video",
				"tags": [
					"likes"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/likes/toggle/c/{commentId}": {
			"post": {
				"summary": "Toggle like on a comment",
				"tags": [
					"likes"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "commentId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/likes/toggle/t/{tweetId}": {
			"post": {
				"summary": "Toggle like on a tweet",
				"tags": [
					"likes"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "tweetId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/likes/videos": {
			"get": {
				"summary": "Videos liked by the current user",
				"tags": [
					"likes"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/likes/v/{videoId}": {
			"get": {
				"summary": "Users who like a video",
				"tags": [
					"likes"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "videoId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/subscriptions/c/{channelId}": {
			"post": {
				"summary": "Toggle subscription",
				"tags": [
					"subscriptions"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "channelId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			},
			"get": {
				"summary": "Channel subscribers",
				"tags": [
					"subscriptions"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "channelId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/subscriptions/u/{subscriberId}": {
			"get": {
				"summary": "Subscribed channels",
				"tags": [
					"subscriptions"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "subscriberId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/dashboard/stats": {
			"get": {
				"summary": "Channel statistics",
				"tags": [
					"dashboard"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/dashboard/videos": {
			"get": {
				"summary": "Channel videos",
				"tags": [
					"dashboard"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/healthcheck": {
			"get": {
				"summary": "Healthcheck",
				"tags": [
					"healthcheck"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"response.Envelope": {
			"type": "object",
			"properties": {
				"data": {},
				"message": {
					"type": "string"
				},
				"status_code": {
					"type": "integer"
				},
				"success": {
					"type": "boolean"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the access token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "vidtube API",
	Description:      "Video sharing backend: sessions, channels, videos, comments, tweets, playlists, likes and subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
