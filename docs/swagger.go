package docs

import "github.com/swaggo/swag"

// @title           MiniTrello API
// @version         1.0
// @description     Boards with ordered lists of ordered cards, shared among users with role-based access control.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and login

// @tag.name Boards
// @tag.description Board management operations

// @tag.name Lists
// @tag.description List management and reordering

// @tag.name Cards
// @tag.description Card management, moves and assignees

// @tag.name Members
// @tag.description Board membership and roles

// @tag.name Invitations
// @tag.description Invitation lifecycle

// Register swagger info
func SwaggerInfo() *swag.Spec {
	spec, _ := swag.GetSwagger(swag.Name).(*swag.Spec)
	return spec
}
