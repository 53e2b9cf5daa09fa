package apidocs

import (
	"github.com/getkin/kin-openapi/openapi3"
	"net/http"
	"strconv"
)

const (
	schemaRefPrefix = "#/components/schemas/"

	securityBearer = "bearerAuth"
	securityCookie = "cookieAuth"
)

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(schemaRefPrefix+name, nil)
}

func jsonResponse(description, schema string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(ref(schema)),
	}
}

func operation(id, summary string, responses map[int]*openapi3.ResponseRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponsesWithCapacity(len(responses))
	for status, res := range responses {
		op.Responses.Set(strconv.Itoa(status), res)
	}
	return op
}

func authenticated(op *openapi3.Operation) *openapi3.Operation {
	op.Security = openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate(securityCookie)).
		With(openapi3.NewSecurityRequirement().Authenticate(securityBearer))
	return op
}

func withID(op *openapi3.Operation) *openapi3.Operation {
	op.AddParameter(openapi3.NewPathParameter("id").
		WithDescription("User id").
		WithSchema(openapi3.NewIntegerSchema().WithMin(1)))
	return op
}

func withBody(op *openapi3.Operation, schema string) *openapi3.Operation {
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref(schema)),
	}
	return op
}

func components() openapi3.Components {
	c := openapi3.NewComponents()

	role := openapi3.NewStringSchema().WithEnum("user", "admin")

	c.Schemas = openapi3.Schemas{
		"User": openapi3.NewObjectSchema().
			WithProperty("id", openapi3.NewIntegerSchema()).
			WithProperty("name", openapi3.NewStringSchema()).
			WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
			WithProperty("role", role).
			WithProperty("created_at", openapi3.NewDateTimeSchema()).
			WithProperty("updated_at", openapi3.NewDateTimeSchema()).
			NewRef(),
		"SignupRequest": openapi3.NewObjectSchema().
			WithProperty("name", openapi3.NewStringSchema().WithMinLength(2).WithMaxLength(255)).
			WithProperty("email", openapi3.NewStringSchema().WithFormat("email").WithMaxLength(255)).
			WithProperty("password", openapi3.NewStringSchema().WithMinLength(6).WithMaxLength(72)).
			WithProperty("role", role).
			WithRequired([]string{"name", "email", "password"}).
			NewRef(),
		"SigninRequest": openapi3.NewObjectSchema().
			WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
			WithProperty("password", openapi3.NewStringSchema()).
			WithRequired([]string{"email", "password"}).
			NewRef(),
		"UpdateRequest": openapi3.NewObjectSchema().
			WithProperty("name", openapi3.NewStringSchema().WithMinLength(2).WithMaxLength(255)).
			WithProperty("email", openapi3.NewStringSchema().WithFormat("email").WithMaxLength(255)).
			WithProperty("password", openapi3.NewStringSchema().WithMinLength(6).WithMaxLength(72)).
			WithProperty("role", role).
			NewRef(),
		"RoleRequest": openapi3.NewObjectSchema().
			WithProperty("role", role).
			WithRequired([]string{"role"}).
			NewRef(),
		"Message": openapi3.NewObjectSchema().
			WithProperty("message", openapi3.NewStringSchema()).
			NewRef(),
		"UserMessage": openapi3.NewObjectSchema().
			WithProperty("message", openapi3.NewStringSchema()).
			WithPropertyRef("user", ref("User")).
			NewRef(),
		"UserList": openapi3.NewObjectSchema().
			WithProperty("message", openapi3.NewStringSchema()).
			WithProperty("users", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema())).
			WithProperty("count", openapi3.NewIntegerSchema()).
			WithProperty("page_max", openapi3.NewInt64Schema()).
			NewRef(),
		"Health": openapi3.NewObjectSchema().
			WithProperty("status", openapi3.NewStringSchema()).
			WithProperty("timestamp", openapi3.NewDateTimeSchema()).
			WithProperty("uptime", openapi3.NewFloat64Schema()).
			NewRef(),
		"Error": openapi3.NewObjectSchema().
			WithProperty("error", openapi3.NewStringSchema()).
			WithProperty("details", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
			WithRequired([]string{"error"}).
			NewRef(),
	}

	c.SecuritySchemes = openapi3.SecuritySchemes{
		securityBearer: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
		securityCookie: &openapi3.SecuritySchemeRef{Value: &openapi3.SecurityScheme{
			Type: "apiKey",
			In:   "cookie",
			Name: "token",
		}},
	}

	return c
}

// Spec 描述全部 HTTP 接口
func Spec() *openapi3.T {
	errRes := func(description string) *openapi3.ResponseRef {
		return jsonResponse(description, "Error")
	}

	list := authenticated(operation("listUsers", "List users", map[int]*openapi3.ResponseRef{
		http.StatusOK:           jsonResponse("Users", "UserList"),
		http.StatusBadRequest:   errRes("Invalid pagination"),
		http.StatusUnauthorized: errRes("Missing or invalid token"),
	}))
	list.AddParameter(openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema().WithMin(0)))
	list.AddParameter(openapi3.NewQueryParameter("limit").WithSchema(openapi3.NewIntegerSchema().WithMin(0)))

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Acquisitions API",
			Version: "1.0.0",
		},
		Components: ptr(components()),
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/", &openapi3.PathItem{
				Get: operation("root", "Greeting", map[int]*openapi3.ResponseRef{
					http.StatusOK: {Value: openapi3.NewResponse().WithDescription("Greeting").WithJSONSchema(openapi3.NewStringSchema())},
				}),
			}),
			openapi3.WithPath("/health", &openapi3.PathItem{
				Get: operation("health", "Health check", map[int]*openapi3.ResponseRef{
					http.StatusOK: jsonResponse("Service is up", "Health"),
				}),
			}),
			openapi3.WithPath("/api", &openapi3.PathItem{
				Get: operation("apiInfo", "API information", map[int]*openapi3.ResponseRef{
					http.StatusOK: jsonResponse("API is running", "Message"),
				}),
			}),
			openapi3.WithPath("/api/auth/signup", &openapi3.PathItem{
				Post: withBody(operation("signup", "Register a new user", map[int]*openapi3.ResponseRef{
					http.StatusCreated:    jsonResponse("User registered, token cookie set", "UserMessage"),
					http.StatusBadRequest: errRes("Validation failed"),
					http.StatusConflict:   errRes("Email already registered"),
				}), "SignupRequest"),
			}),
			openapi3.WithPath("/api/auth/signin", &openapi3.PathItem{
				Post: withBody(operation("signin", "Sign in", map[int]*openapi3.ResponseRef{
					http.StatusOK:           jsonResponse("Signed in, token cookie set", "UserMessage"),
					http.StatusBadRequest:   errRes("Validation failed"),
					http.StatusUnauthorized: errRes("Invalid credentials"),
					http.StatusNotFound:     errRes("User not found"),
				}), "SigninRequest"),
			}),
			openapi3.WithPath("/api/auth/signout", &openapi3.PathItem{
				Post: operation("signout", "Clear the token cookie", map[int]*openapi3.ResponseRef{
					http.StatusOK: jsonResponse("Signed out", "Message"),
				}),
			}),
			openapi3.WithPath("/api/users", &openapi3.PathItem{
				Get: list,
			}),
			openapi3.WithPath("/api/users/{id}", &openapi3.PathItem{
				Get: withID(authenticated(operation("getUser", "Get a user (self or admin)", map[int]*openapi3.ResponseRef{
					http.StatusOK:           jsonResponse("User", "UserMessage"),
					http.StatusBadRequest:   errRes("Invalid id"),
					http.StatusUnauthorized: errRes("Missing or invalid token"),
					http.StatusForbidden:    errRes("Not self or admin"),
					http.StatusNotFound:     errRes("User not found"),
				}))),
				Put: withBody(withID(authenticated(operation("updateUser", "Update a user", map[int]*openapi3.ResponseRef{
					http.StatusOK:           jsonResponse("Updated user", "UserMessage"),
					http.StatusBadRequest:   errRes("Validation failed"),
					http.StatusUnauthorized: errRes("Missing or invalid token"),
					http.StatusForbidden:    errRes("Role change or foreign update by non-admin"),
					http.StatusNotFound:     errRes("User not found"),
					http.StatusConflict:     errRes("Email already exists"),
				}))), "UpdateRequest"),
				Delete: withID(authenticated(operation("deleteUser", "Delete a user (self or admin)", map[int]*openapi3.ResponseRef{
					http.StatusOK:           jsonResponse("Deleted user snapshot", "UserMessage"),
					http.StatusBadRequest:   errRes("Invalid id"),
					http.StatusUnauthorized: errRes("Missing or invalid token"),
					http.StatusForbidden:    errRes("Not self or admin"),
					http.StatusNotFound:     errRes("User not found"),
				}))),
			}),
			openapi3.WithPath("/api/users/{id}/role", &openapi3.PathItem{
				Patch: withBody(withID(authenticated(operation("changeRole", "Change a user's role (admin only)", map[int]*openapi3.ResponseRef{
					http.StatusOK:           jsonResponse("Updated user", "UserMessage"),
					http.StatusBadRequest:   errRes("Validation failed"),
					http.StatusUnauthorized: errRes("Missing or invalid token"),
					http.StatusForbidden:    errRes("Admin privileges required"),
					http.StatusNotFound:     errRes("User not found"),
				}))), "RoleRequest"),
			}),
		),
	}
}

func ptr[T any](v T) *T {
	return &v
}
