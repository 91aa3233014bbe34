// Package docs registers the OpenAPI document served at /docs.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {},
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth"},
        {"name": "Users"},
        {"name": "Organizations"},
        {"name": "Departments"},
        {"name": "Work Schedules"},
        {"name": "Attendance"},
        {"name": "Leave Requests"},
        {"name": "Tasks"},
        {"name": "Performance"},
        {"name": "KRA"},
        {"name": "Company Growth"},
        {"name": "Increments"},
        {"name": "Incentives"},
        {"name": "Payroll"},
        {"name": "Recruitment"},
        {"name": "Mail"},
        {"name": "Reports"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "HRMS API",
	Description:      "HR management API: employees, attendance, leave, payroll, performance, increments and recruitment.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
