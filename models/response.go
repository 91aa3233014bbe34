package models

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Operation completed"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total" example:"42"`
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
}

type PagedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

type LoginData struct {
	Token        string `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	ExpiresAt    string `json:"expires_at" example:"2024-01-02T15:04:05Z"`
	UserID       string `json:"user_id" example:"507f1f77bcf86cd799439011"`
	EmployeeID   string `json:"employee_id" example:"EMP0001"`
	Role         string `json:"role" example:"employee"`
	IsFirstLogin bool   `json:"is_first_login" example:"true"`
}

type ErrorEnvelope struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid request body"`
	Error   string `json:"error,omitempty" example:"unexpected end of JSON input"`
}

type ValidationErrorEnvelope struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Validation failed"`
	Errors  []struct {
		Field   string `json:"field" example:"email"`
		Tag     string `json:"tag" example:"required"`
		Message string `json:"message" example:"Field 'email' is required."`
	} `json:"errors"`
}
