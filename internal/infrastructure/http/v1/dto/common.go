// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// SuccessResponse is a simple success message.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DateQuery binds a single ?date= parameter (YYYY-MM-DD).
type DateQuery struct {
	Date string `form:"date" binding:"required"`
}

// RangeQuery binds an inclusive ?from=&to= date range (YYYY-MM-DD).
type RangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// MonthQuery binds a ?month= parameter (YYYY-MM).
type MonthQuery struct {
	Month string `form:"month" binding:"required"`
}

// YearQuery binds a ?year= parameter.
type YearQuery struct {
	Year int `form:"year" binding:"required,min=2000,max=2100"`
}
