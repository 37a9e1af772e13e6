package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// envelope is the JSON shape every endpoint responds with. Data and
// error are mutually exclusive; pagination rides along on list
// endpoints only.
type envelope struct {
	Data       interface{} `json:"data"`
	Error      *errBody    `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   meta        `json:"metadata"`
}

type errBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination holds page counts for list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// NewPagination computes page counts for a result set.
func NewPagination(page, perPage, totalItems int) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Success sends data with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	write(c, statusCode, envelope{Data: data})
}

// SuccessWithPagination sends data plus pagination counts.
func SuccessWithPagination(c *gin.Context, statusCode int, data interface{}, pagination *Pagination) {
	write(c, statusCode, envelope{Data: data, Pagination: pagination})
}

// Fail sends an error code with its canned message.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	write(c, statusCode, envelope{Error: &errBody{Code: code, Message: GetMessage(code)}})
}

// FailWithFields sends an error code with field-level validation detail.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	write(c, statusCode, envelope{Error: &errBody{Code: code, Message: GetMessage(code), Fields: fields}})
}

// AbortFail stops the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.Abort()
	write(c, statusCode, envelope{Error: &errBody{Code: code, Message: GetMessage(code)}})
}

func write(c *gin.Context, statusCode int, env envelope) {
	env.Metadata = meta{
		RequestID: requestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	c.JSON(statusCode, env)
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get(ContextKeyRequestID); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	// Middleware not applied (tests hitting a bare handler).
	return uuid.NewString()
}
