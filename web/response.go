// ABOUTME: JSON response envelope for the web API
// ABOUTME: Code 0 means success, -1 carries an error message
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: -1, Msg: msg})
}
