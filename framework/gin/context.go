package devauthgin

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ginContextKey struct{}

func withGinContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), ginContextKey{}, c)
}

func ginContextFrom(ctx context.Context) (*gin.Context, bool) {
	c, ok := ctx.Value(ginContextKey{}).(*gin.Context)
	return c, ok && c != nil
}
