package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// traceParams are the path parameters copied onto the New Relic transaction.
var traceParams = []string{"id", "userId"}

// NewRelicAttributes names the transaction after the route and tags it with
// the order, driver or user it concerns. It must run after nrgin.Middleware.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if route := c.FullPath(); route != "" {
			txn.SetName(c.Request.Method + " " + route)
			txn.AddAttribute("route", route)
		}
		for _, p := range traceParams {
			if v := c.Param(p); v != "" {
				txn.AddAttribute("param."+p, v)
			}
		}

		c.Next()

		// Record error if present.
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
