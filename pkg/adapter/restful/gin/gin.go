// Package gin wraps the gin-gonic engine instantiation, so other
// adapter packages may refer to this package instead of depending on
// the framework import path directly.
package gin

import "github.com/gin-gonic/gin"

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates a gin engine with the given middlewares, without
// the default logger and recovery middlewares.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
