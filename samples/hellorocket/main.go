// Command hellorocket serves "Hello Rocket" on GET / at :8000.
package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const addr = ":8000"

func index(c *gin.Context) {
	c.String(http.StatusOK, "Hello Rocket")
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", index)
	return r
}

func main() {
	if err := newRouter().Run(addr); err != nil {
		log.Fatal(err)
	}
}
