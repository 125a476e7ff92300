package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yigit/campusfeedback/docs"
)

// SetupSwagger serves the UI at /swagger/index.html. The bearer token entered
// in the UI survives page reloads.
func SetupSwagger(router *gin.Engine) {
	handler := ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
		ginSwagger.DocExpansion("none"),
	)
	router.GET("/swagger/*any", handler)
}
