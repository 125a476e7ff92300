package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/controllers"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Department *controllers.DepartmentController
	Faculty    *controllers.FacultyController
	Student    *controllers.StudentController
	User       *controllers.UserController
	SubjectMap *controllers.SubjectMapController
	Question   *controllers.QuestionController
	Template   *controllers.TemplateController
	Window     *controllers.WindowController
	Analytics  *controllers.AnalyticsController
	Feedback   *controllers.FeedbackController
	HOD        *controllers.HODController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	setupAuthRoutes(v1.Group("/auth"), c, authMiddleware)

	admin := v1.Group("/admin", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
	setupAdminRoutes(admin, c)

	hod := v1.Group("/hod", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleHOD))
	{
		hod.GET("/profile", c.User.Profile)
		hod.GET("/dashboard/stats", c.Analytics.HODDashboard)
		hod.GET("/batches", c.HOD.Batches)
		hod.GET("/batch/:admittedYear/students", c.HOD.BatchStudents)
		hod.GET("/subjects", c.HOD.Subjects)
		hod.GET("/faculty", c.HOD.Faculty)
		hod.GET("/subject-mapping", c.SubjectMap.ListMappings)
		hod.POST("/subject-mapping", c.SubjectMap.SaveMapping)
		hod.GET("/feedback-windows", c.Window.ListWindows)
		hod.POST("/feedback-window/publish", c.Window.PublishWindow)
		hod.POST("/feedback-window/draft", c.Window.SaveDraft)
		hod.PATCH("/feedback-window/:id/close", c.Window.CloseWindow)
		hod.GET("/analytics", c.Analytics.WindowAnalytics)
	}

	student := v1.Group("/student", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/profile", c.Feedback.Profile)
		student.GET("/feedback-window", c.Feedback.ActiveWindow)
		student.GET("/subjects", c.Feedback.Subjects)
		student.GET("/feedback-questions", c.Feedback.Questions)
		student.POST("/feedback", c.Feedback.Submit)
		student.GET("/feedback/status/:subjectMapId", c.Feedback.Status)
	}

	setupOversightRoutes(v1.Group("/principal", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RolePrincipal)), c)
	setupOversightRoutes(v1.Group("/vice-principal", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleVicePrincipal)), c)
}

func setupAuthRoutes(auth *gin.RouterGroup, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	auth.POST("/student/login", c.Auth.StudentLogin)
	auth.POST("/student/forgot-password", c.Auth.StudentForgotPassword)
	auth.POST("/refresh", c.Auth.RefreshToken)
	auth.POST("/logout", c.Auth.Logout)
	auth.GET("/verify", c.Auth.Verify)
	auth.POST("/reset-password", c.Auth.ResetPassword)

	staffPaths := map[models.Role]string{
		models.RoleAdmin:         "/admin",
		models.RoleHOD:           "/hod",
		models.RolePrincipal:     "/principal",
		models.RoleVicePrincipal: "/vice-principal",
	}
	for role, path := range staffPaths {
		auth.POST(path+"/login", c.Auth.StaffLogin(role))
		auth.POST(path+"/forgot-password", c.Auth.ForgotPassword)
	}
	auth.POST("/hod/reset-password", c.Auth.ResetPassword)

	for role, path := range staffPaths {
		auth.POST(path+"/change-password", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(role), c.Auth.ChangePassword)
	}
	auth.POST("/student/change-password", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleStudent), c.Auth.ChangePassword)
}

func setupAdminRoutes(admin *gin.RouterGroup, c *Controllers) {
	admin.GET("/profile", c.User.Profile)
	admin.GET("/stats", c.Analytics.Institution)
	admin.GET("/template/:type", c.Template.Download)

	programs := admin.Group("/programs")
	{
		programs.GET("", c.Department.ListPrograms)
		programs.POST("", c.Department.CreateProgram)
		programs.POST("/bulk", c.Department.BulkUploadPrograms)
		programs.PUT("/:id", c.Department.UpdateProgram)
		programs.DELETE("/:id", c.Department.DeleteProgram)
	}

	branches := admin.Group("/branches")
	{
		branches.GET("", c.Department.ListBranches)
		branches.POST("", c.Department.SaveBranch)
		branches.POST("/bulk", c.Department.BulkUploadBranches)
		branches.DELETE("/:id", c.Department.DeleteBranch)
	}

	batches := admin.Group("/batches")
	{
		batches.GET("", c.Department.ListBatches)
		batches.POST("", c.Department.CreateBatch)
		batches.POST("/bulk", c.Department.BulkUploadBatches)
		batches.PUT("/:id", c.Department.UpdateBatch)
		batches.DELETE("/:id", c.Department.DeleteBatch)
	}

	students := admin.Group("/students")
	{
		students.GET("", c.Student.ListStudents)
		students.GET("/:id", c.Student.GetStudent)
		students.POST("", c.Student.CreateStudent)
		students.POST("/bulk", c.Student.BulkUploadStudents)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
	}

	faculty := admin.Group("/faculty")
	{
		faculty.GET("", c.Faculty.ListFaculty)
		faculty.GET("/:id", c.Faculty.GetFaculty)
		faculty.POST("", c.Faculty.CreateFaculty)
		faculty.POST("/bulk", c.Faculty.BulkUploadFaculty)
		faculty.PUT("/:id", c.Faculty.UpdateFaculty)
		faculty.DELETE("/:id", c.Faculty.DeleteFaculty)
	}

	subjects := admin.Group("/subjects")
	{
		subjects.GET("", c.Faculty.ListSubjects)
		subjects.POST("", c.Faculty.CreateSubject)
		subjects.POST("/bulk", c.Faculty.BulkUploadSubjects)
		subjects.PUT("/:id", c.Faculty.UpdateSubject)
		subjects.DELETE("/:id", c.Faculty.DeleteSubject)
	}

	hods := admin.Group("/hods")
	{
		hods.GET("", c.User.ListHODs)
		hods.POST("", c.User.CreateHOD)
		hods.POST("/bulk", c.User.BulkUploadHODs)
		hods.PUT("/:id", c.User.UpdateHOD)
		hods.DELETE("/:id", c.User.DeleteHOD)
	}

	mappings := admin.Group("/subject-mapping")
	{
		mappings.GET("", c.SubjectMap.ListMappings)
		mappings.POST("", c.SubjectMap.SaveMapping)
		mappings.POST("/bulk", c.SubjectMap.BulkUploadMappings)
		mappings.PUT("/:id", c.SubjectMap.UpdateMapping)
		mappings.DELETE("/:id", c.SubjectMap.DeleteMapping)
	}

	admin.GET("/feedback-questions", c.Question.ListQuestions)
	admin.PUT("/feedback-questions", c.Question.ReplaceQuestions)
}

// setupOversightRoutes mounts the institution-wide views shared by the
// principal and vice principal.
func setupOversightRoutes(g *gin.RouterGroup, c *Controllers) {
	g.GET("/profile", c.User.Profile)
	g.GET("/feedback-windows", c.Window.ListWindows)
	g.GET("/analytics", c.Analytics.WindowAnalytics)
	g.GET("/stats", c.Analytics.Institution)
	g.GET("/departments", c.Analytics.Departments)
}
