package main

import (
	"fmt"
	"net/http"

	"github.com/clinixa-his/attendance-engine-go/internal/config"
	appHTTP "github.com/clinixa-his/attendance-engine-go/internal/handler/http"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/jwt"
	"github.com/clinixa-his/attendance-engine-go/internal/repository/postgresql"
	attendanceService "github.com/clinixa-his/attendance-engine-go/internal/service/attendance"
	serviceAuth "github.com/clinixa-his/attendance-engine-go/internal/service/auth"
	exceptionService "github.com/clinixa-his/attendance-engine-go/internal/service/exception"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	transactionRepo := postgresql.NewTransactionRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	exceptionRepo := postgresql.NewExceptionRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authService := serviceAuth.NewAuthService(db, userRepo, JWTService)
	processService := attendanceService.NewProcessService(
		db,
		transactionRepo,
		summaryRepo,
		employeeRepo,
		leaveRequestRepo,
	)
	excService := exceptionService.NewExceptionService(
		db,
		exceptionRepo,
		transactionRepo,
		employeeRepo,
	)

	authHandler := appHTTP.NewAuthHandler(authService)
	attendanceHandler := appHTTP.NewAttendanceHandler(processService)
	exceptionHandler := appHTTP.NewExceptionHandler(excService)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		attendanceHandler,
		exceptionHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
