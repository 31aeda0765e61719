package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/paysutra/payroll-backend-go/internal/config"
	appHTTP "github.com/paysutra/payroll-backend-go/internal/handler/http"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
	"github.com/paysutra/payroll-backend-go/internal/pkg/jwt"
	"github.com/paysutra/payroll-backend-go/internal/repository/postgresql"
	declarationService "github.com/paysutra/payroll-backend-go/internal/service/declaration"
	payrollService "github.com/paysutra/payroll-backend-go/internal/service/payroll"
	"github.com/paysutra/payroll-backend-go/internal/service/ruleengine"
	rulesService "github.com/paysutra/payroll-backend-go/internal/service/rules"
	salaryService "github.com/paysutra/payroll-backend-go/internal/service/salary"
	statutoryService "github.com/paysutra/payroll-backend-go/internal/service/statutory"
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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "paysutra-payroll"),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	ruleRepo := postgresql.NewRuleRepository(db)
	statutoryRepo := postgresql.NewStatutoryRepository(db)
	taxRepo := postgresql.NewTaxRepository(db)
	declarationRepo := postgresql.NewDeclarationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	ruleSvc := rulesService.NewRuleService(db, ruleRepo, ruleengine.NewEngine())
	declarationSvc := declarationService.NewDeclarationService(db, declarationRepo)
	statutorySvc := statutoryService.NewStatutoryService(statutoryRepo, taxRepo)
	salarySvc := salaryService.NewSalaryService(salaryRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		salaryRepo,
		ruleRepo,
		statutoryRepo,
		taxRepo,
		declarationRepo,
		logger,
	)

	ruleHandler := appHTTP.NewRuleHandler(ruleSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	declarationHandler := appHTTP.NewDeclarationHandler(declarationSvc)
	statutoryHandler := appHTTP.NewStatutoryHandler(statutorySvc)
	salaryHandler := appHTTP.NewSalaryHandler(salarySvc)

	router := appHTTP.NewRouter(
		JWTService,
		ruleHandler,
		payrollHandler,
		declarationHandler,
		statutoryHandler,
		salaryHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
