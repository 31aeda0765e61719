package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/middleware"
	"github.com/paysutra/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	ruleHandler RuleHandler,
	payrollHandler PayrollHandler,
	declarationHandler DeclarationHandler,
	statutoryHandler StatutoryHandler,
	salaryHandler SalaryHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paysutra-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			// Employee self-service: investment declarations
			r.Route("/declarations", func(r chi.Router) {
				r.Post("/", declarationHandler.Create)
				r.Get("/{id}", declarationHandler.Get)
				r.Put("/{id}", declarationHandler.Update)
				r.Post("/{id}/transition", declarationHandler.Transition)
				r.Get("/{id}/history", declarationHandler.History)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/rules", func(r chi.Router) {
					r.Post("/", ruleHandler.CreateRule)
					r.Get("/", ruleHandler.ListRules)
					r.Post("/dry-run", ruleHandler.DryRun)

					r.Route("/variables", func(r chi.Router) {
						r.Post("/", ruleHandler.CreateVariable)
						r.Get("/", ruleHandler.ListVariables)
					})

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", ruleHandler.GetRule)
						r.Put("/", ruleHandler.UpdateRule)
						r.Delete("/", ruleHandler.DeactivateRule)
					})
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Route("/runs", func(r chi.Router) {
						r.Post("/", payrollHandler.GenerateRun)
						r.Get("/{id}", payrollHandler.GetRun)
						r.Post("/{id}/finalize", payrollHandler.FinalizeRun)
					})

					r.Route("/transactions", func(r chi.Router) {
						r.Get("/", payrollHandler.ListTransactions)
						r.Get("/{id}", payrollHandler.GetTransaction)
						r.Post("/{id}/finalize", payrollHandler.FinalizeTransaction)
						r.Post("/{id}/tds-override", payrollHandler.OverrideTds)
					})
				})

				r.Route("/statutory", func(r chi.Router) {
					r.Get("/pf", statutoryHandler.GetPfConfig)
					r.Put("/pf", statutoryHandler.UpdatePfConfig)
					r.Get("/esi", statutoryHandler.GetEsiConfig)
					r.Put("/esi", statutoryHandler.UpdateEsiConfig)
					r.Post("/pt-slabs", statutoryHandler.CreatePtSlab)
					r.Get("/pt-slabs", statutoryHandler.ListPtSlabs)
					r.Get("/tax-schedules", statutoryHandler.GetTaxSchedule)
					r.Put("/tax-schedules", statutoryHandler.UpsertTaxSchedule)
				})

				r.Route("/salary", func(r chi.Router) {
					r.Route("/components", func(r chi.Router) {
						r.Post("/", salaryHandler.CreateComponent)
						r.Get("/", salaryHandler.ListComponents)
						r.Put("/{id}", salaryHandler.UpdateComponent)
					})
					r.Post("/structures", salaryHandler.CreateStructure)
				})
			})
		})
	})
	return r
}
