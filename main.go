package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"surveyimport/collections"
	"surveyimport/config"
	"surveyimport/handlers"
	"surveyimport/services"
	"surveyimport/surveyor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rules, err := services.LoadCategoryRules(cfg.CategoryRulesFile)
	if err != nil {
		log.Fatal(err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(newTransformCmd(cfg, rules))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	client := surveyor.NewClient(cfg)
	importer := services.NewEquipmentImporter(cfg.LaborRate)
	importer.Rules = rules

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.BearerTokenMiddleware())

		// ── System Surveyor API ──────────────────────────────────
		se.Router.POST("/api/system-surveyor/auth", handlers.HandleSurveyorAuth(client))
		se.Router.GET("/api/system-surveyor/sites", handlers.HandleSurveyorSites(client, cfg.SitesConcurrency))
		se.Router.GET("/api/system-surveyor/surveys", handlers.HandleSurveyorSurveys(client))
		se.Router.POST("/api/system-surveyor/import", handlers.HandleSurveyorImport(app, client, cfg))
		se.Router.POST("/api/system-surveyor/transform", handlers.HandleSurveyorTransform(app, cfg))

		// ── Spreadsheet upload ───────────────────────────────────
		se.Router.POST("/api/system-surveyor/upload-excel", handlers.HandleUploadExcel(app, importer, cfg))
		se.Router.POST("/api/system-surveyor/upload-excel/warnings", handlers.HandleUploadWarningReport())
		se.Router.GET("/api/system-surveyor/upload-excel/template", handlers.HandleImportTemplateDownload(rules))

		// ── Stored imports ───────────────────────────────────────
		se.Router.GET("/imports", handlers.HandleImportList(app))
		se.Router.GET("/imports/{id}/export/excel", handlers.HandleImportExportExcel(app))
		se.Router.GET("/imports/{id}/export/pdf", handlers.HandleImportExportPDF(app))
		se.Router.GET("/imports/{id}", handlers.HandleImportView(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/imports")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
