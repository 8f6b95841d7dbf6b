package client

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"

	"go.uber.org/zap"

	"cardiorisk/ml"
)

//go:embed templates/index.html
var templateFS embed.FS

// API is the part of the model service the web form needs.
type API interface {
	Predictor
	Metrics(ctx context.Context) (*ml.Metrics, error)
}

// App is the operator-facing form.
type App struct {
	api    API
	assets *AssetStore
	tmpl   *template.Template
	logger *zap.Logger
}

type pageData struct {
	Form          Form
	GenderOptions []string
	LevelOptions  []string
	YesNoOptions  []string
	Result        *Result
	Metrics       *ml.Metrics
	Charts        []Chart
}

func NewApp(api API, assets *AssetStore, logger *zap.Logger) (*App, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return printer.Sprintf("%.2f%%", *v*100)
		},
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &App{api: api, assets: assets, tmpl: tmpl, logger: logger}, nil
}

func (a *App) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleForm)
	mux.HandleFunc("POST /{$}", a.handleSubmit)
	mux.HandleFunc("GET /assets/{name}", a.handleAsset)
}

func (a *App) handleForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, DefaultForm(), nil)
}

func (a *App) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form, err := ParseForm(r.PostForm)
	if err != nil {
		a.render(w, r, form, &Result{Alert: "Please correct the highlighted values.", Errors: flatten(err)})
		return
	}

	result := Submit(r.Context(), a.api, form)
	if result.Alert != "" {
		a.logger.Info("submission not scored", zap.String("alert", result.Alert), zap.Strings("errors", result.Errors))
	}
	a.render(w, r, form, &result)
}

func (a *App) handleAsset(w http.ResponseWriter, r *http.Request) {
	data, err := a.assets.Get(r.PathValue("name"))
	if errors.Is(err, ErrUnknownAsset) || errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		a.logger.Error("failed to read asset", zap.String("name", r.PathValue("name")), zap.Error(err))
		http.Error(w, "asset unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, form Form, result *Result) {
	data := pageData{
		Form:          form,
		GenderOptions: GenderOptions,
		LevelOptions:  LevelOptions,
		YesNoOptions:  YesNoOptions,
		Result:        result,
		Charts:        PerformanceCharts,
	}
	if metrics, err := a.api.Metrics(r.Context()); err == nil {
		data.Metrics = metrics
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render page", zap.Error(err))
	}
}
