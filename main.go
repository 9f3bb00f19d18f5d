package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/driveguard/drowsiness-detection-service/detections"
	"github.com/driveguard/drowsiness-detection-service/models"
)

// defaultInputShape is only used when the service runs without a loaded
// model; with a model present the declared shape from the artifact wins.
var defaultInputShape = models.InputShape{Height: 24, Width: 24, Channels: 3}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := LoadConfig()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	ort.SetSharedLibraryPath(cfg.OrtLibPath)
	if err := ort.InitializeEnvironment(); err != nil {
		log.Fatalf("Failed to initialize ONNX environment: %v", err)
	}
	defer ort.DestroyEnvironment()

	// A missing or corrupt model leaves the service in degraded mode:
	// detect requests answer "Model not loaded" instead of crashing.
	var engine *detections.Engine
	shape := defaultInputShape
	if e, err := detections.NewEngine(cfg.ModelPath); err != nil {
		log.Printf("Error loading model: %v", err)
	} else {
		engine = e
		shape = e.Shape()
		defer engine.Destroy()
		log.Printf("Model loaded successfully. Expected shape: [1 %d %d %d]",
			shape.Height, shape.Width, shape.Channels)
	}

	locator, err := detections.NewCascadeLocator(cfg.CascadeDir, shape, cfg.MinFaceSize)
	if err != nil {
		log.Fatalf("Failed to load detection cascades: %v", err)
	}

	pipeline := &detections.Pipeline{
		Locator:  locator,
		Smoother: detections.NewSmoothingWindow(detections.SmoothingWindowSize),
		Shape:    shape,
	}
	if engine != nil {
		pipeline.Engine = engine
	}

	state := &AppState{
		Config:   cfg,
		Pipeline: pipeline,
		Engine:   engine,
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	r := mux.NewRouter()
	r.HandleFunc("/", handleHome).Methods(http.MethodGet)
	r.Handle("/detect-video", cors(handleDetectVideo(state))).Methods(http.MethodPost, http.MethodOptions)
	state.addMonitoringRoutes(r)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", srv.Addr)
	log.Fatal(srv.ListenAndServe())
}
