package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gorilla/mux"

	"github.com/driveguard/drowsiness-detection-service/detections"
	"github.com/driveguard/drowsiness-detection-service/models"
)

type AppState struct {
	Config   *Config
	Pipeline *detections.Pipeline
	Engine   *detections.Engine // nil when the model failed to load
}

type DetectionResponse struct {
	Status         string  `json:"status"`
	ProcessingTime float64 `json:"processing_time"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, MsgServiceRunning)
}

func handleDetectVideo(state *AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timings := &models.ProcessingTimings{
			RequestID: fmt.Sprintf("%d", time.Now().UnixNano()),
		}

		file, header, err := r.FormFile("frame")
		if err != nil {
			sendErrorResponse(w, MsgNoFrame, http.StatusBadRequest)
			return
		}
		defer file.Close()

		framePath, err := saveFrame(state.Config.UploadDir, file, header.Filename)
		if err != nil {
			sendErrorResponse(w, MsgFailedReadImage, http.StatusBadRequest)
			return
		}
		log.Printf("Received frame: %s", framePath)

		start := time.Now()

		decodeStart := time.Now()
		frame, err := decodeFrame(framePath)
		timings.ImageDecode = time.Since(decodeStart)
		if err != nil {
			sendErrorResponse(w, MsgFailedReadImage, http.StatusBadRequest)
			return
		}

		verdict, err := state.Pipeline.Predict(frame, timings)
		status := string(verdict.Label)
		if err != nil {
			if !errors.Is(err, detections.ErrModelUnavailable) {
				sendErrorResponse(w, err.Error(), http.StatusInternalServerError)
				return
			}
			status = StatusModelMissing
		}

		timings.Total = time.Since(start)
		logTimings(state.Config, timings)

		sendJSON(w, http.StatusOK, DetectionResponse{
			Status:         status,
			ProcessingTime: roundSeconds(timings.Total),
		})
	}
}

func (s *AppState) addMonitoringRoutes(r *mux.Router) {
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
}

func (s *AppState) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	response := map[string]interface{}{
		"model_loaded": s.Engine != nil,
		"window_fill":  s.Pipeline.Smoother.Len(),
	}
	if s.Engine != nil {
		m := s.Engine.Metrics()
		response["total_inferences"] = m.TotalInferences
		response["inference_failures"] = m.TotalFailures
		response["inference_lock_wait"] = m.LockWait.String()
	}
	sendJSON(w, http.StatusOK, response)
}

func decodeFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// roundSeconds reports a duration as seconds rounded to 4 decimal places.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10000) / 10000
}

func logTimings(cfg *Config, t *models.ProcessingTimings) {
	if !cfg.Debug {
		return
	}
	log.Printf("[DEBUG] RequestID: %s - Processing times:\n"+
		"\tImage Decode: %v\n"+
		"\tLocate:      %v\n"+
		"\tPreprocess:  %v\n"+
		"\tInference:   %v\n"+
		"\tTotal:       %v",
		t.RequestID,
		t.ImageDecode,
		t.Locate,
		t.Preprocess,
		t.Inference,
		t.Total)
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func sendErrorResponse(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, ErrorResponse{Error: message})
}
