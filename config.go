package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	ModelPath   string
	OrtLibPath  string
	CascadeDir  string
	UploadDir   string
	MinFaceSize int
	Debug       bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Addr:        getEnv("ADDR", "0.0.0.0:5002"),
		ModelPath:   getEnv("MODEL_PATH", "models/drowsiness_model.onnx"),
		OrtLibPath:  getEnv("ORT_SHARED_LIB", defaultLibraryPath()),
		CascadeDir:  getEnv("CASCADE_DIR", "cascades"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MinFaceSize: getEnvInt("MIN_FACE_SIZE", 30),
		Debug:       getEnv("DEBUG", "") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}
