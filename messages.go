package main

const (
	MsgServiceRunning = "Drowsiness detection backend is running!"

	MsgNoFrame         = "No video frame provided"
	MsgFailedReadImage = "Failed to read image"

	// StatusModelMissing is returned in place of a label while the
	// service runs without a loaded classifier.
	StatusModelMissing = "Model not loaded"
)
