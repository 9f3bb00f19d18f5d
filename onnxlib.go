package main

import (
	"os"
	"path/filepath"
	"runtime"
)

// defaultLibraryPath locates the ONNX Runtime shared library when
// ORT_SHARED_LIB is not set. The library name depends on the OS; the
// search covers the conventional install locations plus a local lib dir.
func defaultLibraryPath() string {
	libName := "libonnxruntime.so"
	switch runtime.GOOS {
	case "darwin":
		libName = "libonnxruntime.dylib"
	case "windows":
		libName = "onnxruntime.dll"
	}

	for _, dir := range []string{"lib", "/usr/local/lib", "/usr/lib"} {
		candidate := filepath.Join(dir, libName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Fall back to the bare name and let the dynamic loader resolve it.
	return libName
}
