package Storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImagesDir returns the directory evidence images are stored in
func ImagesDir() string {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, "images")
}

// SaveBase64Image decodes a base64 or data-URL image payload, writes it to the
// images directory and returns the stored filename. The payload bytes are
// written as-is; decoding failures of the image content itself only skip the
// thumbnail.
func SaveBase64Image(data string) (string, error) {
	// Remove data:image/jpeg;base64, prefix if present
	if idx := strings.Index(data, ","); idx != -1 {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("invalid image encoding: %w", err)
	}

	dir := ImagesDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	filename := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, filename), raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	saveThumbnail(dir, filename, raw)

	return filename, nil
}

// SaveImages stores every payload in order and returns the filenames. On a
// bad payload the files already written for the batch are removed again.
func SaveImages(payloads []string) ([]string, error) {
	filenames := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		filename, err := SaveBase64Image(payload)
		if err != nil {
			RemoveImages(filenames)
			return nil, err
		}
		filenames = append(filenames, filename)
	}
	return filenames, nil
}

// RemoveImages deletes stored images and their thumbnails, best effort
func RemoveImages(filenames []string) {
	dir := ImagesDir()
	for _, filename := range filenames {
		if err := os.Remove(filepath.Join(dir, filename)); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove image %s: %v", filename, err)
		}
		os.Remove(filepath.Join(dir, "thumb_"+filename))
	}
}

// saveThumbnail writes a 256px-wide preview next to the original. Best effort:
// payloads that are not decodable images are stored without one.
func saveThumbnail(dir, filename string, raw []byte) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return
	}

	thumb := imaging.Resize(img, 256, 0, imaging.Lanczos)
	thumbPath := filepath.Join(dir, "thumb_"+filename)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		log.Printf("Failed to save thumbnail %s: %v", thumbPath, err)
	}
}
